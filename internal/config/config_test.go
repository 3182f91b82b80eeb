package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "manifold.markets", cfg.Domain)
	assert.Equal(t, "notification_events", cfg.NotificationCfg.QueueName)
	assert.Equal(t, "notification_events.dlq", cfg.NotificationCfg.DeadLetterQueue)
	assert.Equal(t, 100, cfg.NotificationCfg.FeedLimit)
	assert.Equal(t, 24*time.Hour, cfg.NotificationCfg.GroupWindow)
	assert.Equal(t, 10*time.Minute, cfg.RedisCfg.UserTTL)
	assert.False(t, cfg.NotificationCfg.PushEnabled)
}

func TestNew_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PUBLIC_DOMAIN", "dev.manifold.markets")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("NOTIFICATION_GROUP_WINDOW", "6h")
	t.Setenv("NOTIFICATION_WORKERS", "8")
	t.Setenv("PUSH_ENABLED", "true")

	cfg := New()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "dev.manifold.markets", cfg.Domain)
	assert.Equal(t, 3, cfg.RedisCfg.DB)
	assert.Equal(t, 6*time.Hour, cfg.NotificationCfg.GroupWindow)
	assert.Equal(t, 8, cfg.NotificationCfg.NumWorkers)
	assert.True(t, cfg.NotificationCfg.PushEnabled)
}
