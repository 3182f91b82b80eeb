package config

import (
	"time"

	"github.com/spf13/viper"
)

type MarketServiceConfig struct {
	Port            string
	LogDir          string
	Domain          string
	RabbitMQCfg     RabbitMQConfig
	RedisCfg        RedisConfig
	FirebaseCfg     FirebaseConfig
	NotificationCfg NotificationConfig
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	UserTTL  time.Duration
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
}

type NotificationConfig struct {
	QueueName       string
	DeadLetterQueue string
	PrefetchCount   int
	NumWorkers      int
	FeedLimit       int
	GroupWindow     time.Duration
	CloseScanEvery  time.Duration
	PushEnabled     bool
}

func New() *MarketServiceConfig {
	v := viper.New()
	v.AutomaticEnv()

	return &MarketServiceConfig{
		Port:   getEnvOrDefault(v, "PORT", "8090"),
		LogDir: getEnvOrDefault(v, "LOG_DIR", "/markets/log/market_service"),
		Domain: getEnvOrDefault(v, "PUBLIC_DOMAIN", "manifold.markets"),
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault(v, "RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault(v, "RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault(v, "RABBITMQ_HOST", "rabbitmq"),
			Port:     getEnvOrDefault(v, "RABBITMQ_PORT", "5672"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault(v, "REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault(v, "REDIS_PORT", "6379"),
			Password: getEnvOrDefault(v, "REDIS_PASSWORD", ""),
			DB:       getIntOrDefault(v, "REDIS_DB", 0),
			UserTTL:  getDurationOrDefault(v, "REDIS_USER_TTL", 10*time.Minute),
		},
		FirebaseCfg: FirebaseConfig{
			CredentialsPath: getEnvOrDefault(v, "FIREBASE_SERVICE_ACCOUNT_KEY", ""),
			ProjectID:       getEnvOrDefault(v, "FIREBASE_PROJECT_ID", ""),
		},
		NotificationCfg: NotificationConfig{
			QueueName:       getEnvOrDefault(v, "NOTIFICATION_QUEUE", "notification_events"),
			DeadLetterQueue: getEnvOrDefault(v, "NOTIFICATION_DLQ", "notification_events.dlq"),
			PrefetchCount:   getIntOrDefault(v, "NOTIFICATION_PREFETCH", 10),
			NumWorkers:      getIntOrDefault(v, "NOTIFICATION_WORKERS", 4),
			FeedLimit:       getIntOrDefault(v, "NOTIFICATION_FEED_LIMIT", 100),
			GroupWindow:     getDurationOrDefault(v, "NOTIFICATION_GROUP_WINDOW", 24*time.Hour),
			CloseScanEvery:  getDurationOrDefault(v, "CLOSE_SCAN_INTERVAL", 5*time.Minute),
			PushEnabled:     v.GetBool("PUSH_ENABLED"),
		},
	}
}

func getEnvOrDefault(v *viper.Viper, key, defaultValue string) string {
	v.SetDefault(key, defaultValue)
	if value := v.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(v *viper.Viper, key string, defaultValue int) int {
	v.SetDefault(key, defaultValue)
	return v.GetInt(key)
}

func getDurationOrDefault(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	v.SetDefault(key, defaultValue)
	if d := v.GetDuration(key); d > 0 {
		return d
	}
	return defaultValue
}
