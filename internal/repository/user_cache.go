package repository

import (
	"context"
	"log/slog"
	"time"

	"market-service/internal/database/redis"
	"market-service/internal/models"
)

// UserLookup is the subset of UserRepository that CachedUserRepository
// fronts with Redis.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetFollowerIDs(ctx context.Context, userID string) ([]string, error)
}

// CachedUserRepository caches username lookups, which tag resolution issues
// once per @mention. Cache failures fall through to the backing store.
type CachedUserRepository struct {
	UserLookup
	cache *redis.Client
	ttl   time.Duration
}

func NewCachedUserRepository(base UserLookup, cache *redis.Client, ttl time.Duration) *CachedUserRepository {
	return &CachedUserRepository{
		UserLookup: base,
		cache:      cache,
		ttl:        ttl,
	}
}

// usernameKey is case-sensitive like the Firestore username query.
func usernameKey(username string) string {
	return "market--User--username:" + username
}

func (r *CachedUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	key := usernameKey(username)
	cached, ok, err := redis.GetModel[models.User](ctx, r.cache, key)
	if err != nil {
		slog.Warn("user cache read failed", "key", key, "error", err)
	} else if ok {
		return cached, nil
	}

	user, err := r.UserLookup.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := redis.SetModel(ctx, r.cache, key, user, r.ttl); err != nil {
		slog.Warn("user cache write failed", "key", key, "error", err)
	}
	return user, nil
}
