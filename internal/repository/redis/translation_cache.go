package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"voicebridge-backend/pkg/ctxutil"
)

// TranslationCacheRepository is the Redis-backed translation cache. It is a
// side channel, never a source of truth: callers treat any error as a miss.
type TranslationCacheRepository struct {
	client *redis.Client
}

// NewTranslationCacheRepository creates a new translation cache repository
func NewTranslationCacheRepository(client *redis.Client) *TranslationCacheRepository {
	return &TranslationCacheRepository{client: client}
}

// Get retrieves a cached translation. The second return is false on a miss;
// a non-nil error means the backend failed, not that the key is absent.
func (r *TranslationCacheRepository) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := ctxutil.WithCacheTimeout(ctx)
	defer cancel()

	value, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get failed: %w", err)
	}
	return value, true, nil
}

// SetEx stores a translation with a TTL
func (r *TranslationCacheRepository) SetEx(ctx context.Context, key string, ttl time.Duration, value string) error {
	ctx, cancel := ctxutil.WithCacheTimeout(ctx)
	defer cancel()

	if err := r.client.SetEx(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache setex failed: %w", err)
	}
	return nil
}
