package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

// CacheStoreAdapter implements domain.CacheStore on a Redis client. It is
// the production cache behind the profile resolver, the aggregation engine
// and the revocation denylist.
type CacheStoreAdapter struct {
	redisClient *redis.Client
	logger      domain.Logger
}

// NewCacheStoreAdapter creates a new instance of CacheStoreAdapter.
func NewCacheStoreAdapter(redisClient *redis.Client, logger domain.Logger) *CacheStoreAdapter {
	if redisClient == nil {
		// Panicking here because this is a critical setup error.
		panic("redisClient cannot be nil in NewCacheStoreAdapter")
	}
	if logger == nil {
		panic("logger cannot be nil in NewCacheStoreAdapter")
	}
	return &CacheStoreAdapter{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Get retrieves the raw bytes stored under key.
func (a *CacheStoreAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := a.redisClient.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		a.logger.Debug(ctx, "Cache miss", "key", key)
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		a.logger.Error(ctx, "Failed to get key from Redis cache", "key", key, "error", err.Error())
		return nil, fmt.Errorf("%w: redis GET for key '%s': %v", domain.ErrCacheUnavailable, key, err)
	}
	a.logger.Debug(ctx, "Cache hit", "key", key)
	return val, nil
}

// Set stores value under key with the given TTL, replacing any previous entry.
func (a *CacheStoreAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := a.redisClient.Set(ctx, key, value, ttl).Err(); err != nil {
		a.logger.Error(ctx, "Failed to set key in Redis cache", "key", key, "ttl", ttl.String(), "error", err.Error())
		return fmt.Errorf("%w: redis SET for key '%s': %v", domain.ErrCacheUnavailable, key, err)
	}
	a.logger.Debug(ctx, "Cache set", "key", key, "ttl", ttl.String())
	return nil
}

// Delete removes the entry under key. Absent keys are not an error.
func (a *CacheStoreAdapter) Delete(ctx context.Context, key string) error {
	if err := a.redisClient.Del(ctx, key).Err(); err != nil {
		a.logger.Error(ctx, "Failed to delete key from Redis cache", "key", key, "error", err.Error())
		return fmt.Errorf("%w: redis DEL for key '%s': %v", domain.ErrCacheUnavailable, key, err)
	}
	a.logger.Debug(ctx, "Cache delete", "key", key)
	return nil
}

// Exists reports whether key holds an unexpired entry.
func (a *CacheStoreAdapter) Exists(ctx context.Context, key string) (bool, error) {
	n, err := a.redisClient.Exists(ctx, key).Result()
	if err != nil {
		a.logger.Error(ctx, "Failed to check key existence in Redis cache", "key", key, "error", err.Error())
		return false, fmt.Errorf("%w: redis EXISTS for key '%s': %v", domain.ErrCacheUnavailable, key, err)
	}
	return n > 0, nil
}
