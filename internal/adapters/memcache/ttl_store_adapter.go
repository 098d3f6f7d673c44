package memcache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

// TTLStoreAdapter implements domain.CacheStore on an in-process ttlcache.
// It is selected at startup when no Redis address is configured so seed
// deployments stay runnable without external dependencies. Per-key TTLs are
// honored the same way as the Redis adapter; the cache is process-local and
// vanishes on restart, which is acceptable for the seed use case.
type TTLStoreAdapter struct {
	cache  *ttlcache.Cache[string, []byte]
	logger domain.Logger
}

// NewTTLStoreAdapter creates a new in-process cache adapter and starts its
// expiry loop. The returned cleanup stops the loop.
func NewTTLStoreAdapter(logger domain.Logger) (*TTLStoreAdapter, func()) {
	if logger == nil {
		panic("logger cannot be nil in NewTTLStoreAdapter")
	}
	cache := ttlcache.New[string, []byte]()
	go cache.Start()
	cleanup := func() {
		cache.Stop()
	}
	return &TTLStoreAdapter{cache: cache, logger: logger}, cleanup
}

// Get retrieves the raw bytes stored under key. Reads must not extend the
// entry's lifetime; ttlcache touches items on hit by default, which would keep
// a frequently read key alive past its TTL.
func (a *TTLStoreAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	item := a.cache.Get(key, ttlcache.WithDisableTouchOnHit[string, []byte]())
	if item == nil || item.IsExpired() {
		a.logger.Debug(ctx, "Cache miss", "key", key)
		return nil, domain.ErrCacheMiss
	}
	a.logger.Debug(ctx, "Cache hit", "key", key)
	return item.Value(), nil
}

// Set stores value under key with the given TTL, replacing any previous entry.
func (a *TTLStoreAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	a.cache.Set(key, value, ttl)
	a.logger.Debug(ctx, "Cache set", "key", key, "ttl", ttl.String())
	return nil
}

// Delete removes the entry under key.
func (a *TTLStoreAdapter) Delete(ctx context.Context, key string) error {
	a.cache.Delete(key)
	a.logger.Debug(ctx, "Cache delete", "key", key)
	return nil
}

// Exists reports whether key holds an unexpired entry.
func (a *TTLStoreAdapter) Exists(ctx context.Context, key string) (bool, error) {
	item := a.cache.Get(key, ttlcache.WithDisableTouchOnHit[string, []byte]())
	return item != nil && !item.IsExpired(), nil
}
