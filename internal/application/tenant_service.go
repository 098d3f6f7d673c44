package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/config"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/metrics"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
	"gitlab.com/motorlane/api/motorlane-market-service/pkg/cachekeys"
)

// TenantService is the cache-aside read path for tenant records, the same
// shape as the profile resolver over the tenant:<id> namespace.
type TenantService struct {
	logger domain.Logger
	config config.Provider
	cache  domain.CacheStore
	store  domain.TenantStore
}

// NewTenantService creates a new TenantService.
func NewTenantService(logger domain.Logger, cfg config.Provider, cache domain.CacheStore, store domain.TenantStore) *TenantService {
	if logger == nil {
		panic("logger is nil in NewTenantService")
	}
	if cfg == nil {
		panic("config provider is nil in NewTenantService")
	}
	if cache == nil {
		panic("cache store is nil in NewTenantService")
	}
	if store == nil {
		panic("tenant store is nil in NewTenantService")
	}
	return &TenantService{logger: logger, config: cfg, cache: cache, store: store}
}

// GetTenant returns the tenant record, up to the configured TTL stale.
func (s *TenantService) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	key := cachekeys.TenantKey(tenantID)

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		var tenant domain.Tenant
		if uerr := json.Unmarshal(cached, &tenant); uerr == nil {
			metrics.IncCacheOp("tenant_get", "hit")
			return &tenant, nil
		}
		s.logger.Warn(ctx, "Discarding undecodable cached tenant", "key", key)
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Error(ctx, "Tenant cache read failed, falling back to store", "key", key, "error", err.Error())
		metrics.IncCacheOp("tenant_get", "error")
	} else {
		metrics.IncCacheOp("tenant_get", "miss")
	}

	tenant, err := s.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(tenant)
	if err != nil {
		s.logger.Error(ctx, "Failed to marshal tenant for caching", "tenant_id", tenantID, "error", err.Error())
		return tenant, nil
	}
	ttl := time.Duration(s.config.Get().Cache.TenantTTLSeconds) * time.Second
	if err := s.cache.Set(context.WithoutCancel(ctx), key, payload, ttl); err != nil {
		s.logger.Error(ctx, "Failed to cache tenant", "key", key, "error", err.Error())
		metrics.IncCacheOp("tenant_set", "error")
	}
	return tenant, nil
}

// Invalidate removes the cached tenant record.
func (s *TenantService) Invalidate(ctx context.Context, tenantID string) error {
	return s.cache.Delete(ctx, cachekeys.TenantKey(tenantID))
}
