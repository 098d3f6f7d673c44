package application

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
	"gitlab.com/motorlane/api/motorlane-market-service/pkg/cachekeys"
)

// ErrInvalidEvent marks an event that can never be applied; redelivery is
// pointless and consumers should discard it.
var ErrInvalidEvent = errors.New("invalid invalidation event")

// InvalidationService applies entity-write events to the cache: the
// specific entity key is deleted so the next read goes to the store.
// Derived aggregate keys are deliberately left to their natural TTL expiry;
// the accepted staleness window is bounded by the aggregate TTLs.
type InvalidationService struct {
	logger domain.Logger
	cache  domain.CacheStore
}

// NewInvalidationService creates a new InvalidationService.
func NewInvalidationService(logger domain.Logger, cache domain.CacheStore) *InvalidationService {
	if logger == nil {
		panic("logger is nil in NewInvalidationService")
	}
	if cache == nil {
		panic("cache store is nil in NewInvalidationService")
	}
	return &InvalidationService{logger: logger, cache: cache}
}

// Apply deletes the cache entry named by the event.
func (s *InvalidationService) Apply(ctx context.Context, event domain.EntityUpdatedEvent) error {
	if event.Entity == "" || event.TenantID == "" {
		return fmt.Errorf("%w: entity and tenant_id are required", ErrInvalidEvent)
	}

	var key string
	switch event.Entity {
	case "tenant":
		key = cachekeys.TenantKey(event.TenantID)
	case "profile":
		key = cachekeys.ProfileKey(event.EntityID)
	default:
		if event.EntityID == "" {
			return fmt.Errorf("%w: entity_id required for %q", ErrInvalidEvent, event.Entity)
		}
		key = cachekeys.EntityKey(event.Entity, event.TenantID, event.EntityID)
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Error(ctx, "Failed to invalidate cache entry", "key", key, "error", err.Error())
		return err
	}
	s.logger.Debug(ctx, "Invalidated cache entry", "key", key, "entity", event.Entity)
	return nil
}
