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

const vehicleEntity = "vehicle"

// VehicleService is the cache-aside read path for vehicle details under the
// vehicle:<tenantId>:<vehicleId> namespace. Write endpoints belong to
// collaborators; after a successful mutation they invalidate the specific
// entity key, either directly or through the NATS invalidation consumer.
type VehicleService struct {
	logger domain.Logger
	config config.Provider
	cache  domain.CacheStore
	store  domain.VehicleStore
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(logger domain.Logger, cfg config.Provider, cache domain.CacheStore, store domain.VehicleStore) *VehicleService {
	if logger == nil {
		panic("logger is nil in NewVehicleService")
	}
	if cfg == nil {
		panic("config provider is nil in NewVehicleService")
	}
	if cache == nil {
		panic("cache store is nil in NewVehicleService")
	}
	if store == nil {
		panic("vehicle store is nil in NewVehicleService")
	}
	return &VehicleService{logger: logger, config: cfg, cache: cache, store: store}
}

// GetVehicle returns one vehicle detail, up to the configured TTL stale.
func (s *VehicleService) GetVehicle(ctx context.Context, tenantID, vehicleID string) (*domain.Vehicle, error) {
	key := cachekeys.EntityKey(vehicleEntity, tenantID, vehicleID)

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		var vehicle domain.Vehicle
		if uerr := json.Unmarshal(cached, &vehicle); uerr == nil {
			metrics.IncCacheOp("vehicle_get", "hit")
			return &vehicle, nil
		}
		s.logger.Warn(ctx, "Discarding undecodable cached vehicle", "key", key)
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Error(ctx, "Vehicle cache read failed, falling back to store", "key", key, "error", err.Error())
		metrics.IncCacheOp("vehicle_get", "error")
	} else {
		metrics.IncCacheOp("vehicle_get", "miss")
	}

	vehicle, err := s.store.GetVehicle(ctx, tenantID, vehicleID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(vehicle)
	if err != nil {
		s.logger.Error(ctx, "Failed to marshal vehicle for caching", "vehicle_id", vehicleID, "error", err.Error())
		return vehicle, nil
	}
	ttl := time.Duration(s.config.Get().Cache.VehicleDetailTTLSeconds) * time.Second
	if err := s.cache.Set(context.WithoutCancel(ctx), key, payload, ttl); err != nil {
		s.logger.Error(ctx, "Failed to cache vehicle", "key", key, "error", err.Error())
		metrics.IncCacheOp("vehicle_set", "error")
	}
	return vehicle, nil
}

// Invalidate removes the cached vehicle detail.
func (s *VehicleService) Invalidate(ctx context.Context, tenantID, vehicleID string) error {
	return s.cache.Delete(ctx, cachekeys.EntityKey(vehicleEntity, tenantID, vehicleID))
}
