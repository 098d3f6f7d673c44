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

// ProfileService resolves a principal's extended profile cache-aside: the
// cache is consulted first, the relational store on a miss, and the result
// is written back with the configured TTL. Cache failures outside the
// revocation namespace never abort resolution; the store remains the source
// of truth.
//
// In seed mode a fixed synthetic profile replaces the store entirely. The
// strategy is chosen once at startup together with the verifier.
type ProfileService struct {
	logger domain.Logger
	config config.Provider
	cache  domain.CacheStore
	store  domain.ProfileStore
	seed   *domain.ExtendedProfile
}

// NewProfileService creates a new ProfileService. store may only be nil
// when seed is non-nil.
func NewProfileService(logger domain.Logger, cfg config.Provider, cache domain.CacheStore, store domain.ProfileStore, seed *domain.ExtendedProfile) *ProfileService {
	if logger == nil {
		panic("logger is nil in NewProfileService")
	}
	if cfg == nil {
		panic("config provider is nil in NewProfileService")
	}
	if cache == nil {
		panic("cache store is nil in NewProfileService")
	}
	if store == nil && seed == nil {
		panic("profile store is nil in NewProfileService")
	}
	return &ProfileService{logger: logger, config: cfg, cache: cache, store: store, seed: seed}
}

// Resolve returns the extended profile for principalID. The result reflects
// store state as of the last write, or up to the configured TTL stale. On
// store unreachability resolution fails closed; a guessed or default
// profile is never substituted.
func (s *ProfileService) Resolve(ctx context.Context, principalID string) (*domain.ExtendedProfile, error) {
	if s.seed != nil {
		profile := *s.seed
		return &profile, nil
	}

	key := cachekeys.ProfileKey(principalID)

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		var profile domain.ExtendedProfile
		if uerr := json.Unmarshal(cached, &profile); uerr == nil {
			metrics.IncCacheOp("profile_get", "hit")
			return &profile, nil
		}
		// A corrupt entry is treated as a miss; the write below replaces it.
		s.logger.Warn(ctx, "Discarding undecodable cached profile", "key", key)
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Error(ctx, "Profile cache read failed, falling back to store", "key", key, "error", err.Error())
		metrics.IncCacheOp("profile_get", "error")
	} else {
		metrics.IncCacheOp("profile_get", "miss")
	}

	profile, err := s.store.GetProfile(ctx, principalID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(profile)
	if err != nil {
		// Marshal failure is unexpected but must not block the resolved
		// profile; the cache simply stays cold.
		s.logger.Error(ctx, "Failed to marshal profile for caching", "principal_id", principalID, "error", err.Error())
		return profile, nil
	}

	// Cache population stays valid even when the client has gone away, so
	// the write deliberately outlives request cancellation.
	ttl := time.Duration(s.config.Get().Cache.ProfileTTLSeconds) * time.Second
	if err := s.cache.Set(context.WithoutCancel(ctx), key, payload, ttl); err != nil {
		s.logger.Error(ctx, "Failed to cache profile", "key", key, "error", err.Error())
		metrics.IncCacheOp("profile_set", "error")
	}

	return profile, nil
}

// Invalidate removes the cached profile, called by collaborators after a
// successful profile write.
func (s *ProfileService) Invalidate(ctx context.Context, principalID string) error {
	return s.cache.Delete(ctx, cachekeys.ProfileKey(principalID))
}
