package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
	"gitlab.com/motorlane/api/motorlane-market-service/pkg/cachekeys"
)

func TestApply_DeletesEntityKey(t *testing.T) {
	cache := newFakeCache()
	key := cachekeys.EntityKey("vehicle", "tenant-a", "v-1")
	require.NoError(t, cache.Set(context.Background(), key, []byte("{}"), time.Hour))

	svc := NewInvalidationService(nopLogger{}, cache)
	err := svc.Apply(context.Background(), domain.EntityUpdatedEvent{Entity: "vehicle", TenantID: "tenant-a", EntityID: "v-1"})
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), key)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestApply_TenantEventsUseTenantNamespace(t *testing.T) {
	cache := newFakeCache()
	require.NoError(t, cache.Set(context.Background(), cachekeys.TenantKey("tenant-a"), []byte("{}"), time.Hour))

	svc := NewInvalidationService(nopLogger{}, cache)
	err := svc.Apply(context.Background(), domain.EntityUpdatedEvent{Entity: "tenant", TenantID: "tenant-a"})
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), cachekeys.TenantKey("tenant-a"))
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestApply_ProfileEventsUseProfileNamespace(t *testing.T) {
	cache := newFakeCache()
	require.NoError(t, cache.Set(context.Background(), cachekeys.ProfileKey("p-1"), []byte("{}"), time.Hour))

	svc := NewInvalidationService(nopLogger{}, cache)
	err := svc.Apply(context.Background(), domain.EntityUpdatedEvent{Entity: "profile", TenantID: "tenant-a", EntityID: "p-1"})
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), cachekeys.ProfileKey("p-1"))
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestApply_RejectsIncompleteEvents(t *testing.T) {
	svc := NewInvalidationService(nopLogger{}, newFakeCache())

	assert.ErrorIs(t, svc.Apply(context.Background(), domain.EntityUpdatedEvent{Entity: "", TenantID: "tenant-a"}), ErrInvalidEvent)
	assert.ErrorIs(t, svc.Apply(context.Background(), domain.EntityUpdatedEvent{Entity: "vehicle", TenantID: ""}), ErrInvalidEvent)
	assert.ErrorIs(t, svc.Apply(context.Background(), domain.EntityUpdatedEvent{Entity: "vehicle", TenantID: "tenant-a", EntityID: ""}), ErrInvalidEvent)
}
