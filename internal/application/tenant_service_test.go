package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
	"gitlab.com/motorlane/api/motorlane-market-service/pkg/cachekeys"
)

func TestGetTenant_CacheAside(t *testing.T) {
	cache := newFakeCache()
	store := &fakeTenantStore{tenants: map[string]*domain.Tenant{
		"tenant-a": {ID: "tenant-a", Name: "Tenant A Motors", Kind: "dealer", Active: true},
	}}
	svc := NewTenantService(nopLogger{}, testConfig(), cache, store)

	tenant, err := svc.GetTenant(context.Background(), "tenant-a")
	require.NoError(t, err)
	assert.Equal(t, "Tenant A Motors", tenant.Name)
	assert.Equal(t, 1, store.calls)

	// Second read is served from cache.
	_, err = svc.GetTenant(context.Background(), "tenant-a")
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
}

func TestGetTenant_NotFound(t *testing.T) {
	svc := NewTenantService(nopLogger{}, testConfig(), newFakeCache(), &fakeTenantStore{tenants: map[string]*domain.Tenant{}})

	_, err := svc.GetTenant(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestGetTenant_CacheFailureDegrades(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = domain.ErrCacheUnavailable
	cache.setErr = domain.ErrCacheUnavailable
	store := &fakeTenantStore{tenants: map[string]*domain.Tenant{
		"tenant-a": {ID: "tenant-a", Name: "Tenant A Motors"},
	}}
	svc := NewTenantService(nopLogger{}, testConfig(), cache, store)

	tenant, err := svc.GetTenant(context.Background(), "tenant-a")
	require.NoError(t, err)
	assert.Equal(t, "tenant-a", tenant.ID)
}

func TestTenantInvalidate(t *testing.T) {
	cache := newFakeCache()
	store := &fakeTenantStore{tenants: map[string]*domain.Tenant{"tenant-a": {ID: "tenant-a"}}}
	svc := NewTenantService(nopLogger{}, testConfig(), cache, store)

	_, err := svc.GetTenant(context.Background(), "tenant-a")
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(context.Background(), "tenant-a"))

	_, err = cache.Get(context.Background(), cachekeys.TenantKey("tenant-a"))
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
