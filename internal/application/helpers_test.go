package application

import (
	"context"
	"sync"
	"time"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/config"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

// nopLogger satisfies domain.Logger for tests that do not assert on logs.
type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, fields ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, fields ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, fields ...any) {}
func (nopLogger) Fatal(ctx context.Context, msg string, fields ...any) {}
func (l nopLogger) With(fields ...any) domain.Logger                   { return l }

// staticConfig satisfies config.Provider with a fixed configuration.
type staticConfig struct {
	cfg *config.Config
}

func (p staticConfig) Get() *config.Config { return p.cfg }

func testConfig() config.Provider {
	return staticConfig{cfg: &config.Config{
		Identity: config.IdentityConfig{DefaultRevocationTTLSeconds: 3600},
		Cache: config.CacheConfig{
			ProfileTTLSeconds:           3600,
			DashboardOverviewTTLSeconds: 300,
			DashboardStatsTTLSeconds:    600,
			TenantTTLSeconds:            900,
			VehicleDetailTTLSeconds:     1800,
		},
	}}
}

// fakeCache is an in-memory CacheStore with per-operation error injection.
// TTLs are recorded but not enforced; expiry behavior belongs to the
// adapter tests.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration

	getErr    error
	setErr    error
	existsErr error
	deleteErr error

	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	value, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return value, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteErr != nil {
		return c.deleteErr
	}
	delete(c.entries, key)
	delete(c.ttls, key)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.existsErr != nil {
		return false, c.existsErr
	}
	_, ok := c.entries[key]
	return ok, nil
}

// fakeVerifier satisfies domain.TokenVerifier.
type fakeVerifier struct {
	principal *domain.Principal
	err       error
	calls     int
}

func (v *fakeVerifier) Verify(ctx context.Context, rawToken string) (*domain.Principal, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	p := *v.principal
	p.Token = rawToken
	return &p, nil
}

func (v *fakeVerifier) Mode() string { return "fake" }

// fakeProfileStore satisfies domain.ProfileStore.
type fakeProfileStore struct {
	profiles map[string]*domain.ExtendedProfile
	err      error
	calls    int
}

func (s *fakeProfileStore) GetProfile(ctx context.Context, principalID string) (*domain.ExtendedProfile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	profile, ok := s.profiles[principalID]
	if !ok {
		return nil, domain.ErrProfileMissing
	}
	copied := *profile
	return &copied, nil
}

// fakeTenantStore satisfies domain.TenantStore.
type fakeTenantStore struct {
	tenants map[string]*domain.Tenant
	err     error
	calls   int
}

func (s *fakeTenantStore) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	tenant, ok := s.tenants[tenantID]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	copied := *tenant
	return &copied, nil
}

// fakeVehicleStore satisfies domain.VehicleStore over a fixed slice.
type fakeVehicleStore struct {
	vehicles []domain.Vehicle
	err      error
	calls    int
}

func (s *fakeVehicleStore) GetVehicle(ctx context.Context, tenantID, vehicleID string) (*domain.Vehicle, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	for _, v := range s.vehicles {
		if v.TenantID == tenantID && v.ID == vehicleID {
			copied := v
			return &copied, nil
		}
	}
	return nil, domain.ErrVehicleNotFound
}

func (s *fakeVehicleStore) ListSoldSince(ctx context.Context, tenantID string, since time.Time) ([]domain.Vehicle, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Vehicle
	for _, v := range s.vehicles {
		if v.TenantID == tenantID && v.Status == domain.VehicleSold && v.SoldAt != nil && !v.SoldAt.Before(since) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeVehicleStore) ListByStatus(ctx context.Context, tenantID string, status domain.VehicleStatus) ([]domain.Vehicle, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Vehicle
	for _, v := range s.vehicles {
		if v.TenantID == tenantID && v.Status == status {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeVehicleStore) ListAll(ctx context.Context, tenantID string) ([]domain.Vehicle, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Vehicle
	for _, v := range s.vehicles {
		if v.TenantID == tenantID {
			out = append(out, v)
		}
	}
	return out, nil
}

func int64Ptr(v int64) *int64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func soldVehicle(tenantID, id string, price *int64, soldAt time.Time) domain.Vehicle {
	return domain.Vehicle{
		ID:       id,
		TenantID: tenantID,
		Status:   domain.VehicleSold,
		Price:    price,
		SoldAt:   timePtr(soldAt),
	}
}
