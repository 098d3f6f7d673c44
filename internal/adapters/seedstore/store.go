package seedstore

import (
	"context"
	"time"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/identity"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

// Store is an in-memory stand-in for the relational store, selected at
// startup when no Postgres DSN is configured. It carries a small fixed
// inventory for the seed tenant so the whole read path, aggregates
// included, is exercisable without external dependencies. Data never
// changes after construction, so reads need no locking.
type Store struct {
	logger   domain.Logger
	profile  *domain.ExtendedProfile
	tenant   domain.Tenant
	vehicles []domain.Vehicle
}

// New creates the seed store and logs that the relational store is
// substituted.
func New(logger domain.Logger) *Store {
	logger.Error(context.Background(),
		"Postgres DSN absent; running with the in-memory SEED store. All reads serve fixed demo data. Never run this mode against production traffic.")

	profile := identity.SeedProfile()
	base := time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

	price := func(v int64) *int64 { return &v }
	soldAt := func(t time.Time) *time.Time { return &t }

	return &Store{
		logger:  logger,
		profile: profile,
		tenant: domain.Tenant{
			ID:        profile.TenantID,
			Name:      profile.TenantName,
			Kind:      profile.TenantKind,
			Active:    true,
			CreatedAt: base,
		},
		vehicles: []domain.Vehicle{
			{ID: "seed-vehicle-1", TenantID: profile.TenantID, Brand: "Toyota", Model: "Corolla", FuelType: "petrol", Year: 2021, Price: price(14500), Status: domain.VehicleAvailable, CreatedAt: base},
			{ID: "seed-vehicle-2", TenantID: profile.TenantID, Brand: "Toyota", Model: "Yaris", FuelType: "hybrid", Year: 2022, Price: price(17900), Status: domain.VehicleAvailable, CreatedAt: base},
			{ID: "seed-vehicle-3", TenantID: profile.TenantID, Brand: "Volkswagen", Model: "Golf", FuelType: "diesel", Year: 2019, Price: nil, Status: domain.VehicleAvailable, CreatedAt: base},
			{ID: "seed-vehicle-4", TenantID: profile.TenantID, Brand: "Renault", Model: "Clio", FuelType: "petrol", Year: 2020, Price: price(9800), Status: domain.VehicleSold, SoldAt: soldAt(base.AddDate(0, 0, 10)), CreatedAt: base},
			{ID: "seed-vehicle-5", TenantID: profile.TenantID, Brand: "Volkswagen", Model: "Passat", FuelType: "diesel", Year: 2018, Price: price(12400), Status: domain.VehicleSold, SoldAt: soldAt(base.AddDate(0, 1, 2)), CreatedAt: base},
		},
	}
}

// GetProfile returns the seed profile for the seed principal only.
func (s *Store) GetProfile(ctx context.Context, principalID string) (*domain.ExtendedProfile, error) {
	if principalID != s.profile.PrincipalID {
		return nil, domain.ErrProfileMissing
	}
	profile := *s.profile
	return &profile, nil
}

// GetTenant returns the seed tenant.
func (s *Store) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	if tenantID != s.tenant.ID {
		return nil, domain.ErrTenantNotFound
	}
	tenant := s.tenant
	return &tenant, nil
}

// GetVehicle returns one seed vehicle.
func (s *Store) GetVehicle(ctx context.Context, tenantID, vehicleID string) (*domain.Vehicle, error) {
	for _, v := range s.vehicles {
		if v.TenantID == tenantID && v.ID == vehicleID {
			vehicle := v
			return &vehicle, nil
		}
	}
	return nil, domain.ErrVehicleNotFound
}

// ListSoldSince filters the seed inventory like the relational query would.
func (s *Store) ListSoldSince(ctx context.Context, tenantID string, since time.Time) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	for _, v := range s.vehicles {
		if v.TenantID == tenantID && v.Status == domain.VehicleSold && v.SoldAt != nil && !v.SoldAt.Before(since) {
			out = append(out, v)
		}
	}
	return out, nil
}

// ListByStatus filters the seed inventory by status.
func (s *Store) ListByStatus(ctx context.Context, tenantID string, status domain.VehicleStatus) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	for _, v := range s.vehicles {
		if v.TenantID == tenantID && v.Status == status {
			out = append(out, v)
		}
	}
	return out, nil
}

// ListAll returns the tenant's full seed inventory.
func (s *Store) ListAll(ctx context.Context, tenantID string) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	for _, v := range s.vehicles {
		if v.TenantID == tenantID {
			out = append(out, v)
		}
	}
	return out, nil
}
