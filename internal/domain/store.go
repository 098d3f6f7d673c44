package domain

import (
	"context"
	"time"
)

// ProfileStore reads extended profiles from the relational store.
type ProfileStore interface {
	// GetProfile returns the profile joined with its tenant, or
	// ErrProfileMissing when no row exists. Transport failures are wrapped
	// as *UpstreamError.
	GetProfile(ctx context.Context, principalID string) (*ExtendedProfile, error)
}

// TenantStore reads tenant records from the relational store.
type TenantStore interface {
	// GetTenant returns the tenant, or ErrTenantNotFound.
	GetTenant(ctx context.Context, tenantID string) (*Tenant, error)
}

// VehicleStore reads tenant-scoped vehicle rows from the relational store.
// The aggregation engine consumes these; writes stay with collaborators.
type VehicleStore interface {
	// GetVehicle returns one vehicle in the tenant's scope, or
	// ErrVehicleNotFound.
	GetVehicle(ctx context.Context, tenantID, vehicleID string) (*Vehicle, error)

	// ListSoldSince returns vehicles of the tenant sold at or after since.
	ListSoldSince(ctx context.Context, tenantID string, since time.Time) ([]Vehicle, error)

	// ListByStatus returns all vehicles of the tenant in the given status.
	ListByStatus(ctx context.Context, tenantID string, status VehicleStatus) ([]Vehicle, error)

	// ListAll returns every vehicle of the tenant, for the inventory
	// breakdowns.
	ListAll(ctx context.Context, tenantID string) ([]Vehicle, error)
}
