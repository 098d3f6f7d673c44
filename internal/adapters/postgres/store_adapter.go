package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/config"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

// StoreAdapter implements the domain store interfaces (ProfileStore,
// TenantStore, VehicleStore) on a pgx connection pool. Reads only; write
// endpoints live with their collaborators.
type StoreAdapter struct {
	pool         *pgxpool.Pool
	logger       domain.Logger
	queryTimeout time.Duration
}

// NewStoreAdapter creates a StoreAdapter over an established pool.
func NewStoreAdapter(pool *pgxpool.Pool, cfgProvider config.Provider, logger domain.Logger) *StoreAdapter {
	if pool == nil {
		panic("pool cannot be nil in NewStoreAdapter")
	}
	if logger == nil {
		panic("logger cannot be nil in NewStoreAdapter")
	}
	timeout := 5 * time.Second
	if s := cfgProvider.Get().Postgres.QueryTimeoutSeconds; s > 0 {
		timeout = time.Duration(s) * time.Second
	}
	return &StoreAdapter{pool: pool, logger: logger, queryTimeout: timeout}
}

// Connect establishes a pgx pool and verifies connectivity.
func Connect(ctx context.Context, cfgProvider config.Provider, logger domain.Logger) (*pgxpool.Pool, func(), error) {
	dsn := cfgProvider.Get().Postgres.DSN
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Error(ctx, "Failed to create Postgres pool", "error", err.Error())
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error(ctx, "Failed to ping Postgres", "error", err.Error())
		return nil, nil, err
	}
	cleanup := func() {
		pool.Close()
		logger.Info(context.Background(), "Postgres pool closed")
	}
	logger.Info(ctx, "Successfully connected to Postgres")
	return pool, cleanup, nil
}

// wrapQueryErr classifies a pgx transport failure. Row absence is handled
// by the callers, not here.
func wrapQueryErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewUpstreamError(domain.UpstreamTimeout, op, err)
	}
	if errors.Is(err, context.Canceled) {
		return domain.NewUpstreamError(domain.UpstreamUnexpected, op, err)
	}
	return domain.NewUpstreamError(domain.UpstreamUnreachable, op, err)
}

// GetProfile returns the profile row joined with its tenant.
func (s *StoreAdapter) GetProfile(ctx context.Context, principalID string) (*domain.ExtendedProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	const q = `
		SELECT p.id, p.email, p.display_name, p.role, p.tenant_id,
		       t.name, t.kind, p.created_at, p.updated_at
		FROM profiles p
		JOIN tenants t ON t.id = p.tenant_id
		WHERE p.id = $1`

	var profile domain.ExtendedProfile
	var roleStr string
	err := s.pool.QueryRow(ctx, q, principalID).Scan(
		&profile.PrincipalID, &profile.Email, &profile.DisplayName, &roleStr,
		&profile.TenantID, &profile.TenantName, &profile.TenantKind,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileMissing
	}
	if err != nil {
		s.logger.Error(ctx, "Profile query failed", "principal_id", principalID, "error", err.Error())
		return nil, wrapQueryErr("profiles.get", err)
	}

	role, err := domain.ParseRole(roleStr)
	if err != nil {
		// A row with a role outside the closed set is treated the same as a
		// missing profile: fail closed rather than guess.
		s.logger.Error(ctx, "Profile carries unknown role", "principal_id", principalID, "role", roleStr)
		return nil, domain.ErrProfileMissing
	}
	profile.Role = role
	return &profile, nil
}

// GetTenant returns the tenant record.
func (s *StoreAdapter) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	const q = `SELECT id, name, kind, active, created_at FROM tenants WHERE id = $1`

	var t domain.Tenant
	err := s.pool.QueryRow(ctx, q, tenantID).Scan(&t.ID, &t.Name, &t.Kind, &t.Active, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTenantNotFound
	}
	if err != nil {
		s.logger.Error(ctx, "Tenant query failed", "tenant_id", tenantID, "error", err.Error())
		return nil, wrapQueryErr("tenants.get", err)
	}
	return &t, nil
}

// GetVehicle returns one vehicle within the tenant's scope.
func (s *StoreAdapter) GetVehicle(ctx context.Context, tenantID, vehicleID string) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	const q = `
		SELECT id, tenant_id, brand, model, fuel_type, year, price, status, sold_at, created_at
		FROM vehicles
		WHERE tenant_id = $1 AND id = $2`

	v, err := scanVehicle(s.pool.QueryRow(ctx, q, tenantID, vehicleID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		s.logger.Error(ctx, "Vehicle query failed", "tenant_id", tenantID, "vehicle_id", vehicleID, "error", err.Error())
		return nil, wrapQueryErr("vehicles.get", err)
	}
	return v, nil
}

// ListSoldSince returns the tenant's vehicles sold at or after since.
func (s *StoreAdapter) ListSoldSince(ctx context.Context, tenantID string, since time.Time) ([]domain.Vehicle, error) {
	const q = `
		SELECT id, tenant_id, brand, model, fuel_type, year, price, status, sold_at, created_at
		FROM vehicles
		WHERE tenant_id = $1 AND status = 'sold' AND sold_at >= $2
		ORDER BY sold_at`
	return s.listVehicles(ctx, "vehicles.list_sold_since", q, tenantID, since)
}

// ListByStatus returns the tenant's vehicles in the given status.
func (s *StoreAdapter) ListByStatus(ctx context.Context, tenantID string, status domain.VehicleStatus) ([]domain.Vehicle, error) {
	const q = `
		SELECT id, tenant_id, brand, model, fuel_type, year, price, status, sold_at, created_at
		FROM vehicles
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at`
	return s.listVehicles(ctx, "vehicles.list_by_status", q, tenantID, string(status))
}

// ListAll returns every vehicle of the tenant.
func (s *StoreAdapter) ListAll(ctx context.Context, tenantID string) ([]domain.Vehicle, error) {
	const q = `
		SELECT id, tenant_id, brand, model, fuel_type, year, price, status, sold_at, created_at
		FROM vehicles
		WHERE tenant_id = $1
		ORDER BY created_at`
	return s.listVehicles(ctx, "vehicles.list_all", q, tenantID)
}

func (s *StoreAdapter) listVehicles(ctx context.Context, op, query string, args ...any) ([]domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error(ctx, "Vehicle list query failed", "op", op, "error", err.Error())
		return nil, wrapQueryErr(op, err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, wrapQueryErr(op, err)
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr(op, err)
	}
	return vehicles, nil
}

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	var v domain.Vehicle
	var status string
	if err := row.Scan(&v.ID, &v.TenantID, &v.Brand, &v.Model, &v.FuelType,
		&v.Year, &v.Price, &status, &v.SoldAt, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.Status = domain.VehicleStatus(status)
	return &v, nil
}
