package domain

import "time"

// VehicleStatus is a listing's lifecycle state.
type VehicleStatus string

const (
	VehicleAvailable VehicleStatus = "available"
	VehicleReserved  VehicleStatus = "reserved"
	VehicleSold      VehicleStatus = "sold"
)

// Vehicle is a tenant-scoped listing. Price is nullable: drafts and
// price-on-request listings carry no numeric price and are excluded from
// price statistics. SoldAt is set exactly when Status becomes sold.
type Vehicle struct {
	ID        string        `json:"id"`
	TenantID  string        `json:"tenant_id"`
	Brand     string        `json:"brand"`
	Model     string        `json:"model"`
	FuelType  string        `json:"fuel_type"`
	Year      int           `json:"year"`
	Price     *int64        `json:"price"`
	Status    VehicleStatus `json:"status"`
	SoldAt    *time.Time    `json:"sold_at,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
