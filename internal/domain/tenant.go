package domain

import "time"

// Tenant is an isolated customer/organization boundary. Most resources
// belong to exactly one tenant; dealers and individual sellers are both
// tenants, a dealer just carries more seats.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"` // "dealer" or "individual"
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
