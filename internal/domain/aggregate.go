package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// WindowKind selects the look-back window for dashboard aggregates.
type WindowKind string

const (
	Window7d  WindowKind = "7d"
	Window30d WindowKind = "30d"
	Window90d WindowKind = "90d"
	Window1y  WindowKind = "1y"
)

// ParseWindowKind validates a period string from the request path.
func ParseWindowKind(s string) (WindowKind, error) {
	switch WindowKind(s) {
	case Window7d, Window30d, Window90d, Window1y:
		return WindowKind(s), nil
	}
	return "", fmt.Errorf("unknown window kind %q", s)
}

// Start returns the window's start instant relative to now.
func (w WindowKind) Start(now time.Time) time.Time {
	switch w {
	case Window7d:
		return now.AddDate(0, 0, -7)
	case Window30d:
		return now.AddDate(0, 0, -30)
	case Window90d:
		return now.AddDate(0, 0, -90)
	case Window1y:
		return now.AddDate(-1, 0, 0)
	default:
		return now
	}
}

// AggregateSnapshot is one computed dashboard view. Payload is assembled in
// full before the snapshot is cached; a partially built payload never
// reaches the cache. Given unchanged underlying data, recomputation yields
// a byte-identical Payload; ComputedAt is the only wall-clock dependence.
type AggregateSnapshot struct {
	TenantID   string          `json:"tenant_id"`
	WindowKind WindowKind      `json:"window_kind,omitempty"`
	Kind       string          `json:"kind"`
	ComputedAt time.Time       `json:"computed_at"`
	Payload    json.RawMessage `json:"payload"`
}

// RevenueBucket is one year-month revenue sum. Key format "2006-01".
type RevenueBucket struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
	Count   int    `json:"count"`
}

// BreakdownEntry is one counted group in a breakdown (brand, fuel type, year).
type BreakdownEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// PriceStats summarizes currently-available inventory with a numeric price.
// An empty input set yields all zeros.
type PriceStats struct {
	Avg int64 `json:"avg"`
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// OverviewPayload is the dashboard:<tenant>:<window> aggregate body.
type OverviewPayload struct {
	ActiveListings int             `json:"active_listings"`
	SoldInWindow   int             `json:"sold_in_window"`
	Revenue        int64           `json:"revenue"`
	RevenueByMonth []RevenueBucket `json:"revenue_by_month"`
	PriceStats     PriceStats      `json:"price_stats"`
}

// StatsPayload is the dashboard:stats:<tenant> aggregate body.
type StatsPayload struct {
	Brands    []BreakdownEntry `json:"brands"`
	FuelTypes []BreakdownEntry `json:"fuel_types"`
	Years     []BreakdownEntry `json:"years"`
}
