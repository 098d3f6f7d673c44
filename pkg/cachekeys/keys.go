package cachekeys

import (
	"fmt"

	"gitlab.com/motorlane/api/motorlane-market-service/pkg/crypto"
)

// ProfileKey generates the cache key for a principal's extended profile.
func ProfileKey(principalID string) string {
	return fmt.Sprintf("profile:%s", principalID)
}

// RevocationKey generates the cache key marking a revoked bearer token.
// The raw token is hashed so that credentials never appear in cache keys
// or in cache-server logs.
func RevocationKey(rawToken string) string {
	return fmt.Sprintf("blacklist:%s", crypto.Sha256Hex(rawToken))
}

// DashboardOverviewKey generates the cache key for a tenant's dashboard
// overview aggregate for one time window.
func DashboardOverviewKey(tenantID, window string) string {
	return fmt.Sprintf("dashboard:%s:%s", tenantID, window)
}

// DashboardStatsKey generates the cache key for a tenant's inventory
// breakdown aggregate.
func DashboardStatsKey(tenantID string) string {
	return fmt.Sprintf("dashboard:stats:%s", tenantID)
}

// TenantKey generates the cache key for a tenant record.
func TenantKey(tenantID string) string {
	return fmt.Sprintf("tenant:%s", tenantID)
}

// EntityKey generates the cache key for a tenant-scoped entity detail,
// e.g. EntityKey("vehicle", tenantID, vehicleID).
func EntityKey(entity, tenantID, entityID string) string {
	return fmt.Sprintf("%s:%s:%s", entity, tenantID, entityID)
}
