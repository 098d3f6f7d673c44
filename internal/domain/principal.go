package domain

import "time"

// Principal holds the authenticated actor associated with a request. It is
// built fresh per request by the auth middleware and treated as immutable
// for the request's lifetime; it is never persisted beyond the cached
// extended profile.
type Principal struct {
	ID         string         `json:"id"`
	Email      string         `json:"email"`
	Role       Role           `json:"role"`
	TenantID   string         `json:"tenant_id"`
	RawProfile map[string]any `json:"raw_profile,omitempty"`

	// ExpiresAt is the credential's expiry as reported by the identity
	// provider. Zero when the provider does not report one; the revocation
	// TTL then falls back to the configured default.
	ExpiresAt time.Time `json:"expires_at,omitempty"`

	// Token is the raw bearer token the principal presented. Kept for
	// revocation-key generation, never marshalled.
	Token string `json:"-"`
}

// ExtendedProfile is the profile record joined with its tenant, the unit
// cached under profile:<principalID>. A profile is marshalled to the cache
// only once fully populated; callers replace entries, never mutate them in
// place.
type ExtendedProfile struct {
	PrincipalID string    `json:"principal_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	TenantID    string    `json:"tenant_id"`
	TenantName  string    `json:"tenant_name"`
	TenantKind  string    `json:"tenant_kind"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
