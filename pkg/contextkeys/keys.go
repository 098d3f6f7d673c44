package contextkeys

// contextKey is an unexported type for context keys to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for storing and retrieving a request ID.
	RequestIDKey contextKey = "request_id"

	// PrincipalIDKey is the context key for the authenticated principal's ID.
	PrincipalIDKey contextKey = "principal_id"

	// TenantIDKey is the context key for the principal's tenant ID.
	TenantIDKey contextKey = "tenant_id"

	// RoleKey is the context key for the principal's role.
	RoleKey contextKey = "role"

	// PrincipalKey is the context key for the entire resolved Principal struct.
	PrincipalKey contextKey = "principal"

	// BearerTokenKey is the context key for the raw bearer token presented on
	// the request. The logout handler needs it to revoke the session.
	BearerTokenKey contextKey = "bearer_token"
)

// String makes contextKey satisfy fmt.Stringer to help with debugging/logging of keys themselves.
func (c contextKey) String() string {
	return string(c)
}
