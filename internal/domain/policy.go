package domain

// TenantMatch declares how a protected operation compares the principal's
// tenant against the tenant addressed by the request.
type TenantMatch int

const (
	// TenantMatchExact requires principal.TenantID == requested tenant.
	TenantMatchExact TenantMatch = iota
	// TenantMatchAny grants access regardless of the requested tenant.
	// Only roles with cross-tenant read rights may carry rules with Any.
	TenantMatchAny
	// TenantMatchOwnerOnly requires principal.ID == the resource owner's ID,
	// resolved by the caller before authorization.
	TenantMatchOwnerOnly
)

func (m TenantMatch) String() string {
	switch m {
	case TenantMatchExact:
		return "exact"
	case TenantMatchAny:
		return "any"
	case TenantMatchOwnerOnly:
		return "owner_only"
	default:
		return "unknown"
	}
}

// ScopeRule is declared per protected operation by its collaborator: which
// roles may perform it and how tenant boundaries apply.
type ScopeRule struct {
	RequiredRoles []Role
	TenantMatch   TenantMatch
}

// Permits reports whether the role is in the rule's required set.
func (r ScopeRule) Permits(role Role) bool {
	for _, allowed := range r.RequiredRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// DenyReason is the stable, machine-checkable reason for a denial.
type DenyReason string

const (
	DenyRoleNotPermitted DenyReason = "ROLE_NOT_PERMITTED"
	DenyTenantMismatch   DenyReason = "TENANT_MISMATCH"
	DenyNotOwner         DenyReason = "NOT_OWNER"
)

// Decision is the outcome of a TenantAccessPolicy evaluation.
type Decision struct {
	Allowed bool
	Reason  DenyReason // empty when Allowed
}

// Allow is the single allowed decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny builds a denial carrying its reason.
func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}
