package application

import (
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

// AccessPolicy is the tenant-boundary decision function. It is pure and
// performs no I/O, which is what makes its decision table exhaustively unit
// testable.
type AccessPolicy struct{}

// NewAccessPolicy creates the policy. It carries no state; the constructor
// exists for injection symmetry with the other services.
func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// Authorize decides whether principal may perform the operation declared by
// rule against requestedTenantID. resourceOwnerID is only consulted for
// owner-only rules and is resolved by the caller beforehand.
//
//	role not in RequiredRoles            -> Deny(RoleNotPermitted)
//	match Any                            -> Allow
//	match Exact, tenant IDs equal        -> Allow, else Deny(TenantMismatch)
//	match OwnerOnly, principal owns it   -> Allow, else Deny(NotOwner)
func (p *AccessPolicy) Authorize(principal *domain.Principal, rule domain.ScopeRule, requestedTenantID, resourceOwnerID string) domain.Decision {
	if !rule.Permits(principal.Role) {
		return domain.Deny(domain.DenyRoleNotPermitted)
	}

	switch rule.TenantMatch {
	case domain.TenantMatchAny:
		return domain.Allow()
	case domain.TenantMatchExact:
		if principal.TenantID == requestedTenantID {
			return domain.Allow()
		}
		return domain.Deny(domain.DenyTenantMismatch)
	case domain.TenantMatchOwnerOnly:
		if principal.ID == resourceOwnerID && resourceOwnerID != "" {
			return domain.Allow()
		}
		return domain.Deny(domain.DenyNotOwner)
	default:
		// Unreachable for the closed TenantMatch set; deny rather than
		// allow if a new variant is ever added without revisiting this
		// switch.
		return domain.Deny(domain.DenyRoleNotPermitted)
	}
}
