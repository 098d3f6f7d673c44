package domain

import "fmt"

// Role is the closed set of marketplace roles. Role strings arrive from the
// profile store; ParseRole is the only way to turn an arbitrary string into
// a Role, so an unknown role fails authentication instead of silently
// matching nothing.
type Role string

const (
	RoleBuyer            Role = "buyer"
	RoleIndividualSeller Role = "individual_seller"
	RoleDealerSeller     Role = "dealer_seller"
	RoleDealerAdmin      Role = "dealer_admin"
	RoleBranchManager    Role = "branch_manager"
	RoleCorporateAdmin   Role = "corporate_admin"
)

// AllRoles lists every valid role. Kept in one place so the policy tests can
// iterate the full set.
var AllRoles = []Role{
	RoleBuyer,
	RoleIndividualSeller,
	RoleDealerSeller,
	RoleDealerAdmin,
	RoleBranchManager,
	RoleCorporateAdmin,
}

// ParseRole validates a role string against the closed set.
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CrossTenantRead reports whether the role may be granted cross-tenant read
// access (TenantMatchAny). Buyers browse listings across every tenant; all
// selling and administrative roles are confined to their own tenant.
func (r Role) CrossTenantRead() bool {
	return r == RoleBuyer
}

func (r Role) String() string {
	return string(r)
}
