package domain

// Role represents a user role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
)

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleTenant:
		return true
	}
	return false
}

// Entity identifies one of the five record kinds visible through the
// role-scoped read surface.
type Entity string

const (
	EntityOwner    Entity = "owner"
	EntityTenant   Entity = "tenant"
	EntityProperty Entity = "property"
	EntityLease    Entity = "lease"
	EntityPayment  Entity = "payment"
)

// Actor is the resolved identity of an authenticated caller: a role
// plus an optional reference to the Owner or Tenant record the account
// is linked to. It is threaded explicitly through every entry point;
// there is no ambient "current user" state.
type Actor struct {
	UserID   int64
	Username string
	Role     Role
	RefID    *int64
}

// Ref returns the reference id and whether it is set.
func (a Actor) Ref() (int64, bool) {
	if a.RefID == nil {
		return 0, false
	}
	return *a.RefID, true
}
