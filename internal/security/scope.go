// Package security implements the access scope resolver: the single
// source of truth mapping an actor's role to the rows it may read.
package security

import (
	"github.com/yourorg/rentledger/internal/domain"
)

// ScopeKind tags the row filter an actor gets for one entity kind.
type ScopeKind int

const (
	// ScopeDeny hides the entity kind entirely.
	ScopeDeny ScopeKind = iota
	// ScopeAll is the unscoped, admin-equivalent predicate.
	ScopeAll
	// ScopeSelf restricts owners/tenants to the single row whose id
	// equals the actor's reference id.
	ScopeSelf
	// ScopeByOwner restricts properties to owner_id == reference id.
	ScopeByOwner
	// ScopeByTenant restricts leases to tenant_id == reference id,
	// and payments to those whose lease has that tenant_id.
	ScopeByTenant
)

// Scope is a read predicate for one (actor, entity) pair. RefID is
// meaningful for every kind except Deny and All. The referenced row is
// never checked for existence: a dangling reference simply matches
// nothing, degrading that actor's view to an empty set.
type Scope struct {
	Kind  ScopeKind
	RefID int64
}

// ResolveScope computes the visibility predicate for an actor reading
// one entity kind. It is evaluated once per read operation; mutations
// deliberately do not pass through here (the legacy write-side gap is
// preserved and audited instead).
//
// Whenever a scoped role has no reference id, the resolver falls back
// to the unscoped predicate for that entity: the account exists but is
// not yet linked to a business record.
func ResolveScope(actor domain.Actor, entity domain.Entity) Scope {
	switch actor.Role {
	case domain.RoleAdmin:
		return Scope{Kind: ScopeAll}
	case domain.RoleOwner:
		return ownerScope(actor, entity)
	case domain.RoleTenant:
		return tenantScope(actor, entity)
	default:
		return Scope{Kind: ScopeDeny}
	}
}

func ownerScope(actor domain.Actor, entity domain.Entity) Scope {
	ref, linked := actor.Ref()
	switch entity {
	case domain.EntityOwner:
		if !linked {
			return Scope{Kind: ScopeAll}
		}
		return Scope{Kind: ScopeSelf, RefID: ref}
	case domain.EntityTenant:
		return Scope{Kind: ScopeDeny}
	case domain.EntityProperty:
		if !linked {
			return Scope{Kind: ScopeAll}
		}
		return Scope{Kind: ScopeByOwner, RefID: ref}
	case domain.EntityLease, domain.EntityPayment:
		// Owners see all leases and payments, not just those touching
		// their own properties. Legacy behavior, kept as specified.
		return Scope{Kind: ScopeAll}
	default:
		return Scope{Kind: ScopeDeny}
	}
}

func tenantScope(actor domain.Actor, entity domain.Entity) Scope {
	ref, linked := actor.Ref()
	switch entity {
	case domain.EntityOwner, domain.EntityProperty:
		return Scope{Kind: ScopeDeny}
	case domain.EntityTenant:
		if !linked {
			return Scope{Kind: ScopeAll}
		}
		return Scope{Kind: ScopeSelf, RefID: ref}
	case domain.EntityLease, domain.EntityPayment:
		if !linked {
			return Scope{Kind: ScopeAll}
		}
		return Scope{Kind: ScopeByTenant, RefID: ref}
	default:
		return Scope{Kind: ScopeDeny}
	}
}

// CanViewReports gates the reporting surface as a whole. The reports
// themselves are privileged (never scope-filtered), so exclusion
// happens here at the coarse level: tenants are kept out, admins and
// owners see everything.
func CanViewReports(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleOwner
}
