package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yourorg/rentledger/internal/domain"
	"github.com/yourorg/rentledger/internal/security"
	"github.com/yourorg/rentledger/internal/validation"
)

// RentalService is the core engine: validated mutations and
// role-scoped reads over the five rental entities.
//
// Reads are filtered through the scope resolver. Mutations validate
// fields and then write unconditionally; callers gate who may reach
// them and the audit trail records every attempt.
type RentalService struct {
	owners     domain.OwnerRepository
	tenants    domain.TenantRepository
	properties domain.PropertyRepository
	leases     domain.LeaseRepository
	payments   domain.PaymentRepository
	logger     *slog.Logger
}

// NewRentalService creates a new rental service.
func NewRentalService(
	owners domain.OwnerRepository,
	tenants domain.TenantRepository,
	properties domain.PropertyRepository,
	leases domain.LeaseRepository,
	payments domain.PaymentRepository,
	logger *slog.Logger,
) *RentalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RentalService{
		owners:     owners,
		tenants:    tenants,
		properties: properties,
		leases:     leases,
		payments:   payments,
		logger:     logger,
	}
}

func validatePerson(name, phone string) error {
	if !validation.NonEmptyText(name) {
		return validation.Errorf("name", "must not be empty")
	}
	if !validation.Phone(phone) {
		return validation.Errorf("phone", "must be a phone number, got %q", phone)
	}
	return nil
}

// CreateOwner validates and stores a new owner.
func (s *RentalService) CreateOwner(ctx context.Context, owner *domain.Owner) error {
	if err := validatePerson(owner.Name, owner.Phone); err != nil {
		return err
	}
	return s.owners.Create(ctx, owner)
}

// GetOwner retrieves one owner by id.
func (s *RentalService) GetOwner(ctx context.Context, id int64) (*domain.Owner, error) {
	return s.owners.GetByID(ctx, id)
}

// UpdateOwner validates and updates an existing owner.
func (s *RentalService) UpdateOwner(ctx context.Context, owner *domain.Owner) error {
	if err := validatePerson(owner.Name, owner.Phone); err != nil {
		return err
	}
	return s.owners.Update(ctx, owner)
}

// DeleteOwner removes an owner. Their properties survive, unlinked.
func (s *RentalService) DeleteOwner(ctx context.Context, id int64) error {
	return s.owners.Delete(ctx, id)
}

// ListOwners returns the owners visible to the actor.
func (s *RentalService) ListOwners(ctx context.Context, actor domain.Actor) ([]*domain.Owner, error) {
	scope := security.ResolveScope(actor, domain.EntityOwner)
	switch scope.Kind {
	case security.ScopeAll:
		return s.owners.List(ctx)
	case security.ScopeSelf:
		owner, err := s.owners.GetByID(ctx, scope.RefID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// A link to a deleted record reads as an empty set.
				return []*domain.Owner{}, nil
			}
			return nil, err
		}
		return []*domain.Owner{owner}, nil
	default:
		return nil, domain.ErrForbidden
	}
}

// CreateTenant validates and stores a new tenant.
func (s *RentalService) CreateTenant(ctx context.Context, tenant *domain.Tenant) error {
	if err := validatePerson(tenant.Name, tenant.Phone); err != nil {
		return err
	}
	return s.tenants.Create(ctx, tenant)
}

// GetTenant retrieves one tenant by id.
func (s *RentalService) GetTenant(ctx context.Context, id int64) (*domain.Tenant, error) {
	return s.tenants.GetByID(ctx, id)
}

// UpdateTenant validates and updates an existing tenant.
func (s *RentalService) UpdateTenant(ctx context.Context, tenant *domain.Tenant) error {
	if err := validatePerson(tenant.Name, tenant.Phone); err != nil {
		return err
	}
	return s.tenants.Update(ctx, tenant)
}

// DeleteTenant removes a tenant along with their leases and payments.
func (s *RentalService) DeleteTenant(ctx context.Context, id int64) error {
	return s.tenants.Delete(ctx, id)
}

// ListTenants returns the tenants visible to the actor.
func (s *RentalService) ListTenants(ctx context.Context, actor domain.Actor) ([]*domain.Tenant, error) {
	scope := security.ResolveScope(actor, domain.EntityTenant)
	switch scope.Kind {
	case security.ScopeAll:
		return s.tenants.List(ctx)
	case security.ScopeSelf:
		tenant, err := s.tenants.GetByID(ctx, scope.RefID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return []*domain.Tenant{}, nil
			}
			return nil, err
		}
		return []*domain.Tenant{tenant}, nil
	default:
		return nil, domain.ErrForbidden
	}
}

func validateProperty(property *domain.Property) error {
	if !validation.NonEmptyText(property.Name) {
		return validation.Errorf("name", "must not be empty")
	}
	if !validation.NonEmptyText(property.Location) {
		return validation.Errorf("location", "must not be empty")
	}
	if property.Rent <= 0 {
		return validation.Errorf("rent", "must be greater than zero, got %v", property.Rent)
	}
	return nil
}

// CreateProperty validates and stores a new property.
func (s *RentalService) CreateProperty(ctx context.Context, property *domain.Property) error {
	if err := validateProperty(property); err != nil {
		return err
	}
	return s.properties.Create(ctx, property)
}

// GetProperty retrieves one property by id.
func (s *RentalService) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	return s.properties.GetByID(ctx, id)
}

// UpdateProperty validates and updates an existing property.
func (s *RentalService) UpdateProperty(ctx context.Context, property *domain.Property) error {
	if err := validateProperty(property); err != nil {
		return err
	}
	return s.properties.Update(ctx, property)
}

// DeleteProperty removes a property and cascades to its leases.
func (s *RentalService) DeleteProperty(ctx context.Context, id int64) error {
	return s.properties.Delete(ctx, id)
}

// ListProperties returns the properties visible to the actor.
func (s *RentalService) ListProperties(ctx context.Context, actor domain.Actor) ([]*domain.Property, error) {
	scope := security.ResolveScope(actor, domain.EntityProperty)
	switch scope.Kind {
	case security.ScopeAll:
		return s.properties.List(ctx)
	case security.ScopeByOwner:
		return s.properties.ListByOwner(ctx, scope.RefID)
	default:
		return nil, domain.ErrForbidden
	}
}

// SearchProperties returns properties matching the filter, narrowed
// to the actor's property scope. An owner's searches are pinned to
// their own listings regardless of the filter they send.
func (s *RentalService) SearchProperties(ctx context.Context, actor domain.Actor, filter domain.PropertyFilter) ([]*domain.Property, error) {
	scope := security.ResolveScope(actor, domain.EntityProperty)
	switch scope.Kind {
	case security.ScopeAll:
	case security.ScopeByOwner:
		refID := scope.RefID
		filter.OwnerID = &refID
	default:
		return nil, domain.ErrForbidden
	}
	if filter.MinRent != nil && *filter.MinRent < 0 {
		return nil, validation.Errorf("min_rent", "must not be negative")
	}
	if filter.MaxRent != nil && *filter.MaxRent < 0 {
		return nil, validation.Errorf("max_rent", "must not be negative")
	}
	if filter.MinRent != nil && filter.MaxRent != nil && *filter.MinRent > *filter.MaxRent {
		return nil, validation.Errorf("min_rent", "must not exceed max_rent")
	}
	return s.properties.Search(ctx, filter)
}

func validateLease(lease *domain.Lease) error {
	if !validation.CalendarDate(lease.StartDate) {
		return validation.Errorf("start_date", "must be a real YYYY-MM-DD date, got %q", lease.StartDate)
	}
	if !validation.CalendarDate(lease.EndDate) {
		return validation.Errorf("end_date", "must be a real YYYY-MM-DD date, got %q", lease.EndDate)
	}
	// No ordering constraint between the dates: the store carries
	// whatever the books say, including leases recorded backwards.
	return nil
}

// CreateLease validates and stores a new lease.
func (s *RentalService) CreateLease(ctx context.Context, lease *domain.Lease) error {
	if err := validateLease(lease); err != nil {
		return err
	}
	return s.leases.Create(ctx, lease)
}

// GetLease retrieves one lease by id.
func (s *RentalService) GetLease(ctx context.Context, id int64) (*domain.Lease, error) {
	return s.leases.GetByID(ctx, id)
}

// UpdateLease validates and updates an existing lease.
func (s *RentalService) UpdateLease(ctx context.Context, lease *domain.Lease) error {
	if err := validateLease(lease); err != nil {
		return err
	}
	return s.leases.Update(ctx, lease)
}

// DeleteLease removes a lease and its payments.
func (s *RentalService) DeleteLease(ctx context.Context, id int64) error {
	return s.leases.Delete(ctx, id)
}

// ListLeases returns the leases visible to the actor.
func (s *RentalService) ListLeases(ctx context.Context, actor domain.Actor) ([]*domain.Lease, error) {
	scope := security.ResolveScope(actor, domain.EntityLease)
	switch scope.Kind {
	case security.ScopeAll:
		return s.leases.List(ctx)
	case security.ScopeByTenant:
		return s.leases.ListByTenant(ctx, scope.RefID)
	default:
		return nil, domain.ErrForbidden
	}
}

func validatePayment(payment *domain.Payment) error {
	if payment.Amount <= 0 {
		return validation.Errorf("amount", "must be greater than zero, got %v", payment.Amount)
	}
	if !validation.CalendarDate(payment.Date) {
		return validation.Errorf("date", "must be a real YYYY-MM-DD date, got %q", payment.Date)
	}
	return nil
}

// CreatePayment validates and stores a new payment.
func (s *RentalService) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	if err := validatePayment(payment); err != nil {
		return err
	}
	return s.payments.Create(ctx, payment)
}

// GetPayment retrieves one payment by id.
func (s *RentalService) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

// UpdatePayment validates and updates an existing payment.
func (s *RentalService) UpdatePayment(ctx context.Context, payment *domain.Payment) error {
	if err := validatePayment(payment); err != nil {
		return err
	}
	return s.payments.Update(ctx, payment)
}

// DeletePayment removes a payment.
func (s *RentalService) DeletePayment(ctx context.Context, id int64) error {
	return s.payments.Delete(ctx, id)
}

// ListPayments returns the payments visible to the actor.
func (s *RentalService) ListPayments(ctx context.Context, actor domain.Actor) ([]*domain.Payment, error) {
	scope := security.ResolveScope(actor, domain.EntityPayment)
	switch scope.Kind {
	case security.ScopeAll:
		return s.payments.List(ctx)
	case security.ScopeByTenant:
		return s.payments.ListByTenant(ctx, scope.RefID)
	default:
		return nil, domain.ErrForbidden
	}
}
