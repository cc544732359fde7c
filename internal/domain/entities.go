package domain

import "context"

// Owner represents a property owner.
type Owner struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Tenant represents a renting tenant.
type Tenant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Property represents a rentable property. OwnerID is nil when the
// owning record was deleted (the store nullifies the reference).
type Property struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Rent     float64 `json:"rent"`
	OwnerID  *int64 `json:"ownerId"`
}

// Lease ties a tenant to a property for a date range. Dates are ISO
// YYYY-MM-DD strings; no ordering between start and end is enforced.
type Lease struct {
	ID         int64  `json:"id"`
	PropertyID int64  `json:"propertyId"`
	TenantID   int64  `json:"tenantId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

// Payment records a rent payment against a lease.
type Payment struct {
	ID      int64   `json:"id"`
	LeaseID int64   `json:"leaseId"`
	Amount  float64 `json:"amount"`
	Date    string  `json:"date"`
}

// PaymentReportRow is one line of the monthly payment report:
// a payment joined with its lease for property/tenant context.
type PaymentReportRow struct {
	PaymentID  int64   `json:"paymentId"`
	LeaseID    int64   `json:"leaseId"`
	PropertyID int64   `json:"propertyId"`
	TenantID   int64   `json:"tenantId"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
}

// UnpaidLeaseRow is one line of the unpaid-lease alert: a lease with
// no payment recorded inside the reporting window.
type UnpaidLeaseRow struct {
	LeaseID    int64  `json:"leaseId"`
	PropertyID int64  `json:"propertyId"`
	TenantID   int64  `json:"tenantId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Notes      string `json:"notes"`
}

// PropertyFilter holds the optional property search criteria.
// Nil/empty fields are ignored.
type PropertyFilter struct {
	Name     string
	Location string
	MinRent  *float64
	MaxRent  *float64
	OwnerID  *int64
}

// OwnerRepository defines data access for owners.
type OwnerRepository interface {
	Create(ctx context.Context, owner *Owner) error
	GetByID(ctx context.Context, id int64) (*Owner, error)
	Update(ctx context.Context, owner *Owner) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*Owner, error)
}

// TenantRepository defines data access for tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id int64) (*Tenant, error)
	Update(ctx context.Context, tenant *Tenant) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*Tenant, error)
}

// PropertyRepository defines data access for properties.
type PropertyRepository interface {
	Create(ctx context.Context, property *Property) error
	GetByID(ctx context.Context, id int64) (*Property, error)
	Update(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*Property, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Property, error)
	Search(ctx context.Context, filter PropertyFilter) ([]*Property, error)
}

// LeaseRepository defines data access for leases.
type LeaseRepository interface {
	Create(ctx context.Context, lease *Lease) error
	GetByID(ctx context.Context, id int64) (*Lease, error)
	Update(ctx context.Context, lease *Lease) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*Lease, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]*Lease, error)
	// ListUnpaid returns leases with no payment dated inside
	// [start, end] inclusive, regardless of the lease's own dates.
	ListUnpaid(ctx context.Context, start, end string) ([]*UnpaidLeaseRow, error)
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id int64) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*Payment, error)
	// ListByTenant returns payments whose lease belongs to the tenant,
	// via the payments -> leases join.
	ListByTenant(ctx context.Context, tenantID int64) ([]*Payment, error)
	// ListInWindow returns payments dated inside [start, end]
	// inclusive, joined with lease context, ordered by date then id.
	ListInWindow(ctx context.Context, start, end string) ([]*PaymentReportRow, error)
}
