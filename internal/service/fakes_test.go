package service

import (
	"context"
	"time"

	"github.com/yourorg/rentledger/internal/domain"
)

// In-memory repositories for service tests. They mirror the store's
// observable behavior: assigned ids, ErrNotFound on misses, empty
// result sets for unmatched filters.

type fakeUserRepo struct {
	nextID int64
	users  map[string]*domain.UserAccount
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.UserAccount{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.UserAccount) error {
	r.nextID++
	user.ID = r.nextID
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.UserAccount, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.UserAccount, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.UserAccount) error {
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	for username, user := range r.users {
		if user.ID == id {
			delete(r.users, username)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeOwnerRepo struct {
	nextID int64
	owners map[int64]*domain.Owner
}

func newFakeOwnerRepo() *fakeOwnerRepo { return &fakeOwnerRepo{owners: map[int64]*domain.Owner{}} }

func (r *fakeOwnerRepo) Create(_ context.Context, owner *domain.Owner) error {
	r.nextID++
	owner.ID = r.nextID
	r.owners[owner.ID] = owner
	return nil
}

func (r *fakeOwnerRepo) GetByID(_ context.Context, id int64) (*domain.Owner, error) {
	owner, ok := r.owners[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return owner, nil
}

func (r *fakeOwnerRepo) Update(_ context.Context, owner *domain.Owner) error {
	if _, ok := r.owners[owner.ID]; !ok {
		return domain.ErrNotFound
	}
	r.owners[owner.ID] = owner
	return nil
}

func (r *fakeOwnerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.owners[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.owners, id)
	return nil
}

func (r *fakeOwnerRepo) List(_ context.Context) ([]*domain.Owner, error) {
	var out []*domain.Owner
	for id := int64(1); id <= r.nextID; id++ {
		if owner, ok := r.owners[id]; ok {
			out = append(out, owner)
		}
	}
	return out, nil
}

type fakeTenantRepo struct {
	nextID  int64
	tenants map[int64]*domain.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: map[int64]*domain.Tenant{}}
}

func (r *fakeTenantRepo) Create(_ context.Context, tenant *domain.Tenant) error {
	r.nextID++
	tenant.ID = r.nextID
	r.tenants[tenant.ID] = tenant
	return nil
}

func (r *fakeTenantRepo) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	tenant, ok := r.tenants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return tenant, nil
}

func (r *fakeTenantRepo) Update(_ context.Context, tenant *domain.Tenant) error {
	if _, ok := r.tenants[tenant.ID]; !ok {
		return domain.ErrNotFound
	}
	r.tenants[tenant.ID] = tenant
	return nil
}

func (r *fakeTenantRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.tenants[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tenants, id)
	return nil
}

func (r *fakeTenantRepo) List(_ context.Context) ([]*domain.Tenant, error) {
	var out []*domain.Tenant
	for id := int64(1); id <= r.nextID; id++ {
		if tenant, ok := r.tenants[id]; ok {
			out = append(out, tenant)
		}
	}
	return out, nil
}

type fakePropertyRepo struct {
	nextID     int64
	properties map[int64]*domain.Property
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{properties: map[int64]*domain.Property{}}
}

func (r *fakePropertyRepo) Create(_ context.Context, property *domain.Property) error {
	r.nextID++
	property.ID = r.nextID
	r.properties[property.ID] = property
	return nil
}

func (r *fakePropertyRepo) GetByID(_ context.Context, id int64) (*domain.Property, error) {
	property, ok := r.properties[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return property, nil
}

func (r *fakePropertyRepo) Update(_ context.Context, property *domain.Property) error {
	if _, ok := r.properties[property.ID]; !ok {
		return domain.ErrNotFound
	}
	r.properties[property.ID] = property
	return nil
}

func (r *fakePropertyRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.properties[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.properties, id)
	return nil
}

func (r *fakePropertyRepo) List(_ context.Context) ([]*domain.Property, error) {
	var out []*domain.Property
	for id := int64(1); id <= r.nextID; id++ {
		if property, ok := r.properties[id]; ok {
			out = append(out, property)
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Property, error) {
	all, _ := r.List(ctx)
	out := []*domain.Property{}
	for _, property := range all {
		if property.OwnerID != nil && *property.OwnerID == ownerID {
			out = append(out, property)
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) Search(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error) {
	all, _ := r.List(ctx)
	out := []*domain.Property{}
	for _, property := range all {
		if filter.OwnerID != nil && (property.OwnerID == nil || *property.OwnerID != *filter.OwnerID) {
			continue
		}
		if filter.MinRent != nil && property.Rent < *filter.MinRent {
			continue
		}
		if filter.MaxRent != nil && property.Rent > *filter.MaxRent {
			continue
		}
		out = append(out, property)
	}
	return out, nil
}

type fakeLeaseRepo struct {
	nextID int64
	leases map[int64]*domain.Lease
	// paidDates maps lease id to payment dates, for the unpaid query.
	paidDates map[int64][]string
}

func newFakeLeaseRepo() *fakeLeaseRepo {
	return &fakeLeaseRepo{leases: map[int64]*domain.Lease{}, paidDates: map[int64][]string{}}
}

func (r *fakeLeaseRepo) Create(_ context.Context, lease *domain.Lease) error {
	r.nextID++
	lease.ID = r.nextID
	r.leases[lease.ID] = lease
	return nil
}

func (r *fakeLeaseRepo) GetByID(_ context.Context, id int64) (*domain.Lease, error) {
	lease, ok := r.leases[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return lease, nil
}

func (r *fakeLeaseRepo) Update(_ context.Context, lease *domain.Lease) error {
	if _, ok := r.leases[lease.ID]; !ok {
		return domain.ErrNotFound
	}
	r.leases[lease.ID] = lease
	return nil
}

func (r *fakeLeaseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.leases[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.leases, id)
	return nil
}

func (r *fakeLeaseRepo) List(_ context.Context) ([]*domain.Lease, error) {
	var out []*domain.Lease
	for id := int64(1); id <= r.nextID; id++ {
		if lease, ok := r.leases[id]; ok {
			out = append(out, lease)
		}
	}
	return out, nil
}

func (r *fakeLeaseRepo) ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Lease, error) {
	all, _ := r.List(ctx)
	out := []*domain.Lease{}
	for _, lease := range all {
		if lease.TenantID == tenantID {
			out = append(out, lease)
		}
	}
	return out, nil
}

func (r *fakeLeaseRepo) ListUnpaid(ctx context.Context, start, end string) ([]*domain.UnpaidLeaseRow, error) {
	all, _ := r.List(ctx)
	out := []*domain.UnpaidLeaseRow{}
	for _, lease := range all {
		paid := false
		for _, date := range r.paidDates[lease.ID] {
			if date >= start && date <= end {
				paid = true
				break
			}
		}
		if !paid {
			out = append(out, &domain.UnpaidLeaseRow{
				LeaseID:    lease.ID,
				PropertyID: lease.PropertyID,
				TenantID:   lease.TenantID,
				StartDate:  lease.StartDate,
				EndDate:    lease.EndDate,
				Notes:      "no payment recorded this month",
			})
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	nextID   int64
	payments map[int64]*domain.Payment
	leases   *fakeLeaseRepo
}

func newFakePaymentRepo(leases *fakeLeaseRepo) *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[int64]*domain.Payment{}, leases: leases}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	r.nextID++
	payment.ID = r.nextID
	r.payments[payment.ID] = payment
	if r.leases != nil {
		r.leases.paidDates[payment.LeaseID] = append(r.leases.paidDates[payment.LeaseID], payment.Date)
	}
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id int64) (*domain.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return payment, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, payment *domain.Payment) error {
	if _, ok := r.payments[payment.ID]; !ok {
		return domain.ErrNotFound
	}
	r.payments[payment.ID] = payment
	return nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.payments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *fakePaymentRepo) List(_ context.Context) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for id := int64(1); id <= r.nextID; id++ {
		if payment, ok := r.payments[id]; ok {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) ListByTenant(ctx context.Context, tenantID int64) ([]*domain.Payment, error) {
	all, _ := r.List(ctx)
	out := []*domain.Payment{}
	for _, payment := range all {
		lease, ok := r.leases.leases[payment.LeaseID]
		if ok && lease.TenantID == tenantID {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) ListInWindow(ctx context.Context, start, end string) ([]*domain.PaymentReportRow, error) {
	all, _ := r.List(ctx)
	out := []*domain.PaymentReportRow{}
	for _, payment := range all {
		if payment.Date < start || payment.Date > end {
			continue
		}
		row := &domain.PaymentReportRow{
			PaymentID: payment.ID,
			LeaseID:   payment.LeaseID,
			Amount:    payment.Amount,
			Date:      payment.Date,
		}
		if lease, ok := r.leases.leases[payment.LeaseID]; ok {
			row.PropertyID = lease.PropertyID
			row.TenantID = lease.TenantID
		}
		out = append(out, row)
	}
	return out, nil
}

// recordingCache captures report cache traffic.
type recordingCache struct {
	entries map[string][]byte
	gets    int
	hits    int
	sets    int
}

func newRecordingCache() *recordingCache { return &recordingCache{entries: map[string][]byte{}} }

func (c *recordingCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.gets++
	payload, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return payload, ok
}

func (c *recordingCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.sets++
	c.entries[key] = value
}
