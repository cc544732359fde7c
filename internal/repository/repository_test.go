package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/yourorg/rentledger/internal/domain"
	"github.com/yourorg/rentledger/pkg/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &database.Config{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "rentledger_test.db"),
	}
	db, err := database.Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seed creates an owner, a property for them, a tenant and a lease
// linking the two, returning the lease.
func seed(t *testing.T, db *sql.DB) *domain.Lease {
	t.Helper()
	ctx := context.Background()

	owner := &domain.Owner{Name: "Olive Grant", Phone: "+1 555-0101"}
	if err := NewOwnerRepository(db, nil).Create(ctx, owner); err != nil {
		t.Fatalf("failed to seed owner: %v", err)
	}
	property := &domain.Property{Name: "Elm Cottage", Location: "Springfield", Rent: 1200, OwnerID: &owner.ID}
	if err := NewPropertyRepository(db, nil).Create(ctx, property); err != nil {
		t.Fatalf("failed to seed property: %v", err)
	}
	tenant := &domain.Tenant{Name: "Theo Marsh", Phone: "+1 555-0102"}
	if err := NewTenantRepository(db, nil).Create(ctx, tenant); err != nil {
		t.Fatalf("failed to seed tenant: %v", err)
	}
	lease := &domain.Lease{PropertyID: property.ID, TenantID: tenant.ID, StartDate: "2024-01-01", EndDate: "2024-12-31"}
	if err := NewLeaseRepository(db, nil).Create(ctx, lease); err != nil {
		t.Fatalf("failed to seed lease: %v", err)
	}
	return lease
}

func TestOwnerCRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewOwnerRepository(db, nil)

	owner := &domain.Owner{Name: "Olive Grant", Phone: "+1 555-0101"}
	if err := repo.Create(ctx, owner); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if owner.ID == 0 {
		t.Fatal("expected store-assigned id")
	}

	got, err := repo.GetByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "Olive Grant" || got.Phone != "+1 555-0101" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	owner.Phone = "+44 20 7946 0958"
	if err := repo.Update(ctx, owner); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err = repo.GetByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("get after update failed: %v", err)
	}
	if got.Phone != "+44 20 7946 0958" {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := repo.Delete(ctx, owner.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, owner.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, owner.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestUpdateMissingRowReturnsNotFound(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := NewTenantRepository(db, nil).Update(ctx, &domain.Tenant{ID: 999, Name: "Nobody", Phone: "+1 555-0000"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOwnerDeleteNullifiesProperties(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	lease := seed(t, db)

	property, err := NewPropertyRepository(db, nil).GetByID(ctx, lease.PropertyID)
	if err != nil {
		t.Fatalf("get property failed: %v", err)
	}
	if property.OwnerID == nil {
		t.Fatal("seeded property should be linked")
	}

	if err := NewOwnerRepository(db, nil).Delete(ctx, *property.OwnerID); err != nil {
		t.Fatalf("delete owner failed: %v", err)
	}

	property, err = NewPropertyRepository(db, nil).GetByID(ctx, lease.PropertyID)
	if err != nil {
		t.Fatalf("get property after owner delete failed: %v", err)
	}
	if property.OwnerID != nil {
		t.Errorf("expected owner link nullified, got %v", *property.OwnerID)
	}
}

func TestPropertyDeleteCascadesToLeasesAndPayments(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	lease := seed(t, db)

	payment := &domain.Payment{LeaseID: lease.ID, Amount: 1200, Date: "2024-03-05"}
	if err := NewPaymentRepository(db, nil).Create(ctx, payment); err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	if err := NewPropertyRepository(db, nil).Delete(ctx, lease.PropertyID); err != nil {
		t.Fatalf("delete property failed: %v", err)
	}

	if _, err := NewLeaseRepository(db, nil).GetByID(ctx, lease.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected lease removed by cascade, got %v", err)
	}
	if _, err := NewPaymentRepository(db, nil).GetByID(ctx, payment.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected payment removed by cascade, got %v", err)
	}
}

func TestLeaseCreateRejectsDanglingRefs(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	lease := &domain.Lease{PropertyID: 42, TenantID: 42, StartDate: "2024-01-01", EndDate: "2024-12-31"}
	if err := NewLeaseRepository(db, nil).Create(ctx, lease); err == nil {
		t.Error("expected foreign key violation for dangling refs")
	}
}

func TestPropertyListByOwnerAndDanglingRef(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	lease := seed(t, db)
	repo := NewPropertyRepository(db, nil)

	property, err := repo.GetByID(ctx, lease.PropertyID)
	if err != nil {
		t.Fatalf("get property failed: %v", err)
	}

	properties, err := repo.ListByOwner(ctx, *property.OwnerID)
	if err != nil {
		t.Fatalf("list by owner failed: %v", err)
	}
	if len(properties) != 1 || properties[0].ID != property.ID {
		t.Errorf("expected the one linked property, got %d rows", len(properties))
	}

	// A ref id that matches no owner yields an empty set, not an error.
	properties, err = repo.ListByOwner(ctx, 9999)
	if err != nil {
		t.Fatalf("list by dangling owner failed: %v", err)
	}
	if len(properties) != 0 {
		t.Errorf("expected empty set for dangling owner ref, got %d rows", len(properties))
	}
}

func TestPropertySearch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewPropertyRepository(db, nil)

	owner := &domain.Owner{Name: "Olive Grant", Phone: "+1 555-0101"}
	if err := NewOwnerRepository(db, nil).Create(ctx, owner); err != nil {
		t.Fatalf("create owner failed: %v", err)
	}
	for _, p := range []*domain.Property{
		{Name: "Elm Cottage", Location: "Springfield", Rent: 1200, OwnerID: &owner.ID},
		{Name: "Oak Flat", Location: "Shelbyville", Rent: 800},
		{Name: "Elmwood Loft", Location: "Springfield", Rent: 2100},
	} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create property failed: %v", err)
		}
	}

	min, max := 700.0, 1500.0
	cases := []struct {
		name   string
		filter domain.PropertyFilter
		want   int
	}{
		{"empty filter returns all", domain.PropertyFilter{}, 3},
		{"name substring case-insensitive", domain.PropertyFilter{Name: "elm"}, 2},
		{"location exact-ish", domain.PropertyFilter{Location: "spring"}, 2},
		{"rent range inclusive", domain.PropertyFilter{MinRent: &min, MaxRent: &max}, 2},
		{"owner filter", domain.PropertyFilter{OwnerID: &owner.ID}, 1},
		{"combined", domain.PropertyFilter{Name: "elm", MinRent: &min, MaxRent: &max}, 1},
		{"no match", domain.PropertyFilter{Name: "villa"}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := repo.Search(ctx, c.filter)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if len(got) != c.want {
				t.Errorf("got %d rows, want %d", len(got), c.want)
			}
		})
	}
}

func TestLeaseListByTenant(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	lease := seed(t, db)
	repo := NewLeaseRepository(db, nil)

	leases, err := repo.ListByTenant(ctx, lease.TenantID)
	if err != nil {
		t.Fatalf("list by tenant failed: %v", err)
	}
	if len(leases) != 1 || leases[0].ID != lease.ID {
		t.Errorf("expected the one seeded lease, got %d rows", len(leases))
	}

	leases, err = repo.ListByTenant(ctx, 9999)
	if err != nil {
		t.Fatalf("list by dangling tenant failed: %v", err)
	}
	if len(leases) != 0 {
		t.Errorf("expected empty set for dangling tenant ref, got %d rows", len(leases))
	}
}

func TestPaymentReportQueries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	lease := seed(t, db)
	payments := NewPaymentRepository(db, nil)

	// Second lease with no March payment.
	tenant := &domain.Tenant{Name: "June Park", Phone: "+1 555-0103"}
	if err := NewTenantRepository(db, nil).Create(ctx, tenant); err != nil {
		t.Fatalf("create tenant failed: %v", err)
	}
	idle := &domain.Lease{PropertyID: lease.PropertyID, TenantID: tenant.ID, StartDate: "2024-02-01", EndDate: "2025-01-31"}
	if err := NewLeaseRepository(db, nil).Create(ctx, idle); err != nil {
		t.Fatalf("create lease failed: %v", err)
	}

	for _, p := range []*domain.Payment{
		{LeaseID: lease.ID, Amount: 1200, Date: "2024-03-15"},
		{LeaseID: lease.ID, Amount: 1200, Date: "2024-03-01"},
		{LeaseID: lease.ID, Amount: 1200, Date: "2024-02-28"},
		{LeaseID: idle.ID, Amount: 900, Date: "2024-04-01"},
	} {
		if err := payments.Create(ctx, p); err != nil {
			t.Fatalf("create payment failed: %v", err)
		}
	}

	rows, err := payments.ListInWindow(ctx, "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("list in window failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 payments in window, got %d", len(rows))
	}
	if rows[0].Date != "2024-03-01" || rows[1].Date != "2024-03-15" {
		t.Errorf("window rows out of order: %s, %s", rows[0].Date, rows[1].Date)
	}
	if rows[0].PropertyID != lease.PropertyID || rows[0].TenantID != lease.TenantID {
		t.Errorf("lease join missing: %+v", rows[0])
	}

	unpaid, err := NewLeaseRepository(db, nil).ListUnpaid(ctx, "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("list unpaid failed: %v", err)
	}
	if len(unpaid) != 1 || unpaid[0].LeaseID != idle.ID {
		t.Fatalf("expected the idle lease unpaid, got %+v", unpaid)
	}
	if unpaid[0].Notes != "no payment recorded this month" {
		t.Errorf("unexpected notes: %q", unpaid[0].Notes)
	}
}

func TestPaymentListByTenant(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	lease := seed(t, db)
	repo := NewPaymentRepository(db, nil)

	payment := &domain.Payment{LeaseID: lease.ID, Amount: 1200, Date: "2024-03-05"}
	if err := repo.Create(ctx, payment); err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	got, err := repo.ListByTenant(ctx, lease.TenantID)
	if err != nil {
		t.Fatalf("list by tenant failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != payment.ID {
		t.Errorf("expected the one payment, got %d rows", len(got))
	}
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db, nil)

	refID := int64(4)
	user := &domain.UserAccount{Username: "olive", PasswordHash: "x", Role: domain.RoleOwner, RefID: &refID}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repo.GetByUsername(ctx, "olive")
	if err != nil {
		t.Fatalf("get by username failed: %v", err)
	}
	if got.Role != domain.RoleOwner || got.RefID == nil || *got.RefID != 4 {
		t.Errorf("round trip mismatch: %+v", got)
	}

	dup := &domain.UserAccount{Username: "olive", PasswordHash: "y", Role: domain.RoleTenant}
	if err := repo.Create(ctx, dup); err == nil {
		t.Error("expected unique violation for duplicate username")
	}

	if _, err := repo.GetByUsername(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
