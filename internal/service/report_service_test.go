package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yourorg/rentledger/internal/domain"
	"github.com/yourorg/rentledger/internal/validation"
)

func seedLedger(t *testing.T) (*fakeLeaseRepo, *fakePaymentRepo) {
	t.Helper()
	ctx := context.Background()
	leases := newFakeLeaseRepo()
	payments := newFakePaymentRepo(leases)

	for _, lease := range []*domain.Lease{
		{PropertyID: 1, TenantID: 1, StartDate: "2024-01-01", EndDate: "2024-12-31"},
		{PropertyID: 2, TenantID: 2, StartDate: "2024-02-01", EndDate: "2025-01-31"},
	} {
		if err := leases.Create(ctx, lease); err != nil {
			t.Fatalf("seed lease failed: %v", err)
		}
	}
	for _, payment := range []*domain.Payment{
		{LeaseID: 1, Amount: 1200, Date: "2024-03-05"},
		{LeaseID: 1, Amount: 50, Date: "2024-03-20"},
		{LeaseID: 2, Amount: 900, Date: "2024-04-01"},
	} {
		if err := payments.Create(ctx, payment); err != nil {
			t.Fatalf("seed payment failed: %v", err)
		}
	}
	return leases, payments
}

func TestMonthlyPayments(t *testing.T) {
	leases, payments := seedLedger(t)
	svc := NewReportService(leases, payments, nil, 0, nil)
	admin := domain.Actor{Role: domain.RoleAdmin}

	report, err := svc.MonthlyPayments(context.Background(), admin, "2024-03")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if report.Count != 2 || len(report.Payments) != 2 {
		t.Fatalf("expected 2 march payments, got %d", report.Count)
	}
	if report.TotalAmount != 1250 {
		t.Errorf("total = %v, want 1250", report.TotalAmount)
	}
	if report.Start != "2024-03-01" || report.End != "2024-03-31" {
		t.Errorf("window [%s, %s] wrong", report.Start, report.End)
	}
}

func TestUnpaidLeases(t *testing.T) {
	leases, payments := seedLedger(t)
	svc := NewReportService(leases, payments, nil, 0, nil)
	owner := domain.Actor{Role: domain.RoleOwner}

	report, err := svc.UnpaidLeases(context.Background(), owner, "2024-03")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if report.Count != 1 || report.Leases[0].LeaseID != 2 {
		t.Fatalf("expected lease 2 unpaid in march, got %+v", report.Leases)
	}
	if report.Leases[0].Notes != "no payment recorded this month" {
		t.Errorf("unexpected notes: %q", report.Leases[0].Notes)
	}

	// April: lease 2 paid, lease 1 not.
	report, err = svc.UnpaidLeases(context.Background(), owner, "2024-04")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if report.Count != 1 || report.Leases[0].LeaseID != 1 {
		t.Errorf("expected lease 1 unpaid in april, got %+v", report.Leases)
	}
}

func TestReportsDenyTenants(t *testing.T) {
	leases, payments := seedLedger(t)
	svc := NewReportService(leases, payments, nil, 0, nil)
	tenant := domain.Actor{Role: domain.RoleTenant}

	if _, err := svc.MonthlyPayments(context.Background(), tenant, "2024-03"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("monthly payments: got %v, want ErrForbidden", err)
	}
	if _, err := svc.UnpaidLeases(context.Background(), tenant, "2024-03"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("unpaid leases: got %v, want ErrForbidden", err)
	}
}

func TestReportsRejectBadMonth(t *testing.T) {
	leases, payments := seedLedger(t)
	svc := NewReportService(leases, payments, nil, 0, nil)
	admin := domain.Actor{Role: domain.RoleAdmin}

	for _, month := range []string{"2024-13", "2024-3", "march", "2024-03-05", ""} {
		_, err := svc.MonthlyPayments(context.Background(), admin, month)
		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Errorf("month %q: expected validation error, got %v", month, err)
		}
	}
}

func TestReportCaching(t *testing.T) {
	t.Setenv("FLAG_REPORT_CACHE", "true")

	leases, payments := seedLedger(t)
	cache := newRecordingCache()
	svc := NewReportService(leases, payments, cache, 0, nil)
	admin := domain.Actor{Role: domain.RoleAdmin}

	first, err := svc.MonthlyPayments(context.Background(), admin, "2024-03")
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}

	second, err := svc.MonthlyPayments(context.Background(), admin, "2024-03")
	if err != nil {
		t.Fatalf("cached render failed: %v", err)
	}
	if cache.hits != 1 {
		t.Errorf("expected a cache hit, got %d", cache.hits)
	}
	if second.TotalAmount != first.TotalAmount || second.Count != first.Count {
		t.Errorf("cached report differs: %+v vs %+v", second, first)
	}
}

func TestReportCachingDisabledByDefault(t *testing.T) {
	t.Setenv("FLAG_REPORT_CACHE", "")

	leases, payments := seedLedger(t)
	cache := newRecordingCache()
	svc := NewReportService(leases, payments, cache, 0, nil)
	admin := domain.Actor{Role: domain.RoleAdmin}

	if _, err := svc.MonthlyPayments(context.Background(), admin, "2024-03"); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if cache.gets != 0 || cache.sets != 0 {
		t.Error("cache touched while the flag is off")
	}
}
