package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/rentledger/internal/domain"
	"github.com/yourorg/rentledger/internal/featureflags"
	"github.com/yourorg/rentledger/internal/observability/metrics"
	"github.com/yourorg/rentledger/internal/security"
	"github.com/yourorg/rentledger/internal/validation"
)

// ReportService builds the monthly reporting views. Reports run with
// full visibility once the actor clears the role gate, so the same
// month renders identically for every permitted caller and can be
// cached by month alone.
type ReportService struct {
	leases   domain.LeaseRepository
	payments domain.PaymentRepository
	cache    ReportCache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewReportService creates a new report service. cache may be nil.
func NewReportService(
	leases domain.LeaseRepository,
	payments domain.PaymentRepository,
	cache ReportCache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ReportService{
		leases:   leases,
		payments: payments,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// MonthlyPaymentsReport lists every payment dated in one month.
type MonthlyPaymentsReport struct {
	Month       string                     `json:"month"`
	Start       string                     `json:"start"`
	End         string                     `json:"end"`
	Payments    []*domain.PaymentReportRow `json:"payments"`
	TotalAmount float64                    `json:"total_amount"`
	Count       int                        `json:"count"`
}

// UnpaidLeasesReport lists every lease with no payment in one month.
type UnpaidLeasesReport struct {
	Month  string                  `json:"month"`
	Start  string                  `json:"start"`
	End    string                  `json:"end"`
	Leases []*domain.UnpaidLeaseRow `json:"leases"`
	Count  int                     `json:"count"`
}

// MonthlyPayments renders the payment report for a YYYY-MM month.
func (s *ReportService) MonthlyPayments(ctx context.Context, actor domain.Actor, month string) (*MonthlyPaymentsReport, error) {
	if !security.CanViewReports(actor.Role) {
		return nil, domain.ErrForbidden
	}
	start, end, err := validation.MonthWindow(month)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	key := fmt.Sprintf("report:monthly:%s", month)

	report := &MonthlyPaymentsReport{}
	if s.cacheGet(ctx, key, report) {
		metrics.ObserveReport("monthly_payments", "cache", time.Since(began))
		return report, nil
	}

	rows, err := s.payments.ListInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}
	report = &MonthlyPaymentsReport{
		Month:    month,
		Start:    start,
		End:      end,
		Payments: rows,
		Count:    len(rows),
	}
	for _, row := range rows {
		report.TotalAmount += row.Amount
	}

	s.cacheSet(ctx, key, report)
	metrics.ObserveReport("monthly_payments", "store", time.Since(began))
	return report, nil
}

// UnpaidLeases renders the arrears report for a YYYY-MM month. A
// lease counts as unpaid when no payment falls inside the month,
// whether or not the lease itself was active then.
func (s *ReportService) UnpaidLeases(ctx context.Context, actor domain.Actor, month string) (*UnpaidLeasesReport, error) {
	if !security.CanViewReports(actor.Role) {
		return nil, domain.ErrForbidden
	}
	start, end, err := validation.MonthWindow(month)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	key := fmt.Sprintf("report:unpaid:%s", month)

	report := &UnpaidLeasesReport{}
	if s.cacheGet(ctx, key, report) {
		metrics.ObserveReport("unpaid_leases", "cache", time.Since(began))
		return report, nil
	}

	rows, err := s.leases.ListUnpaid(ctx, start, end)
	if err != nil {
		return nil, err
	}
	report = &UnpaidLeasesReport{
		Month:  month,
		Start:  start,
		End:    end,
		Leases: rows,
		Count:  len(rows),
	}

	s.cacheSet(ctx, key, report)
	metrics.ObserveReport("unpaid_leases", "store", time.Since(began))
	return report, nil
}

func (s *ReportService) cachingEnabled() bool {
	return s.cache != nil && featureflags.Enabled(featureflags.ReportCache)
}

func (s *ReportService) cacheGet(ctx context.Context, key string, out any) bool {
	if !s.cachingEnabled() {
		return false
	}
	payload, ok := s.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		s.logger.Warn("discarding undecodable cached report", slog.String("key", key))
		return false
	}
	return true
}

func (s *ReportService) cacheSet(ctx context.Context, key string, report any) {
	if !s.cachingEnabled() {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, payload, s.cacheTTL)
}
