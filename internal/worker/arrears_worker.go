package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/rentledger/internal/domain"
	"github.com/yourorg/rentledger/internal/observability/metrics"
)

// ArrearsWorker periodically recomputes the current month's unpaid
// lease count and publishes it as a gauge, so dashboards track
// arrears without anyone pulling the report.
type ArrearsWorker struct {
	leases   domain.LeaseRepository
	logger   *slog.Logger
	interval time.Duration
}

// NewArrearsWorker creates a new arrears worker.
func NewArrearsWorker(leases domain.LeaseRepository, logger *slog.Logger, interval time.Duration) *ArrearsWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArrearsWorker{leases: leases, logger: logger, interval: interval}
}

// Start runs the worker loop until the context is cancelled. One
// sweep runs immediately so the gauge is never stale at startup.
func (w *ArrearsWorker) Start(ctx context.Context) {
	w.logger.Info("arrears worker started", slog.Duration("interval", w.interval))

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("arrears worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep counts this month's unpaid leases.
func (w *ArrearsWorker) sweep(ctx context.Context) {
	now := time.Now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.Format("2006-01-02")
	end := last.Format("2006-01-02")

	rows, err := w.leases.ListUnpaid(ctx, start, end)
	if err != nil {
		w.logger.Error("arrears sweep failed", slog.String("error", err.Error()))
		return
	}

	metrics.SetUnpaidLeases(len(rows))
	w.logger.Debug("arrears sweep complete",
		slog.String("month", first.Format("2006-01")),
		slog.Int("unpaid_leases", len(rows)),
	)
}
