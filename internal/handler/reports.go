package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/rentledger/internal/domain"
	"github.com/yourorg/rentledger/internal/observability/metrics"
	"github.com/yourorg/rentledger/internal/security/audit"
	"github.com/yourorg/rentledger/internal/security/middleware"
	"github.com/yourorg/rentledger/internal/service"
)

// ReportHandler handles the /api/reports endpoints. The reporting
// surface is admin/owner only; refusals land in the audit trail.
type ReportHandler struct {
	reports  *service.ReportService
	auditLog *audit.Logger
	logger   *slog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reports *service.ReportService, auditLog *audit.Logger, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{reports: reports, auditLog: auditLog, logger: logger}
}

// MonthlyPayments handles GET /api/reports/monthly?month=YYYY-MM
func (h *ReportHandler) MonthlyPayments(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActorFromContext(r.Context())
	month := r.URL.Query().Get("month")

	report, err := h.reports.MonthlyPayments(r.Context(), actor, month)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			metrics.ObserveAccessDenied("reports")
			h.auditLog.LogDenied(r.Context(), actor, "reports/monthly", "role not permitted")
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// UnpaidLeases handles GET /api/reports/unpaid?month=YYYY-MM
func (h *ReportHandler) UnpaidLeases(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActorFromContext(r.Context())
	month := r.URL.Query().Get("month")

	report, err := h.reports.UnpaidLeases(r.Context(), actor, month)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			metrics.ObserveAccessDenied("reports")
			h.auditLog.LogDenied(r.Context(), actor, "reports/unpaid", "role not permitted")
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
