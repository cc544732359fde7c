package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/rentledger/internal/domain"
	"github.com/yourorg/rentledger/internal/events"
	"github.com/yourorg/rentledger/internal/observability/metrics"
	"github.com/yourorg/rentledger/internal/security/middleware"
	"github.com/yourorg/rentledger/internal/service"
)

// LeaseHandler handles the /api/leases endpoints.
type LeaseHandler struct {
	rentals *service.RentalService
	hub     *events.Hub
	logger  *slog.Logger
}

// NewLeaseHandler creates a new lease handler.
func NewLeaseHandler(rentals *service.RentalService, hub *events.Hub, logger *slog.Logger) *LeaseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaseHandler{rentals: rentals, hub: hub, logger: logger}
}

// LeaseRequest carries the mutable lease fields. Dates are strict
// YYYY-MM-DD strings.
type LeaseRequest struct {
	PropertyID int64  `json:"property_id"`
	TenantID   int64  `json:"tenant_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// List handles GET /api/leases
func (h *LeaseHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActorFromContext(r.Context())
	leases, err := h.rentals.ListLeases(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if leases == nil {
		leases = []*domain.Lease{}
	}
	writeJSON(w, http.StatusOK, leases)
}

// Get handles GET /api/leases/{id}
func (h *LeaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	lease, err := h.rentals.GetLease(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lease)
}

// Create handles POST /api/leases
func (h *LeaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req LeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	lease := &domain.Lease{
		PropertyID: req.PropertyID,
		TenantID:   req.TenantID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	if err := h.rentals.CreateLease(r.Context(), lease); err != nil {
		metrics.ObserveMutation("lease", "create", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("lease", "create", "success")
	h.notify(r, "create", lease.ID)
	writeJSON(w, http.StatusCreated, lease)
}

// Update handles PUT /api/leases/{id}
func (h *LeaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req LeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	lease := &domain.Lease{
		ID:         id,
		PropertyID: req.PropertyID,
		TenantID:   req.TenantID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	if err := h.rentals.UpdateLease(r.Context(), lease); err != nil {
		metrics.ObserveMutation("lease", "update", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("lease", "update", "success")
	h.notify(r, "update", id)
	writeJSON(w, http.StatusOK, lease)
}

// Delete handles DELETE /api/leases/{id}
func (h *LeaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.rentals.DeleteLease(r.Context(), id); err != nil {
		metrics.ObserveMutation("lease", "delete", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("lease", "delete", "success")
	h.notify(r, "delete", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *LeaseHandler) notify(r *http.Request, action string, id int64) {
	actor, _ := middleware.GetActorFromContext(r.Context())
	h.hub.Publish(events.Event{Entity: "lease", Action: action, EntityID: id, Actor: actor.Username})
}
