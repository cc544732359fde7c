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

// TenantHandler handles the /api/tenants endpoints.
type TenantHandler struct {
	rentals *service.RentalService
	hub     *events.Hub
	logger  *slog.Logger
}

// NewTenantHandler creates a new tenant handler.
func NewTenantHandler(rentals *service.RentalService, hub *events.Hub, logger *slog.Logger) *TenantHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantHandler{rentals: rentals, hub: hub, logger: logger}
}

// TenantRequest carries the mutable tenant fields.
type TenantRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// List handles GET /api/tenants
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActorFromContext(r.Context())
	tenants, err := h.rentals.ListTenants(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if tenants == nil {
		tenants = []*domain.Tenant{}
	}
	writeJSON(w, http.StatusOK, tenants)
}

// Get handles GET /api/tenants/{id}
func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	tenant, err := h.rentals.GetTenant(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

// Create handles POST /api/tenants
func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	tenant := &domain.Tenant{Name: req.Name, Phone: req.Phone}
	if err := h.rentals.CreateTenant(r.Context(), tenant); err != nil {
		metrics.ObserveMutation("tenant", "create", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("tenant", "create", "success")
	h.notify(r, "create", tenant.ID)
	writeJSON(w, http.StatusCreated, tenant)
}

// Update handles PUT /api/tenants/{id}
func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req TenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	tenant := &domain.Tenant{ID: id, Name: req.Name, Phone: req.Phone}
	if err := h.rentals.UpdateTenant(r.Context(), tenant); err != nil {
		metrics.ObserveMutation("tenant", "update", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("tenant", "update", "success")
	h.notify(r, "update", id)
	writeJSON(w, http.StatusOK, tenant)
}

// Delete handles DELETE /api/tenants/{id}. Leases and payments tied
// to the tenant go with them.
func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.rentals.DeleteTenant(r.Context(), id); err != nil {
		metrics.ObserveMutation("tenant", "delete", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("tenant", "delete", "success")
	h.notify(r, "delete", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *TenantHandler) notify(r *http.Request, action string, id int64) {
	actor, _ := middleware.GetActorFromContext(r.Context())
	h.hub.Publish(events.Event{Entity: "tenant", Action: action, EntityID: id, Actor: actor.Username})
}
