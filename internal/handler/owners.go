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

// OwnerHandler handles the /api/owners endpoints.
type OwnerHandler struct {
	rentals *service.RentalService
	hub     *events.Hub
	logger  *slog.Logger
}

// NewOwnerHandler creates a new owner handler.
func NewOwnerHandler(rentals *service.RentalService, hub *events.Hub, logger *slog.Logger) *OwnerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OwnerHandler{rentals: rentals, hub: hub, logger: logger}
}

// OwnerRequest carries the mutable owner fields.
type OwnerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// List handles GET /api/owners
func (h *OwnerHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActorFromContext(r.Context())
	owners, err := h.rentals.ListOwners(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if owners == nil {
		owners = []*domain.Owner{}
	}
	writeJSON(w, http.StatusOK, owners)
}

// Get handles GET /api/owners/{id}
func (h *OwnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	owner, err := h.rentals.GetOwner(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, owner)
}

// Create handles POST /api/owners
func (h *OwnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	owner := &domain.Owner{Name: req.Name, Phone: req.Phone}
	if err := h.rentals.CreateOwner(r.Context(), owner); err != nil {
		metrics.ObserveMutation("owner", "create", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("owner", "create", "success")
	h.notify(r, "create", owner.ID)
	writeJSON(w, http.StatusCreated, owner)
}

// Update handles PUT /api/owners/{id}
func (h *OwnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req OwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	owner := &domain.Owner{ID: id, Name: req.Name, Phone: req.Phone}
	if err := h.rentals.UpdateOwner(r.Context(), owner); err != nil {
		metrics.ObserveMutation("owner", "update", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("owner", "update", "success")
	h.notify(r, "update", id)
	writeJSON(w, http.StatusOK, owner)
}

// Delete handles DELETE /api/owners/{id}
func (h *OwnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.rentals.DeleteOwner(r.Context(), id); err != nil {
		metrics.ObserveMutation("owner", "delete", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("owner", "delete", "success")
	h.notify(r, "delete", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *OwnerHandler) notify(r *http.Request, action string, id int64) {
	actor, _ := middleware.GetActorFromContext(r.Context())
	h.hub.Publish(events.Event{Entity: "owner", Action: action, EntityID: id, Actor: actor.Username})
}
