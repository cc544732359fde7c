package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yourorg/rentledger/internal/domain"
	"github.com/yourorg/rentledger/internal/events"
	"github.com/yourorg/rentledger/internal/observability/metrics"
	"github.com/yourorg/rentledger/internal/security/middleware"
	"github.com/yourorg/rentledger/internal/service"
)

// PropertyHandler handles the /api/properties endpoints.
type PropertyHandler struct {
	rentals *service.RentalService
	hub     *events.Hub
	logger  *slog.Logger
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(rentals *service.RentalService, hub *events.Hub, logger *slog.Logger) *PropertyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PropertyHandler{rentals: rentals, hub: hub, logger: logger}
}

// PropertyRequest carries the mutable property fields.
type PropertyRequest struct {
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Rent     float64 `json:"rent"`
	OwnerID  *int64  `json:"owner_id,omitempty"`
}

// List handles GET /api/properties
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActorFromContext(r.Context())
	properties, err := h.rentals.ListProperties(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if properties == nil {
		properties = []*domain.Property{}
	}
	writeJSON(w, http.StatusOK, properties)
}

// Search handles GET /api/properties/search. Filters arrive as query
// parameters: name, location, min_rent, max_rent, owner_id. Absent
// parameters do not constrain the result.
func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.PropertyFilter{
		Name:     query.Get("name"),
		Location: query.Get("location"),
	}

	if raw := query.Get("min_rent"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid min_rent")
			return
		}
		filter.MinRent = &value
	}
	if raw := query.Get("max_rent"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid max_rent")
			return
		}
		filter.MaxRent = &value
	}
	if raw := query.Get("owner_id"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid owner_id")
			return
		}
		filter.OwnerID = &value
	}

	actor, _ := middleware.GetActorFromContext(r.Context())
	properties, err := h.rentals.SearchProperties(r.Context(), actor, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if properties == nil {
		properties = []*domain.Property{}
	}
	writeJSON(w, http.StatusOK, properties)
}

// Get handles GET /api/properties/{id}
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	property, err := h.rentals.GetProperty(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, property)
}

// Create handles POST /api/properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	property := &domain.Property{Name: req.Name, Location: req.Location, Rent: req.Rent, OwnerID: req.OwnerID}
	if err := h.rentals.CreateProperty(r.Context(), property); err != nil {
		metrics.ObserveMutation("property", "create", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("property", "create", "success")
	h.notify(r, "create", property.ID)
	writeJSON(w, http.StatusCreated, property)
}

// Update handles PUT /api/properties/{id}
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	property := &domain.Property{ID: id, Name: req.Name, Location: req.Location, Rent: req.Rent, OwnerID: req.OwnerID}
	if err := h.rentals.UpdateProperty(r.Context(), property); err != nil {
		metrics.ObserveMutation("property", "update", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("property", "update", "success")
	h.notify(r, "update", id)
	writeJSON(w, http.StatusOK, property)
}

// Delete handles DELETE /api/properties/{id}
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.rentals.DeleteProperty(r.Context(), id); err != nil {
		metrics.ObserveMutation("property", "delete", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("property", "delete", "success")
	h.notify(r, "delete", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *PropertyHandler) notify(r *http.Request, action string, id int64) {
	actor, _ := middleware.GetActorFromContext(r.Context())
	h.hub.Publish(events.Event{Entity: "property", Action: action, EntityID: id, Actor: actor.Username})
}
