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

// PaymentHandler handles the /api/payments endpoints.
type PaymentHandler struct {
	rentals *service.RentalService
	hub     *events.Hub
	logger  *slog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(rentals *service.RentalService, hub *events.Hub, logger *slog.Logger) *PaymentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentHandler{rentals: rentals, hub: hub, logger: logger}
}

// PaymentRequest carries the mutable payment fields.
type PaymentRequest struct {
	LeaseID int64   `json:"lease_id"`
	Amount  float64 `json:"amount"`
	Date    string  `json:"date"`
}

// List handles GET /api/payments
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActorFromContext(r.Context())
	payments, err := h.rentals.ListPayments(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if payments == nil {
		payments = []*domain.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

// Get handles GET /api/payments/{id}
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	payment, err := h.rentals.GetPayment(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

// Create handles POST /api/payments
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	payment := &domain.Payment{LeaseID: req.LeaseID, Amount: req.Amount, Date: req.Date}
	if err := h.rentals.CreatePayment(r.Context(), payment); err != nil {
		metrics.ObserveMutation("payment", "create", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("payment", "create", "success")
	h.notify(r, "create", payment.ID)
	writeJSON(w, http.StatusCreated, payment)
}

// Update handles PUT /api/payments/{id}
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	payment := &domain.Payment{ID: id, LeaseID: req.LeaseID, Amount: req.Amount, Date: req.Date}
	if err := h.rentals.UpdatePayment(r.Context(), payment); err != nil {
		metrics.ObserveMutation("payment", "update", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("payment", "update", "success")
	h.notify(r, "update", id)
	writeJSON(w, http.StatusOK, payment)
}

// Delete handles DELETE /api/payments/{id}
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.rentals.DeletePayment(r.Context(), id); err != nil {
		metrics.ObserveMutation("payment", "delete", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveMutation("payment", "delete", "success")
	h.notify(r, "delete", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *PaymentHandler) notify(r *http.Request, action string, id int64) {
	actor, _ := middleware.GetActorFromContext(r.Context())
	h.hub.Publish(events.Event{Entity: "payment", Action: action, EntityID: id, Actor: actor.Username})
}
