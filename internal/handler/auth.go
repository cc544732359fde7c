package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/rentledger/internal/domain"
	"github.com/yourorg/rentledger/internal/observability/metrics"
	"github.com/yourorg/rentledger/internal/security/audit"
	"github.com/yourorg/rentledger/internal/service"
)

// AuthHandler handles the signup and login endpoints.
type AuthHandler struct {
	authService *service.AuthService
	auditLog    *audit.Logger
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, auditLog *audit.Logger, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{authService: authService, auditLog: auditLog, logger: logger}
}

// SignupRequest represents a signup request.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	RefID    *int64 `json:"ref_id,omitempty"`
}

// SignupResponse represents a created account.
type SignupResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	RefID    *int64 `json:"ref_id,omitempty"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode signup request", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.authService.Signup(r.Context(), req.Username, req.Password, domain.Role(req.Role), req.RefID)
	if err != nil {
		metrics.ObserveAuthAttempt("signup", "failure")
		h.auditLog.LogAuth(r.Context(), req.Username, "signup", "failure", err.Error())
		writeServiceError(w, err)
		return
	}

	metrics.ObserveAuthAttempt("signup", "success")
	h.auditLog.LogAuth(r.Context(), user.Username, "signup", "success", "")
	writeJSON(w, http.StatusCreated, SignupResponse{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RefID:    user.RefID,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode login request", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		metrics.ObserveAuthAttempt("login", "failure")
		h.auditLog.LogAuth(r.Context(), req.Username, "login", "failure", "")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveAuthAttempt("login", "success")
	h.auditLog.LogAuth(r.Context(), result.Username, "login", "success", "")
	writeJSON(w, http.StatusOK, result)
}
