package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/rentledger/internal/infrastructure/redis"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db          *sql.DB
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler. redisClient may be
// nil when no cache is configured.
func NewHealthHandler(db *sql.DB, redisClient *redis.Client, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{db: db, redisClient: redisClient, logger: logger}
}

// HealthResponse represents the health status response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /healthz - liveness check.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready handles GET /readyz - readiness check. Returns 200 only when
// the store answers; a configured cache is reported but advisory,
// since reports degrade to store reads without it.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)

	databaseOK := false
	if err := h.db.PingContext(ctx); err == nil {
		checks["database"] = "ok"
		databaseOK = true
	} else {
		checks["database"] = "error: " + err.Error()
	}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx); err == nil {
			checks["redis"] = "ok"
		} else {
			checks["redis"] = "error: " + err.Error()
		}
	} else {
		checks["redis"] = "not configured"
	}

	status := "ready"
	statusCode := http.StatusOK
	if !databaseOK {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, ReadinessResponse{Status: status, Checks: checks})

	h.logger.Debug("readiness check",
		slog.String("status", status),
		slog.String("database", checks["database"]),
		slog.String("redis", checks["redis"]),
	)
}
