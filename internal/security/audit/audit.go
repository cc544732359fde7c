package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/rentledger/internal/domain"
)

// Logger emits structured audit records for mutations and auth events.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

// LogMutation records an entity mutation attempt by an actor.
func (al *Logger) LogMutation(ctx context.Context, actor domain.Actor, action, resource, resourceID, status, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("username", actor.Username),
		slog.String("role", string(actor.Role)),
		slog.String("status", status),
		slog.String("details", details),
		slog.Time("timestamp", time.Now()),
	)
}

// LogAuth records a login or signup outcome. Failures here are
// expected events, not faults.
func (al *Logger) LogAuth(ctx context.Context, username, action, status, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", "account"),
		slog.String("username", username),
		slog.String("status", status),
		slog.String("details", details),
		slog.Time("timestamp", time.Now()),
	)
}

// LogDenied records a rejected access to a gated surface.
func (al *Logger) LogDenied(ctx context.Context, actor domain.Actor, surface, reason string) {
	al.logger.Warn("audit",
		slog.String("action", "access_denied"),
		slog.String("resource", surface),
		slog.String("username", actor.Username),
		slog.String("role", string(actor.Role)),
		slog.String("status", "denied"),
		slog.String("details", reason),
		slog.Time("timestamp", time.Now()),
	)
}
