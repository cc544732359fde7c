package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourorg/rentledger/internal/domain"
	"github.com/yourorg/rentledger/internal/events"
	"github.com/yourorg/rentledger/internal/featureflags"
	"github.com/yourorg/rentledger/internal/security/auth"
)

// EventsHandler streams mutation events over a websocket. Browsers
// cannot attach headers to upgrade requests, so the session token
// arrives as a query parameter instead.
type EventsHandler struct {
	hub            *events.Hub
	tokens         *auth.TokenManager
	allowedOrigins []string
	logger         *slog.Logger
}

// NewEventsHandler creates a new event feed handler.
func NewEventsHandler(hub *events.Hub, tokens *auth.TokenManager, allowedOrigins []string, logger *slog.Logger) *EventsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventsHandler{hub: hub, tokens: tokens, allowedOrigins: allowedOrigins, logger: logger}
}

func (h *EventsHandler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Non-browser clients send no origin.
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles GET /ws/events?token=...
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !featureflags.Enabled(featureflags.EventFeed) {
		http.Error(w, "event feed disabled", http.StatusNotFound)
		return
	}

	claims, err := h.tokens.ValidateToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	actor := claims.Actor()
	if actor.Role != domain.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	upgrader := h.getUpgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	feed, cancel := h.hub.Subscribe()
	defer cancel()

	h.logger.Info("event feed attached", slog.String("username", actor.Username))

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	// Reads are discarded but the pump notices a closed peer.
	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			_ = ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		case event, ok := <-feed:
			if !ok {
				return
			}
			if err := ws.WriteJSON(event); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Debug("event feed closed", slog.String("username", actor.Username))
				}
				return
			}
		}
	}
}
