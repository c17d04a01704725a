package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/client"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/hub"
)

// LiveHandler serves the goal-side WebSocket feed and hub status
type LiveHandler struct {
	hub      *hub.Hub
	ctx      context.Context
	upgrader websocket.Upgrader
	logger   logrus.FieldLogger
}

// NewLiveHandler creates a live handler. Client pumps run on ctx, not on
// the request context.
func NewLiveHandler(ctx context.Context, h *hub.Hub, allowedOrigins []string, logger logrus.FieldLogger) *LiveHandler {
	return &LiveHandler{
		hub: h,
		ctx: ctx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

// HandleWebSocket upgrades the connection and registers a client
func (l *LiveHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := client.NewClient(uuid.New().String(), conn, l.hub, l.logger)
	l.hub.Register(c)

	go c.WritePump(l.ctx)
	go c.ReadPump(l.ctx)
}

// HandleMetrics returns hub metrics
func (l *LiveHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, l.hub.GetMetrics())
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}
