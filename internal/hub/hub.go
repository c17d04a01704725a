package hub

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/client"
	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

// Hub tracks live subscribers and fans goal-side updates out to them
type Hub struct {
	clients   map[*client.Client]bool
	clientsMu sync.RWMutex

	broadcast  chan models.GoalSideUpdate
	register   chan *client.Client
	unregister chan *client.Client
	done       chan struct{}

	logger logrus.FieldLogger

	totalConnections int64
	totalMessages    int64
	droppedClients   int64
	metricsMu        sync.Mutex
}

// NewHub creates a hub
func NewHub(logger logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[*client.Client]bool),
		broadcast:  make(chan models.GoalSideUpdate, 256),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
		done:       make(chan struct{}),
		logger:     logger.WithField("component", "hub"),
	}
}

// Run serves registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("hub started")

	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			close(h.done)
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case update := <-h.broadcast:
			h.broadcastUpdate(update)
		}
	}
}

// Register adds a client. It is a no-op once the hub has stopped.
func (h *Hub) Register(c *client.Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client and closes its queue. It is a no-op once
// the hub has stopped.
func (h *Hub) Unregister(c *client.Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues an update. Updates are dropped when the queue is full.
func (h *Hub) Broadcast(update models.GoalSideUpdate) {
	select {
	case h.broadcast <- update:
	default:
		h.logger.WithField("game_pk", update.GamePk).Warn("broadcast buffer full, dropping update")
	}
}

func (h *Hub) registerClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.metricsMu.Lock()
	h.totalConnections++
	h.metricsMu.Unlock()

	h.logger.WithFields(logrus.Fields{"client_id": c.ID, "active": len(h.clients)}).Info("client connected")
}

func (h *Hub) unregisterClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		h.logger.WithFields(logrus.Fields{"client_id": c.ID, "active": len(h.clients)}).Info("client disconnected")
	}
}

func (h *Hub) broadcastUpdate(update models.GoalSideUpdate) {
	h.clientsMu.RLock()
	clients := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	message := models.ServerMessage{
		Type:      models.MessageTypeGoalSideUpdate,
		Payload:   update,
		Timestamp: time.Now(),
	}

	sent, dropped := 0, 0
	for _, c := range clients {
		if !c.MatchesFilter(update) {
			continue
		}

		if c.TrySend(message) {
			sent++
			continue
		}

		// slow consumer
		dropped++
		h.logger.WithField("client_id", c.ID).Warn("client buffer full, disconnecting")
		go h.Unregister(c)
	}

	h.metricsMu.Lock()
	if sent > 0 {
		h.totalMessages++
	}
	h.droppedClients += int64(dropped)
	h.metricsMu.Unlock()
}

// GetMetrics returns hub counters
func (h *Hub) GetMetrics() map[string]interface{} {
	active := h.GetClientCount()

	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     active,
		"total_connections":  h.totalConnections,
		"total_messages":     h.totalMessages,
		"dropped_clients":    h.droppedClients,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.WithField("active", len(h.clients)).Info("shutting down hub")

	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}

func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.logger.WithFields(logrus.Fields(h.GetMetrics())).Debug("hub metrics")
		}
	}
}
