package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/hub"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

func startLiveServer(t *testing.T) (*httptest.Server, *hub.Hub) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := logging.Discard()
	h := hub.NewHub(logger)
	go h.Run(ctx)

	live := handlers.NewLiveHandler(ctx, h, []string{"*"}, logger)
	router := handlers.NewRouter(handlers.NewHandler(nil, nil, nil, nil, logger), live, handlers.RouterConfig{
		CORSOrigins: []string{"*"},
		Logger:      logger,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, h
}

func waitForClients(t *testing.T, h *hub.Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.GetClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, h.GetClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebSocket_ReceivesGoalSideUpdates(t *testing.T) {
	srv, h := startLiveServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	waitForClients(t, h, 1)

	h.Broadcast(models.GoalSideUpdate{
		GamePk:   2023020001,
		Analysis: []models.GoalSideAnalysis{{Goalie: "Linus Ullmark", Left: 1, Total: 1, Favored: models.FavoredLeft}},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type    string                `json:"type"`
		Payload models.GoalSideUpdate `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	if msg.Type != models.MessageTypeGoalSideUpdate {
		t.Errorf("Expected %s, got %s", models.MessageTypeGoalSideUpdate, msg.Type)
	}
	if msg.Payload.GamePk != 2023020001 || len(msg.Payload.Analysis) != 1 {
		t.Errorf("unexpected payload: %+v", msg.Payload)
	}
}

func TestWebSocket_Heartbeat(t *testing.T) {
	srv, h := startLiveServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()
	waitForClients(t, h, 1)

	if err := conn.WriteJSON(models.ClientMessage{Type: models.MessageTypeHeartbeat}); err != nil {
		t.Fatalf("Failed to send heartbeat: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg models.ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	if msg.Type != models.MessageTypeHeartbeat {
		t.Errorf("Expected heartbeat, got %s", msg.Type)
	}
}

func TestMetrics(t *testing.T) {
	srv, _ := startLiveServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var metrics map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&metrics); err != nil {
		t.Fatalf("Failed to decode metrics: %v", err)
	}
	if _, ok := metrics["active_clients"]; !ok {
		t.Errorf("Expected active_clients in %v", metrics)
	}
}

func TestWebSocket_RejectsUnknownOrigin(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := logging.Discard()
	h := hub.NewHub(logger)
	go h.Run(ctx)

	live := handlers.NewLiveHandler(ctx, h, []string{"http://allowed.test"}, logger)
	srv := httptest.NewServer(http.HandlerFunc(live.HandleWebSocket))
	defer srv.Close()

	header := http.Header{}
	header.Set("Origin", "http://evil.test")
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	if _, _, err := websocket.DefaultDialer.Dial(url, header); err == nil {
		t.Error("Expected handshake to fail for a disallowed origin")
	}
}
