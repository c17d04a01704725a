package hub_test

import (
	"context"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/client"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/hub"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

func startHub(t *testing.T) *hub.Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := hub.NewHub(logging.Discard())
	go h.Run(ctx)
	return h
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := startHub(t)
	c := client.NewClient("a", nil, h, logging.Discard())

	h.Register(c)
	waitFor(t, func() bool { return h.GetClientCount() == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.GetClientCount() == 0 })

	if _, ok := <-c.Send; ok {
		t.Error("expected send channel to be closed")
	}
	if got := h.GetMetrics()["total_connections"]; got != int64(1) {
		t.Errorf("expected 1 total connection, got %v", got)
	}
}

func TestHub_BroadcastRespectsFilter(t *testing.T) {
	h := startHub(t)

	all := client.NewClient("all", nil, h, logging.Discard())
	other := client.NewClient("other", nil, h, logging.Discard())
	other.SetFilter(models.SubscriptionFilter{Games: []int64{99}})

	h.Register(all)
	h.Register(other)
	waitFor(t, func() bool { return h.GetClientCount() == 2 })

	h.Broadcast(models.GoalSideUpdate{
		GamePk:   2023020001,
		Analysis: []models.GoalSideAnalysis{{Goalie: "Petr Mrazek", Left: 1, Right: 2, Total: 3, Favored: models.FavoredRight}},
	})

	select {
	case msg := <-all.Send:
		if msg.Type != models.MessageTypeGoalSideUpdate {
			t.Errorf("expected goal side update, got %s", msg.Type)
		}
		update, ok := msg.Payload.(models.GoalSideUpdate)
		if !ok || update.GamePk != 2023020001 || len(update.Analysis) != 1 {
			t.Errorf("unexpected payload: %+v", msg.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected update for unfiltered client")
	}

	select {
	case msg := <-other.Send:
		t.Errorf("filtered client received %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DisconnectsSlowClient(t *testing.T) {
	h := startHub(t)
	slow := client.NewClient("slow", nil, h, logging.Discard())

	h.Register(slow)
	waitFor(t, func() bool { return h.GetClientCount() == 1 })

	for i := 0; i <= client.SendBufferSize; i++ {
		h.Broadcast(models.GoalSideUpdate{GamePk: int64(i)})
	}

	waitFor(t, func() bool { return h.GetClientCount() == 0 })
}

func TestHub_CallsAfterStopDoNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := hub.NewHub(logging.Discard())

	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	c := client.NewClient("late", nil, h, logging.Discard())
	h.Register(c)
	waitFor(t, func() bool { return h.GetClientCount() == 1 })

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	returned := make(chan struct{})
	go func() {
		h.Unregister(c)
		h.Register(client.NewClient("after-stop", nil, h, logging.Discard()))
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Unregister blocked after the hub stopped")
	}
}
