package publisher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

func TestStreamArgs(t *testing.T) {
	update := models.GoalSideUpdate{
		GamePk: 2023020001,
		Analysis: []models.GoalSideAnalysis{
			{Goalie: "Linus Ullmark", Left: 1, Total: 1, Favored: models.FavoredLeft},
			{Goalie: "Petr Mrazek", Left: 1, Right: 2, Total: 3, Favored: models.FavoredRight},
		},
	}
	data, _ := json.Marshal(update)

	args := publisher.StreamArgs(update, data)

	if args.Stream != "goalsides.updates.nhl" {
		t.Errorf("unexpected stream %q", args.Stream)
	}
	if args.MaxLen != 1000 || !args.Approx {
		t.Errorf("expected approximate trim to 1000, got maxlen=%d approx=%v", args.MaxLen, args.Approx)
	}

	values, ok := args.Values.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected values type %T", args.Values)
	}
	if values["game_pk"] != int64(2023020001) {
		t.Errorf("unexpected game_pk %v", values["game_pk"])
	}
	if values["goalies"] != "Linus Ullmark,Petr Mrazek" {
		t.Errorf("unexpected goalies %v", values["goalies"])
	}

	var decoded models.GoalSideUpdate
	if err := json.Unmarshal([]byte(values["data"].(string)), &decoded); err != nil {
		t.Fatalf("data is not valid JSON: %v", err)
	}
	if decoded.GamePk != update.GamePk || len(decoded.Analysis) != 2 {
		t.Errorf("unexpected data payload: %+v", decoded)
	}
}

func TestLatestKey(t *testing.T) {
	if got := publisher.LatestKey(42); got != "goalsides:game:42:latest" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestConnect_InvalidURL(t *testing.T) {
	if _, err := publisher.Connect(context.Background(), "not-a-url"); err == nil {
		t.Error("expected error for invalid url")
	}
}

func TestPublishGoalSides_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	p := publisher.NewStreamPublisher(client)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := p.PublishGoalSides(ctx, models.GoalSideUpdate{GamePk: 1}); err == nil {
		t.Error("expected error publishing to an unreachable server")
	}
}
