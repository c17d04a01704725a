package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

const (
	// StreamKey receives every goal-side update
	StreamKey = "goalsides.updates.nhl"

	// StreamMaxLen caps the stream, trimmed approximately
	StreamMaxLen = 1000

	// LatestTTL is how long the last analysis of a game is kept
	LatestTTL = 6 * time.Hour
)

// StreamPublisher writes goal-side updates to a Redis stream and keeps the
// latest analysis per game under its own key
type StreamPublisher struct {
	client *redis.Client
}

// NewStreamPublisher creates a publisher on an existing client
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{client: client}
}

// Connect parses a redis:// URL and checks the server answers
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// PublishGoalSides appends the update to the stream and refreshes the
// game's latest snapshot
func (p *StreamPublisher) PublishGoalSides(ctx context.Context, update models.GoalSideUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshaling goal side update: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.XAdd(ctx, StreamArgs(update, data))
	pipe.Set(ctx, LatestKey(update.GamePk), data, LatestTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publishing game %d: %w", update.GamePk, err)
	}
	return nil
}

// ReadLatest returns the last published analysis for a game, or nil
func (p *StreamPublisher) ReadLatest(ctx context.Context, gamePk int64) (*models.GoalSideUpdate, error) {
	data, err := p.client.Get(ctx, LatestKey(gamePk)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var update models.GoalSideUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return nil, fmt.Errorf("unmarshaling goal side update: %w", err)
	}
	return &update, nil
}

// Close releases the Redis connection
func (p *StreamPublisher) Close() error {
	return p.client.Close()
}

// StreamArgs builds the XADD entry for an update
func StreamArgs(update models.GoalSideUpdate, data []byte) *redis.XAddArgs {
	goalies := make([]string, 0, len(update.Analysis))
	for _, a := range update.Analysis {
		goalies = append(goalies, a.Goalie)
	}

	return &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: StreamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":    string(data),
			"game_pk": update.GamePk,
			"goalies": strings.Join(goalies, ","),
		},
	}
}

// LatestKey is the snapshot key for a game
func LatestKey(gamePk int64) string {
	return fmt.Sprintf("goalsides:game:%d:latest", gamePk)
}
