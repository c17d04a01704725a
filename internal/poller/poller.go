package poller

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

// StatusLive is the schedule state of games in progress
const StatusLive = "Live"

// Schedule lists today's games
type Schedule interface {
	Schedule(ctx context.Context) ([]models.ScheduleGame, error)
}

// Analyzer computes a game's goal sides
type Analyzer interface {
	GoalSides(ctx context.Context, gamePk int64) ([]models.GoalSideAnalysis, error)
}

// Broadcaster delivers updates to connected clients
type Broadcaster interface {
	Broadcast(update models.GoalSideUpdate)
	GetClientCount() int
}

// Store persists updates outside the process
type Store interface {
	PublishGoalSides(ctx context.Context, update models.GoalSideUpdate) error
	ReadLatest(ctx context.Context, gamePk int64) (*models.GoalSideUpdate, error)
}

// Poller re-analyzes live games on an interval and pushes changed results
type Poller struct {
	schedule Schedule
	analyzer Analyzer
	hub      Broadcaster
	store    Store
	interval time.Duration
	logger   logrus.FieldLogger
	now      func() time.Time

	// fingerprint of the last analysis pushed per game
	last map[int64]string
}

// Option customizes a Poller
type Option func(*Poller)

// WithStore also publishes every update to store
func WithStore(store Store) Option {
	return func(p *Poller) { p.store = store }
}

// WithClock overrides the update timestamp source
func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// New creates a poller
func New(schedule Schedule, analyzer Analyzer, hub Broadcaster, interval time.Duration, logger logrus.FieldLogger, opts ...Option) *Poller {
	p := &Poller{
		schedule: schedule,
		analyzer: analyzer,
		hub:      hub,
		interval: interval,
		logger:   logger.WithField("component", "poller"),
		now:      time.Now,
		last:     make(map[int64]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls immediately and then on every tick until ctx is done
func (p *Poller) Run(ctx context.Context) {
	p.logger.WithField("interval", p.interval.String()).Info("starting poller")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.PollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopping poller")
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce runs one cycle and returns the number of updates pushed. Games
// whose feed fails are logged and skipped.
func (p *Poller) PollOnce(ctx context.Context) int {
	if p.store == nil && p.hub.GetClientCount() == 0 {
		return 0
	}

	games, err := p.schedule.Schedule(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("error fetching schedule")
		return 0
	}

	pushed := 0
	for _, game := range games {
		if game.Status != StatusLive {
			continue
		}
		if ctx.Err() != nil {
			return pushed
		}

		entry := p.logger.WithField("game_pk", game.GamePk)

		analysis, err := p.analyzer.GoalSides(ctx, game.GamePk)
		if err != nil {
			entry.WithError(err).Warn("error analyzing game")
			continue
		}

		fp := fingerprint(analysis)
		if fp == p.lastFingerprint(ctx, game.GamePk) {
			continue
		}

		update := models.GoalSideUpdate{
			GamePk:     game.GamePk,
			Analysis:   analysis,
			ComputedAt: p.now().UTC(),
		}

		p.hub.Broadcast(update)
		if p.store != nil {
			if err := p.store.PublishGoalSides(ctx, update); err != nil {
				entry.WithError(err).Warn("error publishing update")
			}
		}

		p.last[game.GamePk] = fp
		pushed++
		entry.WithField("goalies", len(analysis)).Debug("pushed goal side update")
	}

	return pushed
}

// lastFingerprint falls back to the store the first time a game is seen,
// so a restart does not republish unchanged results
func (p *Poller) lastFingerprint(ctx context.Context, gamePk int64) string {
	if fp, ok := p.last[gamePk]; ok {
		return fp
	}
	if p.store == nil {
		return ""
	}

	latest, err := p.store.ReadLatest(ctx, gamePk)
	if err != nil {
		p.logger.WithError(err).WithField("game_pk", gamePk).Debug("error reading latest update")
		return ""
	}
	if latest == nil {
		return ""
	}

	fp := fingerprint(latest.Analysis)
	p.last[gamePk] = fp
	return fp
}

func fingerprint(analysis []models.GoalSideAnalysis) string {
	if analysis == nil {
		analysis = []models.GoalSideAnalysis{}
	}
	data, _ := json.Marshal(analysis)
	return string(data)
}
