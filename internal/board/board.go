package board

import (
	"context"
	"fmt"
	"sync"

	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// GoalieSource lists today's goalies
type GoalieSource interface {
	TodaysGoalies(ctx context.Context) ([]models.Goalie, error)
}

// StatsSource summarizes a goalie's season
type StatsSource interface {
	GoalieStats(ctx context.Context, goalieID int64, season string) (*models.GoalieStats, error)
}

// GoalSideSource analyzes a game's goals
type GoalSideSource interface {
	GoalSides(ctx context.Context, gamePk int64) ([]models.GoalSideAnalysis, error)
}

// Builder assembles the nightly goalie board
type Builder struct {
	goalies        GoalieSource
	stats          StatsSource
	sides          GoalSideSource
	maxConcurrency int
	logger         logrus.FieldLogger
}

// Option customizes a Builder
type Option func(*Builder)

// WithMaxConcurrency bounds the per-goalie fan-out. Zero or less means unbounded.
func WithMaxConcurrency(n int) Option {
	return func(b *Builder) { b.maxConcurrency = n }
}

// WithLogger sets the builder's logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a board builder
func NewBuilder(goalies GoalieSource, stats StatsSource, sides GoalSideSource, opts ...Option) *Builder {
	b := &Builder{
		goalies: goalies,
		stats:   stats,
		sides:   sides,
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns one row per goalie in discovery order. Any failed lookup
// fails the whole board.
func (b *Builder) Build(ctx context.Context) ([]models.BoardRow, error) {
	goalies, err := b.goalies.TodaysGoalies(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering goalies: %w", err)
	}

	rows := make([]models.BoardRow, len(goalies))

	// every goalie of a game shares one feed fetch per build
	games := make(map[int64]*gameSides)
	for _, goalie := range goalies {
		if _, ok := games[goalie.GamePk]; !ok {
			games[goalie.GamePk] = &gameSides{}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if b.maxConcurrency > 0 {
		g.SetLimit(b.maxConcurrency)
	}

	for i, goalie := range goalies {
		i, goalie := i, goalie
		g.Go(func() error {
			stats, err := b.stats.GoalieStats(gctx, goalie.GoalieID, "")
			if err != nil {
				return fmt.Errorf("stats for %s: %w", goalie.GoalieName, err)
			}

			analysis, err := games[goalie.GamePk].get(gctx, b.sides, goalie.GamePk)
			if err != nil {
				return fmt.Errorf("goal sides for game %d: %w", goalie.GamePk, err)
			}

			rows[i] = Row(goalie, stats, analysis)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		b.logger.WithError(err).Warn("board build failed")
		return nil, err
	}

	b.logger.WithField("goalies", len(rows)).Debug("board built")
	return rows, nil
}

type gameSides struct {
	once     sync.Once
	analysis []models.GoalSideAnalysis
	err      error
}

func (g *gameSides) get(ctx context.Context, src GoalSideSource, gamePk int64) ([]models.GoalSideAnalysis, error) {
	g.once.Do(func() {
		g.analysis, g.err = src.GoalSides(ctx, gamePk)
	})
	return g.analysis, g.err
}

// Row joins a goalie with its stats and the analysis entry carrying the
// same goalie name. Without a match the side is "N/A" with zero counts.
func Row(goalie models.Goalie, stats *models.GoalieStats, analysis []models.GoalSideAnalysis) models.BoardRow {
	row := models.BoardRow{
		Team:        goalie.Team,
		GoalieName:  goalie.GoalieName,
		GoalieID:    goalie.GoalieID,
		GamePk:      goalie.GamePk,
		SideFavored: models.FavoredNone,
	}
	if stats != nil {
		row.GamesPlayed = stats.GamesPlayed
		row.GamesWithGoalsAgainst = len(stats.GamesWithGoalsAgainst)
	}

	for _, a := range analysis {
		if a.Goalie == goalie.GoalieName {
			row.SideFavored = a.Favored
			row.Left = a.Left
			row.Right = a.Right
			break
		}
	}
	return row
}
