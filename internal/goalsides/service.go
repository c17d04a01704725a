package goalsides

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/providers/nhl"
	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

// Upstream is the part of the NHL client the classifier needs
type Upstream interface {
	FetchLiveFeed(ctx context.Context, gamePk int64) (*nhl.LiveFeedResponse, error)
}

// Service reads a game's play-by-play feed and classifies its goals
type Service struct {
	upstream Upstream
}

// New creates a goal-side service
func New(upstream Upstream) *Service {
	return &Service{upstream: upstream}
}

// Goals returns every goal in the game, including ones without a goalie
// or coordinates
func (s *Service) Goals(ctx context.Context, gamePk int64) ([]models.GoalEvent, error) {
	feed, err := s.upstream.FetchLiveFeed(ctx, gamePk)
	if err != nil {
		return nil, fmt.Errorf("fetching live feed %d: %w", gamePk, err)
	}
	return GoalEvents(feed.LiveData.Plays.AllPlays), nil
}

// GoalSides returns the goal-side analysis for every goalie who conceded a
// located goal in the game
func (s *Service) GoalSides(ctx context.Context, gamePk int64) ([]models.GoalSideAnalysis, error) {
	goals, err := s.Goals(ctx, gamePk)
	if err != nil {
		return nil, err
	}
	return Analyze(goals), nil
}

// GoalEvents keeps the plays whose event is exactly "Goal"
func GoalEvents(plays []nhl.Play) []models.GoalEvent {
	goals := make([]models.GoalEvent, 0)
	for _, p := range plays {
		if p.Result.Event != nhl.EventGoal {
			continue
		}

		g := models.GoalEvent{
			Team:       p.Team.Name,
			Period:     p.About.Period,
			PeriodTime: p.About.PeriodTime,
		}
		if scorer, ok := p.Participant(nhl.PlayerTypeScorer); ok {
			g.Scorer = scorer.Player.FullName
			g.ScorerID = scorer.Player.ID
			g.ScorerPosition = scorer.PlayerType
		}
		if goalie, ok := p.Participant(nhl.PlayerTypeGoalie); ok {
			g.Goalie = goalie.Player.FullName
			g.GoalieID = goalie.Player.ID
		}
		if p.Coordinates.Valid() {
			g.Coordinates = &models.Coordinates{X: *p.Coordinates.X, Y: *p.Coordinates.Y}
		}

		goals = append(goals, g)
	}
	return goals
}
