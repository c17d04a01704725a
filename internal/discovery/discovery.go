package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/providers/nhl"
	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
	"golang.org/x/sync/errgroup"
)

// Upstream is the part of the NHL client discovery needs
type Upstream interface {
	FetchSchedule(ctx context.Context, date time.Time) (*nhl.ScheduleResponse, error)
	FetchBoxscore(ctx context.Context, gamePk int64) (*nhl.BoxscoreResponse, error)
}

// Service discovers the goalies dressed for today's games
type Service struct {
	upstream Upstream
}

// New creates a discovery service
func New(upstream Upstream) *Service {
	return &Service{upstream: upstream}
}

// Schedule returns today's games
func (s *Service) Schedule(ctx context.Context) ([]models.ScheduleGame, error) {
	schedule, err := s.upstream.FetchSchedule(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}

	raw := schedule.Games()
	games := make([]models.ScheduleGame, 0, len(raw))
	for _, g := range raw {
		games = append(games, toScheduleGame(g))
	}
	return games, nil
}

// TodaysGoalies lists every goaltender in the boxscore of each of today's
// games, home side before away side, in schedule order. Any failed fetch
// fails the whole call.
func (s *Service) TodaysGoalies(ctx context.Context) ([]models.Goalie, error) {
	schedule, err := s.upstream.FetchSchedule(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}

	games := schedule.Games()
	perGame := make([][]models.Goalie, len(games))

	g, gctx := errgroup.WithContext(ctx)
	for i, game := range games {
		i, gamePk := i, game.GamePk
		g.Go(func() error {
			box, err := s.upstream.FetchBoxscore(gctx, gamePk)
			if err != nil {
				return fmt.Errorf("fetching boxscore %d: %w", gamePk, err)
			}
			perGame[i] = goaliesFromBoxscore(gamePk, box)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	goalies := make([]models.Goalie, 0, 2*len(games))
	for _, list := range perGame {
		goalies = append(goalies, list...)
	}
	return goalies, nil
}

func goaliesFromBoxscore(gamePk int64, box *nhl.BoxscoreResponse) []models.Goalie {
	var out []models.Goalie
	for _, side := range []nhl.BoxscoreTeam{box.Teams.Home, box.Teams.Away} {
		for _, p := range side.Goalies() {
			out = append(out, models.Goalie{
				Team:       side.Team.Name,
				GoalieName: p.Person.FullName,
				GoalieID:   p.Person.ID,
				GamePk:     gamePk,
			})
		}
	}
	return out
}

func toScheduleGame(g nhl.ScheduleGame) models.ScheduleGame {
	return models.ScheduleGame{
		GamePk:   g.GamePk,
		GameType: g.GameType,
		Season:   g.Season,
		GameDate: g.GameDate,
		Status:   g.Status.AbstractGameState,
		Detailed: g.Status.DetailedState,
		Home: models.TeamScore{
			TeamID:   g.Teams.Home.Team.ID,
			TeamName: g.Teams.Home.Team.Name,
			Score:    g.Teams.Home.Score,
		},
		Away: models.TeamScore{
			TeamID:   g.Teams.Away.Team.ID,
			TeamName: g.Teams.Away.Team.Name,
			Score:    g.Teams.Away.Score,
		},
		Venue: g.Venue.Name,
	}
}
