package goalstats

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/providers/nhl"
	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

// Upstream is the part of the NHL client the stats service needs
type Upstream interface {
	FetchGameLog(ctx context.Context, playerID int64, season string) (*nhl.GameLogResponse, error)
}

// Service summarizes goalie game logs
type Service struct {
	upstream Upstream
}

// New creates a stats service
func New(upstream Upstream) *Service {
	return &Service{upstream: upstream}
}

// GoalieStats returns games played and the games with at least one goal
// against for a goalie's season. An empty season means the current one.
func (s *Service) GoalieStats(ctx context.Context, goalieID int64, season string) (*models.GoalieStats, error) {
	log, err := s.upstream.FetchGameLog(ctx, goalieID, season)
	if err != nil {
		return nil, fmt.Errorf("fetching game log for %d: %w", goalieID, err)
	}

	return Summarize(goalieID, log.Splits()), nil
}

// Summarize counts the log and keeps the entries with goalsAgainst > 0
func Summarize(goalieID int64, splits []nhl.GameLogSplit) *models.GoalieStats {
	withGoals := make([]models.GameLogEntry, 0, len(splits))
	for _, split := range splits {
		if split.Stat.GoalsAgainst > 0 {
			withGoals = append(withGoals, toEntry(split))
		}
	}

	return &models.GoalieStats{
		GoalieID:              goalieID,
		GamesPlayed:           len(splits),
		GamesWithGoalsAgainst: withGoals,
	}
}

func toEntry(s nhl.GameLogSplit) models.GameLogEntry {
	return models.GameLogEntry{
		Season:   s.Season,
		Date:     s.Date,
		GamePk:   s.Game.GamePk,
		IsHome:   s.IsHome,
		IsWin:    s.IsWin,
		Opponent: s.Opponent.Name,
		Stat: models.GoalieGameStat{
			GoalsAgainst:   s.Stat.GoalsAgainst,
			ShotsAgainst:   s.Stat.Shots,
			Saves:          s.Stat.Saves,
			SavePercentage: s.Stat.SavePercentage,
			Decision:       s.Stat.Decision,
			TimeOnIce:      s.Stat.TimeOnIce,
		},
	}
}
