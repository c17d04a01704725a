package goalstats_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/goalstats"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/providers/nhl"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/providers/nhl/nhltest"
)

func newService(srv *nhltest.Server) *goalstats.Service {
	return goalstats.New(nhl.New(nhl.Options{BaseURL: srv.URL, Logger: logging.Discard()}))
}

func TestGoalieStats_FiltersGamesWithGoalsAgainst(t *testing.T) {
	srv := nhltest.NewServer()
	defer srv.Close()
	srv.Set(nhltest.GameLogPath(8476883), nhltest.GameLogJSON(2, 0, 1))

	stats, err := newService(srv).GoalieStats(context.Background(), 8476883, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.GamesPlayed != 3 {
		t.Errorf("expected 3 games played, got %d", stats.GamesPlayed)
	}
	if len(stats.GamesWithGoalsAgainst) != 2 {
		t.Fatalf("expected 2 games with goals against, got %d", len(stats.GamesWithGoalsAgainst))
	}
	if stats.GamesWithGoalsAgainst[0].Stat.GoalsAgainst != 2 || stats.GamesWithGoalsAgainst[1].Stat.GoalsAgainst != 1 {
		t.Errorf("unexpected entries: %+v", stats.GamesWithGoalsAgainst)
	}
	if stats.GoalieID != 8476883 {
		t.Errorf("expected goalie id to be echoed, got %d", stats.GoalieID)
	}
}

func TestGoalieStats_EmptyLog(t *testing.T) {
	srv := nhltest.NewServer()
	defer srv.Close()
	srv.Set(nhltest.GameLogPath(1), `{"stats":[]}`)

	stats, err := newService(srv).GoalieStats(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.GamesPlayed != 0 || stats.GamesWithGoalsAgainst == nil || len(stats.GamesWithGoalsAgainst) != 0 {
		t.Errorf("expected empty summary, got %+v", stats)
	}
}

func TestGoalieStats_UpstreamFailure(t *testing.T) {
	srv := nhltest.NewServer()
	defer srv.Close()
	srv.Fail(nhltest.GameLogPath(1), http.StatusInternalServerError)

	_, err := newService(srv).GoalieStats(context.Background(), 1, "")
	if !errors.Is(err, nhl.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}
