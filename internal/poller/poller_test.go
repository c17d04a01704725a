package poller_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/poller"
	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

type mockSchedule struct {
	games []models.ScheduleGame
	err   error
	calls int
}

func (m *mockSchedule) Schedule(ctx context.Context) ([]models.ScheduleGame, error) {
	m.calls++
	return m.games, m.err
}

type mockAnalyzer struct {
	byGame map[int64][]models.GoalSideAnalysis
	failOn map[int64]bool
}

func (m *mockAnalyzer) GoalSides(ctx context.Context, gamePk int64) ([]models.GoalSideAnalysis, error) {
	if m.failOn[gamePk] {
		return nil, errors.New("feed down")
	}
	return m.byGame[gamePk], nil
}

type mockHub struct {
	clients int
	mu      sync.Mutex
	updates []models.GoalSideUpdate
}

func (m *mockHub) Broadcast(update models.GoalSideUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, update)
}

func (m *mockHub) GetClientCount() int { return m.clients }

type mockStore struct {
	published []models.GoalSideUpdate
	latest    map[int64]*models.GoalSideUpdate
	err       error
}

func (m *mockStore) PublishGoalSides(ctx context.Context, update models.GoalSideUpdate) error {
	m.published = append(m.published, update)
	return m.err
}

func (m *mockStore) ReadLatest(ctx context.Context, gamePk int64) (*models.GoalSideUpdate, error) {
	return m.latest[gamePk], nil
}

var fixedNow = time.Date(2023, 10, 10, 23, 30, 0, 0, time.UTC)

func liveGames() *mockSchedule {
	return &mockSchedule{games: []models.ScheduleGame{
		{GamePk: 1, Status: "Live"},
		{GamePk: 2, Status: "Preview"},
		{GamePk: 3, Status: "Live"},
	}}
}

func analyzer() *mockAnalyzer {
	return &mockAnalyzer{byGame: map[int64][]models.GoalSideAnalysis{
		1: {{Goalie: "Petr Mrazek", Left: 1, Right: 2, Total: 3, Favored: models.FavoredRight}},
		3: {{Goalie: "Linus Ullmark", Left: 1, Total: 1, Favored: models.FavoredLeft}},
	}}
}

func TestPollOnce_SkipsWithoutListeners(t *testing.T) {
	schedule := liveGames()
	p := poller.New(schedule, analyzer(), &mockHub{}, time.Minute, logging.Discard())

	if n := p.PollOnce(context.Background()); n != 0 {
		t.Errorf("expected no updates, got %d", n)
	}
	if schedule.calls != 0 {
		t.Errorf("expected no upstream calls, got %d", schedule.calls)
	}
}

func TestPollOnce_PushesLiveGames(t *testing.T) {
	hub := &mockHub{clients: 1}
	p := poller.New(liveGames(), analyzer(), hub, time.Minute, logging.Discard(),
		poller.WithClock(func() time.Time { return fixedNow }))

	if n := p.PollOnce(context.Background()); n != 2 {
		t.Fatalf("expected 2 updates, got %d", n)
	}
	if len(hub.updates) != 2 || hub.updates[0].GamePk != 1 || hub.updates[1].GamePk != 3 {
		t.Fatalf("unexpected broadcasts: %+v", hub.updates)
	}
	if !hub.updates[0].ComputedAt.Equal(fixedNow) {
		t.Errorf("unexpected timestamp %v", hub.updates[0].ComputedAt)
	}
}

func TestPollOnce_OnlyPushesChanges(t *testing.T) {
	hub := &mockHub{clients: 1}
	a := analyzer()
	p := poller.New(liveGames(), a, hub, time.Minute, logging.Discard())

	p.PollOnce(context.Background())
	if n := p.PollOnce(context.Background()); n != 0 {
		t.Errorf("expected unchanged games to be skipped, got %d updates", n)
	}

	a.byGame[3] = []models.GoalSideAnalysis{{Goalie: "Linus Ullmark", Left: 1, Right: 1, Total: 2, Favored: models.FavoredEven}}
	if n := p.PollOnce(context.Background()); n != 1 {
		t.Errorf("expected 1 changed game, got %d", n)
	}
}

func TestPollOnce_SkipsFailingGame(t *testing.T) {
	hub := &mockHub{clients: 1}
	a := analyzer()
	a.failOn = map[int64]bool{1: true}
	p := poller.New(liveGames(), a, hub, time.Minute, logging.Discard())

	if n := p.PollOnce(context.Background()); n != 1 {
		t.Fatalf("expected 1 update, got %d", n)
	}
	if hub.updates[0].GamePk != 3 {
		t.Errorf("expected game 3, got %d", hub.updates[0].GamePk)
	}
}

func TestPollOnce_ScheduleFailure(t *testing.T) {
	p := poller.New(&mockSchedule{err: errors.New("down")}, analyzer(), &mockHub{clients: 1}, time.Minute, logging.Discard())

	if n := p.PollOnce(context.Background()); n != 0 {
		t.Errorf("expected 0 updates, got %d", n)
	}
}

func TestPollOnce_PublishesToStore(t *testing.T) {
	store := &mockStore{}
	p := poller.New(liveGames(), analyzer(), &mockHub{}, time.Minute, logging.Discard(), poller.WithStore(store))

	if n := p.PollOnce(context.Background()); n != 2 {
		t.Fatalf("expected 2 updates, got %d", n)
	}
	if len(store.published) != 2 {
		t.Errorf("expected 2 published updates, got %d", len(store.published))
	}
}

func TestPollOnce_SeedsFromStore(t *testing.T) {
	a := analyzer()
	store := &mockStore{latest: map[int64]*models.GoalSideUpdate{
		1: {GamePk: 1, Analysis: a.byGame[1]},
	}}
	p := poller.New(liveGames(), a, &mockHub{}, time.Minute, logging.Discard(), poller.WithStore(store))

	if n := p.PollOnce(context.Background()); n != 1 {
		t.Fatalf("expected only game 3 to publish, got %d", n)
	}
	if store.published[0].GamePk != 3 {
		t.Errorf("expected game 3, got %d", store.published[0].GamePk)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	schedule := liveGames()
	p := poller.New(schedule, analyzer(), &mockHub{clients: 1}, time.Hour, logging.Discard())

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}
