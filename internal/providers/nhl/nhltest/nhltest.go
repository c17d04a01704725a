// Package nhltest serves canned NHL stats API payloads for tests.
package nhltest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
)

// Server is a fake NHL stats API
type Server struct {
	*httptest.Server

	mu     sync.RWMutex
	bodies map[string]string
	fail   map[string]int
	hits   map[string]*int64
}

// NewServer starts a fake upstream. Unknown paths answer 404.
func NewServer() *Server {
	s := &Server{
		bodies: make(map[string]string),
		fail:   make(map[string]int),
		hits:   make(map[string]*int64),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Set registers the JSON body served for path
func (s *Server) Set(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[path] = body
}

// Fail makes path answer with status
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[path] = status
}

// Hits returns how many times path was requested
func (s *Server) Hits(path string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.hits[path]; ok {
		return atomic.LoadInt64(n)
	}
	return 0
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	s.mu.Lock()
	counter, ok := s.hits[path]
	if !ok {
		counter = new(int64)
		s.hits[path] = counter
	}
	status, failing := s.fail[path]
	body, found := s.bodies[path]
	s.mu.Unlock()

	atomic.AddInt64(counter, 1)

	if failing {
		http.Error(w, "upstream unavailable", status)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

// Game describes a scheduled game fixture
type Game struct {
	GamePk int64
	Home   string
	Away   string
}

// ScheduleJSON renders a /schedule payload for today
func ScheduleJSON(games ...Game) string {
	list := make([]map[string]interface{}, 0, len(games))
	for _, g := range games {
		list = append(list, map[string]interface{}{
			"gamePk":   g.GamePk,
			"gameType": "R",
			"season":   "20232024",
			"gameDate": "2023-10-10T23:00:00Z",
			"status": map[string]interface{}{
				"abstractGameState": "Live",
				"detailedState":     "In Progress",
			},
			"teams": map[string]interface{}{
				"home": map[string]interface{}{"score": 1, "team": map[string]interface{}{"id": 1, "name": g.Home}},
				"away": map[string]interface{}{"score": 2, "team": map[string]interface{}{"id": 2, "name": g.Away}},
			},
			"venue": map[string]interface{}{"name": "Arena"},
		})
	}

	dates := []interface{}{}
	if len(games) > 0 {
		dates = append(dates, map[string]interface{}{"date": "2023-10-10", "games": list})
	}
	return mustJSON(map[string]interface{}{"totalGames": len(games), "dates": dates})
}

// Player is a boxscore roster fixture
type Player struct {
	ID       int64
	Name     string
	Position string
}

// BoxscoreJSON renders a /game/{pk}/boxscore payload
func BoxscoreJSON(homeTeam string, home []Player, awayTeam string, away []Player) string {
	side := func(name string, players []Player) map[string]interface{} {
		roster := make(map[string]interface{}, len(players))
		for _, p := range players {
			roster[fmt.Sprintf("ID%d", p.ID)] = map[string]interface{}{
				"person":       map[string]interface{}{"id": p.ID, "fullName": p.Name},
				"jerseyNumber": "1",
				"position":     map[string]interface{}{"code": p.Position, "name": p.Position},
			}
		}
		return map[string]interface{}{
			"team":    map[string]interface{}{"id": 1, "name": name},
			"players": roster,
		}
	}

	return mustJSON(map[string]interface{}{
		"teams": map[string]interface{}{
			"home": side(homeTeam, home),
			"away": side(awayTeam, away),
		},
	})
}

// GameLogJSON renders a gameLog payload with one split per goals-against value
func GameLogJSON(goalsAgainst ...int) string {
	splits := make([]map[string]interface{}, 0, len(goalsAgainst))
	for i, ga := range goalsAgainst {
		splits = append(splits, map[string]interface{}{
			"season": "20232024",
			"date":   fmt.Sprintf("2023-10-%02d", i+1),
			"isHome": i%2 == 0,
			"isWin":  ga < 2,
			"stat": map[string]interface{}{
				"timeOnIce":      "60:00",
				"shots":          30,
				"saves":          30 - ga,
				"goalsAgainst":   ga,
				"savePercentage": float64(30-ga) / 30,
				"decision":       "W",
			},
			"opponent": map[string]interface{}{"id": 9, "name": "Opponent"},
			"game":     map[string]interface{}{"gamePk": 2023020000 + int64(i)},
		})
	}
	return mustJSON(map[string]interface{}{
		"stats": []interface{}{map[string]interface{}{"splits": splits}},
	})
}

// Play is a play-by-play fixture. Nil coordinates render as {}.
type Play struct {
	Event  string
	Team   string
	Scorer string
	Goalie string
	X, Y   *float64
}

// Goal builds a goal fixture at (x, y)
func Goal(team, scorer, goalie string, x, y float64) Play {
	return Play{Event: "Goal", Team: team, Scorer: scorer, Goalie: goalie, X: &x, Y: &y}
}

// FeedJSON renders a /game/{pk}/feed/live payload
func FeedJSON(gamePk int64, plays ...Play) string {
	all := make([]map[string]interface{}, 0, len(plays))
	for i, p := range plays {
		coords := map[string]interface{}{}
		if p.X != nil {
			coords["x"] = *p.X
		}
		if p.Y != nil {
			coords["y"] = *p.Y
		}

		var players []map[string]interface{}
		if p.Scorer != "" {
			players = append(players, map[string]interface{}{
				"player":     map[string]interface{}{"id": 100 + i, "fullName": p.Scorer},
				"playerType": "Scorer",
			})
		}
		if p.Goalie != "" {
			players = append(players, map[string]interface{}{
				"player":     map[string]interface{}{"id": 900 + i, "fullName": p.Goalie},
				"playerType": "Goalie",
			})
		}

		all = append(all, map[string]interface{}{
			"result":      map[string]interface{}{"event": p.Event},
			"about":       map[string]interface{}{"period": 1, "periodTime": "05:00"},
			"coordinates": coords,
			"players":     players,
			"team":        map[string]interface{}{"id": 1, "name": p.Team},
		})
	}

	return mustJSON(map[string]interface{}{
		"gamePk": gamePk,
		"liveData": map[string]interface{}{
			"plays": map[string]interface{}{"allPlays": all},
		},
	})
}

// Paths for the fake upstream
func SchedulePath() string             { return "/schedule" }
func BoxscorePath(gamePk int64) string { return fmt.Sprintf("/game/%d/boxscore", gamePk) }
func GameLogPath(id int64) string      { return fmt.Sprintf("/people/%d/stats", id) }
func FeedPath(gamePk int64) string     { return fmt.Sprintf("/game/%d/feed/live", gamePk) }

func mustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
