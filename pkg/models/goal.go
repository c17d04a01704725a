package models

import "time"

// Coordinates is a shot location on the rink
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GoalEvent is a goal taken from a game's play-by-play feed.
// Goalie fields are empty for empty-net goals and Coordinates is nil
// when the feed did not record a location.
type GoalEvent struct {
	Scorer         string       `json:"scorer,omitempty"`
	ScorerID       int64        `json:"scorerId,omitempty"`
	ScorerPosition string       `json:"scorerPosition,omitempty"`
	Team           string       `json:"team"`
	Goalie         string       `json:"goalie,omitempty"`
	GoalieID       int64        `json:"goalieId,omitempty"`
	Period         int          `json:"period"`
	PeriodTime     string       `json:"periodTime,omitempty"`
	Coordinates    *Coordinates `json:"coordinates"`
}

// Favored side labels
const (
	FavoredLeft  = "left side"
	FavoredRight = "right side"
	FavoredEven  = "even"
	FavoredNone  = "N/A"
)

// GoalSideAnalysis is the goal-side tally for one goalie in one game
type GoalSideAnalysis struct {
	Goalie  string `json:"goalie"`
	Left    int    `json:"left"`
	Right   int    `json:"right"`
	Total   int    `json:"total"`
	Favored string `json:"favored"`
}

// GoalSideUpdate is pushed to live subscribers after a game is re-analyzed
type GoalSideUpdate struct {
	GamePk     int64              `json:"gamePk"`
	Analysis   []GoalSideAnalysis `json:"analysis"`
	ComputedAt time.Time          `json:"computedAt"`
}
