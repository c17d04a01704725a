package models

import "time"

// ScheduleGame is one game from the day's schedule
type ScheduleGame struct {
	GamePk   int64     `json:"gamePk"`
	GameType string    `json:"gameType,omitempty"`
	Season   string    `json:"season,omitempty"`
	GameDate time.Time `json:"gameDate"`
	Status   string    `json:"status"` // "Preview", "Live", "Final"
	Detailed string    `json:"detailedState,omitempty"`
	Home     TeamScore `json:"home"`
	Away     TeamScore `json:"away"`
	Venue    string    `json:"venue,omitempty"`
}

// TeamScore is one side of a scheduled game
type TeamScore struct {
	TeamID   int64  `json:"teamId"`
	TeamName string `json:"teamName"`
	Score    int    `json:"score"`
}
