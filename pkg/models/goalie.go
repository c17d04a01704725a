package models

// Goalie is a goaltender listed in a game's boxscore
type Goalie struct {
	Team       string `json:"team"`
	GoalieName string `json:"goalieName"`
	GoalieID   int64  `json:"goalieId"`
	GamePk     int64  `json:"gamePk"`
}

// GameLogEntry is one game from a goalie's season game log
type GameLogEntry struct {
	Season   string         `json:"season"`
	Date     string         `json:"date"`
	GamePk   int64          `json:"gamePk"`
	IsHome   bool           `json:"isHome"`
	IsWin    bool           `json:"isWin"`
	Opponent string         `json:"opponent"`
	Stat     GoalieGameStat `json:"stat"`
}

// GoalieGameStat holds the per-game goaltending line
type GoalieGameStat struct {
	GoalsAgainst   int     `json:"goalsAgainst"`
	ShotsAgainst   int     `json:"shotsAgainst"`
	Saves          int     `json:"saves"`
	SavePercentage float64 `json:"savePercentage"`
	Decision       string  `json:"decision,omitempty"`
	TimeOnIce      string  `json:"timeOnIce,omitempty"`
}

// GoalieStats summarizes a goalie's season game log
type GoalieStats struct {
	GoalieID              int64          `json:"goalieId"`
	GamesPlayed           int            `json:"gamesPlayed"`
	GamesWithGoalsAgainst []GameLogEntry `json:"gamesWithGoalsAgainst"`
}
