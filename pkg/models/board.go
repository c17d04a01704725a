package models

// BoardRow is one goalie line of the nightly goalie board
type BoardRow struct {
	Team                  string `json:"team"`
	GoalieName            string `json:"goalieName"`
	GoalieID              int64  `json:"goalieId"`
	GamePk                int64  `json:"gamePk"`
	GamesPlayed           int    `json:"gamesPlayed"`
	GamesWithGoalsAgainst int    `json:"gamesWithGoalsAgainst"`
	SideFavored           string `json:"sideFavored"`
	Left                  int    `json:"left"`
	Right                 int    `json:"right"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}
