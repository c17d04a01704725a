package nhl

import (
	"sort"
	"time"
)

// ScheduleResponse is the /schedule payload
type ScheduleResponse struct {
	TotalGames int `json:"totalGames"`
	Dates      []struct {
		Date  string         `json:"date"`
		Games []ScheduleGame `json:"games"`
	} `json:"dates"`
}

// Games returns the games of the first listed date, which is "today"
// for an undated request. A day without games yields an empty slice.
func (s *ScheduleResponse) Games() []ScheduleGame {
	if len(s.Dates) == 0 || s.Dates[0].Games == nil {
		return []ScheduleGame{}
	}
	return s.Dates[0].Games
}

// ScheduleGame is one game in the schedule
type ScheduleGame struct {
	GamePk   int64     `json:"gamePk"`
	GameType string    `json:"gameType"`
	Season   string    `json:"season"`
	GameDate time.Time `json:"gameDate"`
	Status   struct {
		AbstractGameState string `json:"abstractGameState"`
		DetailedState     string `json:"detailedState"`
	} `json:"status"`
	Teams struct {
		Away ScheduleTeam `json:"away"`
		Home ScheduleTeam `json:"home"`
	} `json:"teams"`
	Venue struct {
		Name string `json:"name"`
	} `json:"venue"`
}

// ScheduleTeam is one side of a scheduled game
type ScheduleTeam struct {
	Score int  `json:"score"`
	Team  Team `json:"team"`
}

// Team identifies a club
type Team struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	TriCode string `json:"triCode,omitempty"`
}

// Person identifies a player
type Person struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
}

// BoxscoreResponse is the /game/{pk}/boxscore payload
type BoxscoreResponse struct {
	Teams struct {
		Away BoxscoreTeam `json:"away"`
		Home BoxscoreTeam `json:"home"`
	} `json:"teams"`
}

// BoxscoreTeam lists one side's roster for a game, keyed "ID<playerId>"
type BoxscoreTeam struct {
	Team    Team                      `json:"team"`
	Players map[string]BoxscorePlayer `json:"players"`
}

// BoxscorePlayer is one roster entry
type BoxscorePlayer struct {
	Person       Person `json:"person"`
	JerseyNumber string `json:"jerseyNumber"`
	Position     struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"position"`
}

// PositionGoalie is the boxscore position code for goaltenders
const PositionGoalie = "G"

// Goalies returns the side's goaltenders ordered by player id
func (t BoxscoreTeam) Goalies() []BoxscorePlayer {
	var goalies []BoxscorePlayer
	for _, p := range t.Players {
		if p.Position.Code == PositionGoalie {
			goalies = append(goalies, p)
		}
	}
	sort.Slice(goalies, func(i, j int) bool {
		return goalies[i].Person.ID < goalies[j].Person.ID
	})
	return goalies
}

// GameLogResponse is the /people/{id}/stats?stats=gameLog payload
type GameLogResponse struct {
	Stats []struct {
		Splits []GameLogSplit `json:"splits"`
	} `json:"stats"`
}

// Splits returns the game log entries, empty when the player has none
func (g *GameLogResponse) Splits() []GameLogSplit {
	if len(g.Stats) == 0 || g.Stats[0].Splits == nil {
		return []GameLogSplit{}
	}
	return g.Stats[0].Splits
}

// GameLogSplit is a single game in a player's log
type GameLogSplit struct {
	Season string `json:"season"`
	Date   string `json:"date"`
	IsHome bool   `json:"isHome"`
	IsWin  bool   `json:"isWin"`
	Stat   struct {
		TimeOnIce      string  `json:"timeOnIce"`
		Shots          int     `json:"shots"`
		Saves          int     `json:"saves"`
		GoalsAgainst   int     `json:"goalsAgainst"`
		SavePercentage float64 `json:"savePercentage"`
		Decision       string  `json:"decision"`
	} `json:"stat"`
	Opponent Team `json:"opponent"`
	Game     struct {
		GamePk int64 `json:"gamePk"`
	} `json:"game"`
}

// LiveFeedResponse is the /game/{pk}/feed/live payload
type LiveFeedResponse struct {
	GamePk   int64 `json:"gamePk"`
	LiveData struct {
		Plays struct {
			AllPlays []Play `json:"allPlays"`
		} `json:"plays"`
	} `json:"liveData"`
}

// Play is one play-by-play event
type Play struct {
	Result struct {
		Event       string `json:"event"`
		EventTypeID string `json:"eventTypeId"`
		Description string `json:"description"`
	} `json:"result"`
	About struct {
		Period     int    `json:"period"`
		PeriodTime string `json:"periodTime"`
	} `json:"about"`
	Coordinates Coordinates       `json:"coordinates"`
	Players     []PlayParticipant `json:"players"`
	Team        Team              `json:"team"`
}

// Coordinates is a possibly empty location; the feed sends {} when unknown
type Coordinates struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// Valid reports whether both axes are present
func (c Coordinates) Valid() bool {
	return c.X != nil && c.Y != nil
}

// PlayParticipant is a player involved in a play
type PlayParticipant struct {
	Player     Person `json:"player"`
	PlayerType string `json:"playerType"`
}

// Participant roles
const (
	PlayerTypeScorer = "Scorer"
	PlayerTypeGoalie = "Goalie"
)

// EventGoal is the play result event for goals
const EventGoal = "Goal"

// Participant returns the first participant with the given role
func (p Play) Participant(playerType string) (PlayParticipant, bool) {
	for _, pl := range p.Players {
		if pl.PlayerType == playerType {
			return pl, true
		}
	}
	return PlayParticipant{}, false
}
