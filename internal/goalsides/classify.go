package goalsides

import (
	"sort"

	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

// Side is the goalie-relative half of the net a goal went into
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Classify maps a shot coordinate to a goalie side. The sign of x picks the
// rink half and mirrors the y split: x > 0 puts positive y on the goalie's
// left, x <= 0 puts it on the right.
func Classify(x, y float64) Side {
	if x > 0 {
		if y > 0 {
			return Left
		}
		return Right
	}
	if y > 0 {
		return Right
	}
	return Left
}

// Tally counts goals by side. Left+Right always equals Total.
type Tally struct {
	Left  int
	Right int
	Total int
}

// Add records one goal
func (t *Tally) Add(side Side) {
	if side == Left {
		t.Left++
	} else {
		t.Right++
	}
	t.Total++
}

// Favored returns the side with the strict majority, or "even"
func (t Tally) Favored() string {
	switch {
	case t.Left > t.Right:
		return models.FavoredLeft
	case t.Right > t.Left:
		return models.FavoredRight
	default:
		return models.FavoredEven
	}
}

// Analyze folds goal events into one analysis per conceding goalie, sorted
// by goalie name. Events without a goalie or coordinates are skipped.
func Analyze(goals []models.GoalEvent) []models.GoalSideAnalysis {
	tallies := make(map[string]*Tally)
	for _, g := range goals {
		if g.Goalie == "" || g.Coordinates == nil {
			continue
		}
		t, ok := tallies[g.Goalie]
		if !ok {
			t = &Tally{}
			tallies[g.Goalie] = t
		}
		t.Add(Classify(g.Coordinates.X, g.Coordinates.Y))
	}

	out := make([]models.GoalSideAnalysis, 0, len(tallies))
	for goalie, t := range tallies {
		out = append(out, models.GoalSideAnalysis{
			Goalie:  goalie,
			Left:    t.Left,
			Right:   t.Right,
			Total:   t.Total,
			Favored: t.Favored(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Goalie < out[j].Goalie })

	return out
}
