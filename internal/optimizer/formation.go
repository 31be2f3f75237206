// Package optimizer picks lineups and generates legal squads from the roster.
package optimizer

import (
	"fmt"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
)

// Formation is a starting eleven shape.
type Formation struct {
	Goalkeepers int
	Defenders   int
	Midfielders int
	Forwards    int
}

// Formations lists the shapes FPL allows, in preference order for ties.
var Formations = []Formation{
	{1, 3, 5, 2},
	{1, 3, 4, 3},
	{1, 4, 4, 2},
	{1, 4, 5, 1},
	{1, 5, 3, 2},
	{1, 5, 4, 1},
}

// Count returns the starters required at pos.
func (f Formation) Count(pos players.Position) int {
	switch pos {
	case players.PositionGoalkeeper:
		return f.Goalkeepers
	case players.PositionDefender:
		return f.Defenders
	case players.PositionMidfielder:
		return f.Midfielders
	case players.PositionForward:
		return f.Forwards
	default:
		return 0
	}
}

// String renders outfield lines, e.g. "3-5-2".
func (f Formation) String() string {
	if f == (Formation{}) {
		return ""
	}
	return fmt.Sprintf("%d-%d-%d", f.Defenders, f.Midfielders, f.Forwards)
}
