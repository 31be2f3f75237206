package roster

import (
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/teams"
)

// Roster is one fetch of the player pool with its teams.
type Roster struct {
	Gameweek int              `json:"gameweek"`
	Teams    []teams.Team     `json:"teams"`
	Players  []players.Player `json:"players"`
}

// Empty reports whether the roster carries no players.
func (r Roster) Empty() bool {
	return len(r.Players) == 0
}
