package testutil

import (
	"fmt"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
)

// SamplePlayer returns a minimal player fixture.
func SamplePlayer(id, team int, pos players.Position, cost int) players.Player {
	elementType := 0
	for i, p := range players.Positions {
		if p == pos {
			elementType = i + 1
		}
	}
	return players.Player{
		ID:            id,
		WebName:       fmt.Sprintf("Player%d", id),
		FirstName:     "Test",
		SecondName:    fmt.Sprintf("Player%d", id),
		Team:          team,
		TeamName:      fmt.Sprintf("Team %d", team),
		TeamShortName: fmt.Sprintf("T%02d", team),
		ElementType:   elementType,
		PositionName:  pos,
		NowCost:       cost,
		AIScore:       float64(id),
		UpcomingFixtures: []players.Fixture{
			{Opponent: "OPP", Difficulty: 3, IsHome: true},
		},
	}
}

// SampleRoster returns four players, one per position, on distinct teams.
func SampleRoster() []players.Player {
	return []players.Player{
		SamplePlayer(1, 1, players.PositionGoalkeeper, 45),
		SamplePlayer(2, 2, players.PositionDefender, 50),
		SamplePlayer(3, 3, players.PositionMidfielder, 80),
		SamplePlayer(4, 4, players.PositionForward, 90),
	}
}
