package squad

import "github.com/preston-bernstein/fpl-coach-service/internal/domain/players"

// Rules bounds a squad. Values are fixed at build time; callers pass them
// explicitly so validation never depends on ambient state.
type Rules struct {
	TotalPlayers   int
	Budget         float64
	PlayersPerTeam int
	Positions      map[players.Position]int
}

// DefaultRules returns the FPL squad rules.
func DefaultRules() Rules {
	return Rules{
		TotalPlayers:   15,
		Budget:         100.0,
		PlayersPerTeam: 3,
		Positions: map[players.Position]int{
			players.PositionGoalkeeper: 2,
			players.PositionDefender:   5,
			players.PositionMidfielder: 5,
			players.PositionForward:    3,
		},
	}
}

// BudgetTenths expresses the budget in now_cost units.
func (r Rules) BudgetTenths() int {
	if r.Budget >= 0 {
		return int(r.Budget*10 + 0.5)
	}
	return int(r.Budget*10 - 0.5)
}

// PositionCap returns the cap for pos; positions outside the rules cap at 0.
func (r Rules) PositionCap(pos players.Position) int {
	return r.Positions[pos]
}
