package squad

import (
	"fmt"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
)

// Squad is an ordered player selection. Insertion order is display order.
type Squad []players.Player

// Metrics are derived from a squad after every change.
type Metrics struct {
	Size            int     `json:"size"`
	TotalCost       float64 `json:"total_cost"`
	RemainingBudget float64 `json:"remaining_budget"`
	Complete        bool    `json:"complete"`
}

// TryAdd returns s with candidate appended, or a *Rejection. Checks run in a
// fixed order and the first failure wins; s is never modified.
func TryAdd(s Squad, candidate players.Player, rules Rules) (Squad, error) {
	if len(s) >= rules.TotalPlayers {
		return s, &Rejection{Kind: KindSquadFull}
	}
	if s.Contains(candidate.ID) {
		return s, &Rejection{Kind: KindAlreadySelected, Player: candidate}
	}
	if s.CostTenths()+candidate.NowCost > rules.BudgetTenths() {
		return s, &Rejection{Kind: KindBudgetExceeded, Player: candidate}
	}
	if s.countTeam(candidate.Team) >= rules.PlayersPerTeam {
		return s, &Rejection{
			Kind:     KindTeamCapExceeded,
			Player:   candidate,
			TeamName: candidate.TeamName,
			Cap:      rules.PlayersPerTeam,
		}
	}
	if limit := rules.PositionCap(candidate.PositionName); s.CountPosition(candidate.PositionName) >= limit {
		return s, &Rejection{
			Kind:     KindPositionCapExceeded,
			Player:   candidate,
			Position: candidate.PositionName,
			Cap:      limit,
		}
	}

	out := make(Squad, len(s), len(s)+1)
	copy(out, s)
	return append(out, candidate), nil
}

// Remove drops the player with playerID. Absent ids are a no-op.
func Remove(s Squad, playerID int) Squad {
	out := make(Squad, 0, len(s))
	for _, p := range s {
		if p.ID != playerID {
			out = append(out, p)
		}
	}
	return out
}

// DeriveMetrics computes size, cost and remaining budget. Sums are taken in
// tenths so 99.5 + 0.5 leaves exactly 0.
func DeriveMetrics(s Squad, rules Rules) Metrics {
	cost := s.CostTenths()
	return Metrics{
		Size:            len(s),
		TotalCost:       float64(cost) / 10,
		RemainingBudget: float64(rules.BudgetTenths()-cost) / 10,
		Complete:        IsComplete(s, rules),
	}
}

// IsComplete reports whether the squad is at capacity.
func IsComplete(s Squad, rules Rules) bool {
	return len(s) == rules.TotalPlayers
}

// Validate replays TryAdd from an empty squad. A squad is legal iff it could
// have been built one player at a time.
func Validate(s Squad, rules Rules) error {
	var built Squad
	for i, p := range s {
		next, err := TryAdd(built, p, rules)
		if err != nil {
			return fmt.Errorf("player %d (%s): %w", i+1, p.WebName, err)
		}
		built = next
	}
	return nil
}

// CostTenths sums now_cost.
func (s Squad) CostTenths() int {
	total := 0
	for _, p := range s {
		total += p.NowCost
	}
	return total
}

// Contains reports whether playerID is selected.
func (s Squad) Contains(playerID int) bool {
	for _, p := range s {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// CountPosition counts selected players at pos.
func (s Squad) CountPosition(pos players.Position) int {
	n := 0
	for _, p := range s {
		if p.PositionName == pos {
			n++
		}
	}
	return n
}

func (s Squad) countTeam(team int) int {
	n := 0
	for _, p := range s {
		if p.Team == team {
			n++
		}
	}
	return n
}

// IDs lists player ids in squad order.
func (s Squad) IDs() []int {
	ids := make([]int, len(s))
	for i, p := range s {
		ids[i] = p.ID
	}
	return ids
}

// ByPosition groups players by position, preserving order.
func (s Squad) ByPosition() map[players.Position][]players.Player {
	out := make(map[players.Position][]players.Player, len(players.Positions))
	for _, p := range s {
		out[p.PositionName] = append(out[p.PositionName], p)
	}
	return out
}
