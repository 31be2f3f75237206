package optimizer

import (
	"errors"
	"math/rand/v2"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
)

// MaxRandomAttempts bounds RandomSquad sampling.
const MaxRandomAttempts = 1000

// ErrNoValidSquad is returned when sampling cannot produce a legal squad.
var ErrNoValidSquad = errors.New("could not generate a valid squad")

// Pool indexes the roster by position for sampling.
type Pool struct {
	rules      squad.Rules
	byPosition map[players.Position][]players.Player
}

// NewPool groups roster players by position. Players outside the rules'
// positions are ignored.
func NewPool(roster []players.Player, rules squad.Rules) *Pool {
	p := &Pool{rules: rules, byPosition: make(map[players.Position][]players.Player, len(rules.Positions))}
	for _, pl := range roster {
		if _, ok := rules.Positions[pl.PositionName]; ok {
			p.byPosition[pl.PositionName] = append(p.byPosition[pl.PositionName], pl)
		}
	}
	return p
}

// Rules returns the rules the pool samples against.
func (p *Pool) Rules() squad.Rules {
	return p.rules
}

// Position returns the roster players at pos.
func (p *Pool) Position(pos players.Position) []players.Player {
	return p.byPosition[pos]
}

// RandomSquad samples each position quota uniformly until the result is a
// complete legal squad.
func (p *Pool) RandomSquad(rng *rand.Rand) (squad.Squad, error) {
	for attempt := 0; attempt < MaxRandomAttempts; attempt++ {
		candidate, ok := p.sample(rng)
		if !ok {
			return nil, ErrNoValidSquad
		}
		if p.legal(candidate) {
			return candidate, nil
		}
	}
	return nil, ErrNoValidSquad
}

func (p *Pool) sample(rng *rand.Rand) (squad.Squad, bool) {
	out := make(squad.Squad, 0, p.rules.TotalPlayers)
	for _, pos := range players.Positions {
		quota := p.rules.PositionCap(pos)
		group := p.byPosition[pos]
		if len(group) < quota {
			return nil, false
		}
		out = append(out, sampleN(rng, group, quota)...)
	}
	return out, true
}

func (p *Pool) legal(s squad.Squad) bool {
	return squad.IsComplete(s, p.rules) && squad.Validate(s, p.rules) == nil
}

func sampleN(rng *rand.Rand, group []players.Player, n int) []players.Player {
	out := make([]players.Player, 0, n)
	for _, idx := range rng.Perm(len(group))[:n] {
		out = append(out, group[idx])
	}
	return out
}
