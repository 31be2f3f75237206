// Package scoring computes the ai_score attached to every roster player.
package scoring

import (
	"math"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
)

// Weights applied to the normalised inputs.
const (
	WeightForm          = 0.4
	WeightICT           = 0.3
	WeightPointsPerGame = 0.3
)

type bounds struct {
	min, max float64
}

func (b bounds) normalize(v float64) float64 {
	span := b.max - b.min
	if span <= 0 {
		return 0
	}
	return (v - b.min) / span
}

func boundsOf(pool []players.Player, field func(players.Player) float64) bounds {
	if len(pool) == 0 {
		return bounds{}
	}
	b := bounds{min: math.Inf(1), max: math.Inf(-1)}
	for _, p := range pool {
		v := field(p)
		b.min = math.Min(b.min, v)
		b.max = math.Max(b.max, v)
	}
	return b
}

// Apply returns a copy of pool with AIScore set from min-max normalised
// form, ICT index and points per game.
func Apply(pool []players.Player) []players.Player {
	form := boundsOf(pool, func(p players.Player) float64 { return p.Form })
	ict := boundsOf(pool, func(p players.Player) float64 { return p.ICTIndex })
	ppg := boundsOf(pool, func(p players.Player) float64 { return p.PointsPerGame })

	out := make([]players.Player, len(pool))
	for i, p := range pool {
		score := WeightForm*form.normalize(p.Form) +
			WeightICT*ict.normalize(p.ICTIndex) +
			WeightPointsPerGame*ppg.normalize(p.PointsPerGame)
		p.AIScore = Round2(score * 100)
		out[i] = p
	}
	return out
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
