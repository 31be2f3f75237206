package optimizer

import (
	"sort"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
)

const (
	defaultDifficulty   = 3.0
	difficultyPenalty   = 0.2
	difficultyScaleSpan = 4.0
)

// Lineup is the best starting eleven found for a squad.
type Lineup struct {
	Starting  []players.Player
	Bench     []players.Player
	Formation Formation
	Score     float64
}

// BestLineup tries every formation and keeps the highest scoring eleven.
// Ties keep the earlier formation.
func BestLineup(s squad.Squad) Lineup {
	if len(s) == 0 {
		return Lineup{}
	}
	grouped := rankedByPosition(s)

	var best Lineup
	found := false
	for _, f := range Formations {
		starting := pickStarters(grouped, f)
		score := FixtureAdjustedScore(starting)
		if !found || score > best.Score {
			best = Lineup{Starting: starting, Formation: f, Score: score}
			found = true
		}
	}
	best.Bench = benchOf(s, best.Starting)
	return best
}

// FixtureAdjustedScore sums ai_score and scales it down by up to 20% as the
// average upcoming difficulty rises from 1 to 5.
func FixtureAdjustedScore(starting []players.Player) float64 {
	total := 0.0
	difficulty, fixtures := 0, 0
	for _, p := range starting {
		total += p.AIScore
		for _, f := range p.UpcomingFixtures {
			difficulty += f.Difficulty
			fixtures++
		}
	}
	avg := defaultDifficulty
	if fixtures > 0 {
		avg = float64(difficulty) / float64(fixtures)
	}
	return total * (1 - ((avg-1)/difficultyScaleSpan)*difficultyPenalty)
}

func rankedByPosition(s squad.Squad) map[players.Position][]players.Player {
	grouped := s.ByPosition()
	for pos := range grouped {
		group := grouped[pos]
		sort.SliceStable(group, func(i, j int) bool { return stronger(group[i], group[j]) })
	}
	return grouped
}

func pickStarters(grouped map[players.Position][]players.Player, f Formation) []players.Player {
	starting := make([]players.Player, 0, 11)
	for _, pos := range players.Positions {
		group := grouped[pos]
		n := min(f.Count(pos), len(group))
		starting = append(starting, group[:n]...)
	}
	return starting
}

func benchOf(s squad.Squad, starting []players.Player) []players.Player {
	picked := make(map[int]struct{}, len(starting))
	for _, p := range starting {
		picked[p.ID] = struct{}{}
	}
	bench := make([]players.Player, 0, len(s)-len(starting))
	for _, p := range s {
		if _, ok := picked[p.ID]; !ok {
			bench = append(bench, p)
		}
	}
	// Reserve keeper first, then strongest outfield cover.
	sort.SliceStable(bench, func(i, j int) bool {
		gi := bench[i].PositionName == players.PositionGoalkeeper
		gj := bench[j].PositionName == players.PositionGoalkeeper
		if gi != gj {
			return gi
		}
		return stronger(bench[i], bench[j])
	})
	return bench
}

// stronger orders by ai_score descending with id as the tie-break.
func stronger(a, b players.Player) bool {
	if a.AIScore != b.AIScore {
		return a.AIScore > b.AIScore
	}
	return a.ID < b.ID
}
