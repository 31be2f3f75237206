package optimizer

import (
	"context"
	"math/rand/v2"
	"sort"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
)

const (
	mutationWindow      = 5
	mutationMaxAttempts = 100
	// childAttemptFactor bounds crossover attempts per generation.
	childAttemptFactor = 20
)

// GeneticConfig tunes the AI squad search.
type GeneticConfig struct {
	Population   int
	Generations  int
	MutationRate float64
	Elitism      float64
}

type scored struct {
	squad   squad.Squad
	fitness float64
}

// Genetic evolves squads toward the highest BestLineup score.
type Genetic struct {
	pool *Pool
	cfg  GeneticConfig
	rng  *rand.Rand
}

// NewGenetic builds a search over pool. rng must not be shared across
// goroutines.
func NewGenetic(pool *Pool, cfg GeneticConfig, rng *rand.Rand) *Genetic {
	if cfg.Population < 2 {
		cfg.Population = 2
	}
	if cfg.Generations < 0 {
		cfg.Generations = 0
	}
	return &Genetic{pool: pool, cfg: cfg, rng: rng}
}

// Run returns the fittest squad after the configured generations. It stops
// early with ctx's error when ctx is cancelled.
func (g *Genetic) Run(ctx context.Context) (squad.Squad, error) {
	population := make([]scored, 0, g.cfg.Population)
	for len(population) < g.cfg.Population {
		s, err := g.pool.RandomSquad(g.rng)
		if err != nil {
			return nil, err
		}
		population = append(population, g.score(s))
	}
	sortByFitness(population)

	eliteSize := min(int(float64(g.cfg.Population)*g.cfg.Elitism), len(population))
	matingSize := max(g.cfg.Population/2, 1)

	for gen := 0; gen < g.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := make([]scored, 0, g.cfg.Population)
		next = append(next, population[:eliteSize]...)
		mating := population[:matingSize]

		for attempts := 0; len(next) < g.cfg.Population && attempts < g.cfg.Population*childAttemptFactor; attempts++ {
			a := mating[g.rng.IntN(len(mating))]
			b := mating[g.rng.IntN(len(mating))]
			child, ok := g.crossover(a.squad, b.squad)
			if !ok {
				continue
			}
			if g.rng.Float64() < g.cfg.MutationRate {
				child = g.mutate(child)
			}
			if !g.pool.legal(child) {
				if child, ok = g.repair(child); !ok {
					continue
				}
			}
			next = append(next, g.score(child))
		}
		// Top up from the previous generation if children kept failing.
		for i := 0; len(next) < g.cfg.Population; i++ {
			next = append(next, population[i%len(population)])
		}
		sortByFitness(next)
		population = next
	}
	return inPositionOrder(population[0].squad), nil
}

func (g *Genetic) score(s squad.Squad) scored {
	return scored{squad: s, fitness: BestLineup(s).Score}
}

func sortByFitness(pop []scored) {
	sort.SliceStable(pop, func(i, j int) bool { return pop[i].fitness > pop[j].fitness })
}

// crossover unions both parents per position and samples each quota.
func (g *Genetic) crossover(a, b squad.Squad) (squad.Squad, bool) {
	rules := g.pool.Rules()
	child := make(squad.Squad, 0, rules.TotalPlayers)
	for _, pos := range players.Positions {
		quota := rules.PositionCap(pos)
		genes := uniqueAt(pos, a, b)
		if len(genes) >= quota {
			child = append(child, sampleN(g.rng, genes, quota)...)
			continue
		}
		child = append(child, genes...)
		var available []players.Player
		for _, p := range g.pool.Position(pos) {
			if !child.Contains(p.ID) {
				available = append(available, p)
			}
		}
		need := quota - len(genes)
		if len(available) < need {
			return nil, false
		}
		child = append(child, sampleN(g.rng, available, need)...)
	}
	return child, true
}

func uniqueAt(pos players.Position, parents ...squad.Squad) []players.Player {
	seen := make(map[int]struct{})
	var out []players.Player
	for _, parent := range parents {
		for _, p := range parent {
			if p.PositionName != pos {
				continue
			}
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// mutate swaps one of the weakest players for a random one at the same position.
func (g *Genetic) mutate(s squad.Squad) squad.Squad {
	if len(s) == 0 {
		return s
	}
	out := append(squad.Squad(nil), s...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].AIScore < out[j].AIScore })
	idx := g.rng.IntN(min(mutationWindow, len(out)))
	group := g.pool.Position(out[idx].PositionName)
	if len(group) == 0 {
		return out
	}
	for i := 0; i < mutationMaxAttempts; i++ {
		candidate := group[g.rng.IntN(len(group))]
		if !out.Contains(candidate.ID) {
			out[idx] = candidate
			return out
		}
	}
	return out
}

// repair swaps the worst value player for a cheaper one at the same position
// until the squad fits the budget, then rechecks every rule.
func (g *Genetic) repair(s squad.Squad) (squad.Squad, bool) {
	rules := g.pool.Rules()
	out := append(squad.Squad(nil), s...)
	for out.CostTenths() > rules.BudgetTenths() {
		sort.SliceStable(out, func(i, j int) bool { return valueOf(out[i]) < valueOf(out[j]) })
		worst := out[0]
		var cheaper []players.Player
		for _, p := range g.pool.Position(worst.PositionName) {
			if p.NowCost < worst.NowCost && !out.Contains(p.ID) {
				cheaper = append(cheaper, p)
			}
		}
		if len(cheaper) == 0 {
			return nil, false
		}
		out[0] = cheaper[g.rng.IntN(len(cheaper))]
	}
	out = inPositionOrder(out)
	return out, g.pool.legal(out)
}

func valueOf(p players.Player) float64 {
	cost := p.NowCost
	if cost <= 0 {
		cost = 1
	}
	return p.AIScore / float64(cost)
}

func inPositionOrder(s squad.Squad) squad.Squad {
	grouped := s.ByPosition()
	out := make(squad.Squad, 0, len(s))
	for _, pos := range players.Positions {
		out = append(out, grouped[pos]...)
	}
	return out
}
