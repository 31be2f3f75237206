package squads

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/preston-bernstein/fpl-coach-service/internal/analysis"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
	"github.com/preston-bernstein/fpl-coach-service/internal/metrics"
	"github.com/preston-bernstein/fpl-coach-service/internal/optimizer"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers"
	"github.com/preston-bernstein/fpl-coach-service/internal/scoring"
)

// ErrRosterEmpty is returned while no roster has been loaded yet.
var ErrRosterEmpty = errors.New("roster not loaded")

// AISquad is the wire shape of an optimised squad.
type AISquad struct {
	Starting11      []players.Player `json:"starting_11"`
	Bench           []players.Player `json:"bench"`
	Formation       string           `json:"formation"`
	SquadValue      float64          `json:"squad_value"`
	RemainingBudget float64          `json:"remaining_budget"`
	TotalAIScore    float64          `json:"total_ai_score"`
}

// Generator builds random and optimised squads, reviews existing ones and
// loads player detail.
type Generator struct {
	roster  PlayerSource
	details providers.DetailProvider
	rules   squad.Rules
	genetic optimizer.GeneticConfig
	metrics *metrics.Recorder
	newRand func() *rand.Rand
}

// GeneratorOption customises a Generator.
type GeneratorOption func(*Generator)

// WithRandSource fixes the rng factory, for reproducible output.
func WithRandSource(fn func() *rand.Rand) GeneratorOption {
	return func(g *Generator) { g.newRand = fn }
}

// NewGenerator wires a Generator. details and recorder may be nil.
func NewGenerator(roster PlayerSource, details providers.DetailProvider, rules squad.Rules, cfg optimizer.GeneticConfig, recorder *metrics.Recorder, opts ...GeneratorOption) *Generator {
	g := &Generator{
		roster:  roster,
		details: details,
		rules:   rules,
		genetic: cfg,
		metrics: recorder,
		newRand: func() *rand.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RandomSquad returns a complete legal squad sampled from the roster.
func (g *Generator) RandomSquad(ctx context.Context) (sq squad.Squad, err error) {
	start := time.Now()
	defer func() { g.metrics.RecordSquadGeneration(metrics.GeneratorRandom, time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pool, err := g.pool()
	if err != nil {
		return nil, err
	}
	return pool.RandomSquad(g.newRand())
}

// AISquad runs the genetic search and lays the winner out as a lineup.
func (g *Generator) AISquad(ctx context.Context) (out AISquad, err error) {
	start := time.Now()
	defer func() { g.metrics.RecordSquadGeneration(metrics.GeneratorAI, time.Since(start), err) }()

	pool, err := g.pool()
	if err != nil {
		return AISquad{}, err
	}
	best, err := optimizer.NewGenetic(pool, g.genetic, g.newRand()).Run(ctx)
	if err != nil {
		return AISquad{}, err
	}

	lineup := optimizer.BestLineup(best)
	m := squad.DeriveMetrics(best, g.rules)
	total := 0.0
	for _, p := range lineup.Starting {
		total += p.AIScore
	}
	return AISquad{
		Starting11:      lineup.Starting,
		Bench:           lineup.Bench,
		Formation:       lineup.Formation.String(),
		SquadValue:      m.TotalCost,
		RemainingBudget: m.RemainingBudget,
		TotalAIScore:    scoring.Round2(total),
	}, nil
}

// Analyze reviews a client-supplied squad. Players are refreshed from the
// roster by id so stale client copies cannot skew costs or scores.
func (g *Generator) Analyze(ctx context.Context, submitted []players.Player) (report analysis.Report, err error) {
	start := time.Now()
	defer func() { g.metrics.RecordSquadGeneration(metrics.GeneratorReview, time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return analysis.Report{}, err
	}
	current := make(squad.Squad, 0, len(submitted))
	for _, p := range submitted {
		fresh, ok := g.roster.GetPlayer(p.ID)
		if !ok {
			return analysis.Report{}, fmt.Errorf("player %d: %w", p.ID, ErrPlayerNotFound)
		}
		current = append(current, fresh)
	}
	return analysis.Analyze(current, g.roster.ListPlayers(), g.rules)
}

// PlayerDetail loads extended statistics for one roster player.
func (g *Generator) PlayerDetail(ctx context.Context, id int) (players.Detail, error) {
	p, ok := g.roster.GetPlayer(id)
	if !ok {
		return players.Detail{}, ErrPlayerNotFound
	}
	if g.details == nil {
		return players.Detail{
			ID:           p.ID,
			DisplayName:  p.WebName,
			Name:         p.FullName(),
			PositionName: p.PositionName,
			Statistics:   []players.SeasonStatistics{},
			FormStats:    []players.GameStats{},
		}, nil
	}
	return g.details.FetchPlayerDetail(ctx, p)
}

func (g *Generator) pool() (*optimizer.Pool, error) {
	items := g.roster.ListPlayers()
	if len(items) == 0 {
		return nil, ErrRosterEmpty
	}
	return optimizer.NewPool(items, g.rules), nil
}
