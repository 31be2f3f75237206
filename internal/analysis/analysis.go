// Package analysis reviews a user squad against the roster and suggests
// captaincy, transfers and chips.
package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
	"github.com/preston-bernstein/fpl-coach-service/internal/optimizer"
	"github.com/preston-bernstein/fpl-coach-service/internal/scoring"
)

const (
	maxSuggestions = 5

	// doubleSearchWidth caps how many single transfers are paired up.
	doubleSearchWidth = 50

	wildcardGainThreshold    = 60.0
	tripleCaptainScore       = 70.0
	tripleCaptainDifficulty  = 2
	benchBoostAverageScore   = 50.0
	benchBoostMaxDifficulty  = 2.5
	unknownFixtureDifficulty = 3
)

// Chip names.
const (
	ChipWildcard      = "wildcard"
	ChipTripleCaptain = "triple_captain"
	ChipBenchBoost    = "bench_boost"
)

var (
	// ErrEmptySquad is returned when there is nothing to analyse.
	ErrEmptySquad = errors.New("squad is empty")
	// ErrIncompleteSquad is returned for a legal squad short of the full quota.
	ErrIncompleteSquad = errors.New("squad is incomplete")
)

// Transfer swaps one squad player for a roster player at the same position.
type Transfer struct {
	PlayerOut players.Player `json:"player_out"`
	PlayerIn  players.Player `json:"player_in"`
	ScoreGain float64        `json:"score_gain"`
}

// DoubleTransfer is two transfers applied in order.
type DoubleTransfer struct {
	Transfers []Transfer `json:"transfers"`
	TotalGain float64    `json:"total_gain"`
}

// Chip is a suggested chip with a short reason.
type Chip struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Report is the analyze-squad response body.
type Report struct {
	CaptainSuggestion        players.Player  `json:"captain_suggestion"`
	ViceCaptainSuggestion    *players.Player `json:"vice_captain_suggestion"`
	SuggestedTransfers       []Transfer      `json:"suggested_transfers"`
	DoubleTransferSuggestion *DoubleTransfer `json:"double_transfer_suggestion,omitempty"`
	ChipSuggestion           *Chip           `json:"chip_suggestion,omitempty"`
}

// Analyze reviews s against pool. s must be legal and complete under rules;
// every suggested transfer is checked by applying it through the squad engine.
func Analyze(s squad.Squad, pool []players.Player, rules squad.Rules) (Report, error) {
	if len(s) == 0 {
		return Report{}, ErrEmptySquad
	}
	if err := squad.Validate(s, rules); err != nil {
		return Report{}, err
	}
	if !squad.IsComplete(s, rules) {
		return Report{}, fmt.Errorf("%d of %d players: %w", len(s), rules.TotalPlayers, ErrIncompleteSquad)
	}

	ranked := rankByScore(s)
	report := Report{
		CaptainSuggestion:  ranked[0],
		SuggestedTransfers: []Transfer{},
	}
	if len(ranked) > 1 {
		vice := ranked[1]
		report.ViceCaptainSuggestion = &vice
	}

	candidates := legalTransfers(s, pool, rules)
	report.SuggestedTransfers = pickUnique(candidates, maxSuggestions)
	report.DoubleTransferSuggestion = bestDouble(s, candidates, rules)
	report.ChipSuggestion = suggestChip(s, report)
	return report, nil
}

func rankByScore(s squad.Squad) []players.Player {
	ranked := append([]players.Player(nil), s...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].AIScore > ranked[j].AIScore })
	return ranked
}

// legalTransfers lists every positive-gain swap that the engine accepts,
// best first.
func legalTransfers(s squad.Squad, pool []players.Player, rules squad.Rules) []Transfer {
	var out []Transfer
	for _, playerOut := range s {
		without := squad.Remove(s, playerOut.ID)
		for _, playerIn := range pool {
			if playerIn.PositionName != playerOut.PositionName || s.Contains(playerIn.ID) {
				continue
			}
			gain := playerIn.AIScore - playerOut.AIScore
			if gain <= 0 {
				continue
			}
			if _, err := squad.TryAdd(without, playerIn, rules); err != nil {
				continue
			}
			out = append(out, Transfer{PlayerOut: playerOut, PlayerIn: playerIn, ScoreGain: scoring.Round2(gain)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ScoreGain != out[j].ScoreGain {
			return out[i].ScoreGain > out[j].ScoreGain
		}
		if out[i].PlayerOut.ID != out[j].PlayerOut.ID {
			return out[i].PlayerOut.ID < out[j].PlayerOut.ID
		}
		return out[i].PlayerIn.ID < out[j].PlayerIn.ID
	})
	return out
}

// pickUnique takes the best transfers greedily, using each player at most once.
func pickUnique(candidates []Transfer, limit int) []Transfer {
	used := make(map[int]struct{})
	out := make([]Transfer, 0, limit)
	for _, t := range candidates {
		if len(out) >= limit {
			break
		}
		if _, ok := used[t.PlayerOut.ID]; ok {
			continue
		}
		if _, ok := used[t.PlayerIn.ID]; ok {
			continue
		}
		used[t.PlayerOut.ID] = struct{}{}
		used[t.PlayerIn.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

// bestDouble finds the highest combined gain pair that stays legal when
// applied one after the other.
func bestDouble(s squad.Squad, candidates []Transfer, rules squad.Rules) *DoubleTransfer {
	top := candidates[:min(len(candidates), doubleSearchWidth)]
	var best *DoubleTransfer
	for i, first := range top {
		afterFirst, err := apply(s, first, rules)
		if err != nil {
			continue
		}
		for _, second := range top[i+1:] {
			if sharesPlayer(first, second) {
				continue
			}
			total := scoring.Round2(first.ScoreGain + second.ScoreGain)
			if best != nil && total <= best.TotalGain {
				continue
			}
			if _, err := apply(afterFirst, second, rules); err != nil {
				continue
			}
			best = &DoubleTransfer{Transfers: []Transfer{first, second}, TotalGain: total}
		}
	}
	return best
}

func apply(s squad.Squad, t Transfer, rules squad.Rules) (squad.Squad, error) {
	if !s.Contains(t.PlayerOut.ID) {
		return s, fmt.Errorf("player %d not in squad", t.PlayerOut.ID)
	}
	return squad.TryAdd(squad.Remove(s, t.PlayerOut.ID), t.PlayerIn, rules)
}

func sharesPlayer(a, b Transfer) bool {
	return a.PlayerOut.ID == b.PlayerOut.ID ||
		a.PlayerIn.ID == b.PlayerIn.ID ||
		a.PlayerOut.ID == b.PlayerIn.ID ||
		a.PlayerIn.ID == b.PlayerOut.ID
}

func suggestChip(s squad.Squad, report Report) *Chip {
	gains := 0.0
	for _, t := range report.SuggestedTransfers {
		gains += t.ScoreGain
	}
	if gains >= wildcardGainThreshold {
		return &Chip{
			Name:   ChipWildcard,
			Reason: fmt.Sprintf("The top transfers would add %.1f points of AI score.", gains),
		}
	}

	captain := report.CaptainSuggestion
	if captain.AIScore >= tripleCaptainScore && nextDifficulty(captain) <= tripleCaptainDifficulty {
		return &Chip{
			Name:   ChipTripleCaptain,
			Reason: fmt.Sprintf("%s is in top form with an easy next fixture.", captain.WebName),
		}
	}

	bench := optimizer.BestLineup(s).Bench
	if len(bench) == 0 {
		return nil
	}
	score, difficulty := 0.0, 0
	for _, p := range bench {
		score += p.AIScore
		difficulty += nextDifficulty(p)
	}
	avgScore := score / float64(len(bench))
	avgDifficulty := float64(difficulty) / float64(len(bench))
	if avgScore >= benchBoostAverageScore && avgDifficulty <= benchBoostMaxDifficulty {
		return &Chip{
			Name:   ChipBenchBoost,
			Reason: fmt.Sprintf("Your bench averages %.1f AI score with kind fixtures.", avgScore),
		}
	}
	return nil
}

func nextDifficulty(p players.Player) int {
	if f, ok := p.NextFixture(); ok {
		return f.Difficulty
	}
	return unknownFixtureDifficulty
}
