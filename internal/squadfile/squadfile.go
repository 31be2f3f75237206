// Package squadfile reads squads saved as YAML or JSON and replays them
// through the squad engine.
package squadfile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
)

// ErrNoPlayers is returned for a file that lists no player ids.
var ErrNoPlayers = errors.New("squad file lists no players")

// File is the on-disk squad shape. JSON parses as YAML, so one decoder
// handles both.
type File struct {
	Name    string `yaml:"name"`
	Players []int  `yaml:"players"`
}

// Issue records one id that could not join the squad.
type Issue struct {
	PlayerID int
	Kind     squad.Kind
	Message  string
}

// KindUnknownPlayer marks an id absent from the roster.
const KindUnknownPlayer squad.Kind = "unknown_player"

// Report is the outcome of replaying a file.
type Report struct {
	Name    string
	Squad   squad.Squad
	Issues  []Issue
	Metrics squad.Metrics
}

// Legal reports whether every id was accepted and the squad is complete.
func (r Report) Legal() bool {
	return len(r.Issues) == 0 && r.Metrics.Complete
}

// Load reads and parses path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read squad file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a squad file body.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse squad file: %w", err)
	}
	if len(f.Players) == 0 {
		return File{}, ErrNoPlayers
	}
	return f, nil
}

// Check adds each listed player in order, collecting rejections instead of
// stopping at the first one.
func Check(f File, pool []players.Player, rules squad.Rules) Report {
	byID := make(map[int]players.Player, len(pool))
	for _, p := range pool {
		byID[p.ID] = p
	}

	report := Report{Name: f.Name, Squad: squad.Squad{}}
	for _, id := range f.Players {
		p, ok := byID[id]
		if !ok {
			report.Issues = append(report.Issues, Issue{
				PlayerID: id,
				Kind:     KindUnknownPlayer,
				Message:  fmt.Sprintf("player %d not found", id),
			})
			continue
		}
		next, err := squad.TryAdd(report.Squad, p, rules)
		if err != nil {
			issue := Issue{PlayerID: id, Message: err.Error()}
			if rejection, ok := squad.AsRejection(err); ok {
				issue.Kind = rejection.Kind
			}
			report.Issues = append(report.Issues, issue)
			continue
		}
		report.Squad = next
	}
	report.Metrics = squad.DeriveMetrics(report.Squad, rules)
	return report
}
