package players

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
)

// ErrInvalidSort is returned for sort keys the roster cannot be ordered by.
var ErrInvalidSort = errors.New("invalid sort key")

// Store defines the contract for reading and replacing the roster.
type Store interface {
	ListPlayers() []players.Player
	GetPlayer(id int) (players.Player, bool)
	SetRoster(roster.Roster)
	Gameweek() int
}

// Query narrows and orders the player list. Zero values mean "any".
type Query struct {
	Team     string
	Position string
	Search   string
	Sort     string
}

var sortKeys = map[string]func(players.Player) float64{
	"total_points": func(p players.Player) float64 { return float64(p.TotalPoints) },
	"now_cost":     func(p players.Player) float64 { return float64(p.NowCost) },
	"form":         func(p players.Player) float64 { return p.Form },
	"goals_scored": func(p players.Player) float64 { return float64(p.GoalsScored) },
	"assists":      func(p players.Player) float64 { return float64(p.Assists) },
	"ai_score":     func(p players.Player) float64 { return p.AIScore },
}

// SortKeys lists the accepted sort values.
func SortKeys() []string {
	keys := make([]string, 0, len(sortKeys))
	for k := range sortKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Service coordinates player operations using a Store.
type Service struct {
	store Store
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Players returns the current pool in provider order.
func (s *Service) Players() []players.Player {
	return s.store.ListPlayers()
}

// PlayerByID returns a single player if present.
func (s *Service) PlayerByID(id int) (players.Player, bool) {
	return s.store.GetPlayer(id)
}

// Gameweek returns the gameweek of the current roster.
func (s *Service) Gameweek() int {
	return s.store.Gameweek()
}

// ReplaceRoster swaps the in-memory roster with a new snapshot.
func (s *Service) ReplaceRoster(r roster.Roster) {
	s.store.SetRoster(r)
}

// Query filters by team and position, fuzzy matches web_name, then sorts
// descending by the sort key. Without a sort key, search results are ordered
// by match distance and everything else keeps provider order.
func (s *Service) Query(q Query) ([]players.Player, error) {
	var key func(players.Player) float64
	if q.Sort != "" {
		var ok bool
		if key, ok = sortKeys[strings.ToLower(q.Sort)]; !ok {
			return nil, ErrInvalidSort
		}
	}

	out := make([]players.Player, 0)
	for _, p := range s.store.ListPlayers() {
		if matchesTeam(p, q.Team) && matchesPosition(p, q.Position) {
			out = append(out, p)
		}
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		out = fuzzyFilter(out, search)
	}

	if key != nil {
		sort.SliceStable(out, func(i, j int) bool { return key(out[i]) > key(out[j]) })
	}
	return out, nil
}

func matchesTeam(p players.Player, team string) bool {
	team = strings.TrimSpace(team)
	if team == "" {
		return true
	}
	if id, err := strconv.Atoi(team); err == nil {
		return p.Team == id
	}
	return strings.EqualFold(team, p.TeamShortName) || strings.EqualFold(team, p.TeamName)
}

func matchesPosition(p players.Player, position string) bool {
	position = strings.TrimSpace(position)
	return position == "" || strings.EqualFold(position, string(p.PositionName))
}

// fuzzyFilter keeps players whose web_name contains the search letters in
// order, closest matches first.
func fuzzyFilter(items []players.Player, search string) []players.Player {
	names := make([]string, len(items))
	for i, p := range items {
		names[i] = p.WebName
	}
	ranks := fuzzy.RankFindNormalizedFold(search, names)
	sort.Stable(ranks)

	out := make([]players.Player, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, items[r.OriginalIndex])
	}
	return out
}
