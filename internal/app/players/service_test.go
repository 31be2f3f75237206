package players

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/store"
)

func newService() *Service {
	ms := store.NewMemoryStore()
	ms.SetRoster(roster.Roster{
		Gameweek: 9,
		Players: []players.Player{
			{ID: 1, WebName: "Salah", Team: 11, TeamName: "Liverpool", TeamShortName: "LIV", PositionName: players.PositionMidfielder, NowCost: 130, TotalPoints: 120, Form: 8.1, AIScore: 90},
			{ID: 2, WebName: "Saka", Team: 1, TeamName: "Arsenal", TeamShortName: "ARS", PositionName: players.PositionMidfielder, NowCost: 100, TotalPoints: 110, Form: 6.2, AIScore: 75},
			{ID: 3, WebName: "Haaland", Team: 13, TeamName: "Man City", TeamShortName: "MCI", PositionName: players.PositionForward, NowCost: 150, TotalPoints: 140, Form: 7.4, AIScore: 88},
			{ID: 4, WebName: "Raya", Team: 1, TeamName: "Arsenal", TeamShortName: "ARS", PositionName: players.PositionGoalkeeper, NowCost: 55, TotalPoints: 80, Form: 4.0, AIScore: 40},
			{ID: 5, WebName: "Sánchez", Team: 6, TeamName: "Chelsea", TeamShortName: "CHE", PositionName: players.PositionGoalkeeper, NowCost: 45, TotalPoints: 60, Form: 3.0, AIScore: 30},
		},
	})
	return NewService(ms)
}

func ids(items []players.Player) []int {
	out := make([]int, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestQueryWithoutParamsReturnsPool(t *testing.T) {
	svc := newService()
	got, err := svc.Query(Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5}, ids(got)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	if svc.Gameweek() != 9 {
		t.Fatalf("expected gameweek 9")
	}
}

func TestQueryFilters(t *testing.T) {
	svc := newService()
	cases := []struct {
		name  string
		query Query
		want  []int
	}{
		{"team by short name", Query{Team: "ars"}, []int{2, 4}},
		{"team by id", Query{Team: "13"}, []int{3}},
		{"team by name", Query{Team: "Chelsea"}, []int{5}},
		{"position", Query{Position: "gkp"}, []int{4, 5}},
		{"team and position", Query{Team: "ARS", Position: "MID"}, []int{2}},
		{"sort by cost", Query{Sort: "now_cost"}, []int{3, 1, 2, 4, 5}},
		{"sort by ai score", Query{Sort: "ai_score"}, []int{1, 3, 2, 4, 5}},
		{"search sorted", Query{Search: "sa", Sort: "total_points"}, []int{1, 2, 5}},
		{"search accent folded", Query{Search: "sanchez"}, []int{5}},
		{"no match", Query{Search: "zzz"}, []int{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Query(tc.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, ids(got)); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQueryRejectsUnknownSort(t *testing.T) {
	if _, err := newService().Query(Query{Sort: "height"}); !errors.Is(err, ErrInvalidSort) {
		t.Fatalf("expected ErrInvalidSort, got %v", err)
	}
}

func TestPlayerByIDAndReplace(t *testing.T) {
	svc := newService()
	if p, ok := svc.PlayerByID(3); !ok || p.WebName != "Haaland" {
		t.Fatalf("expected Haaland, got %+v", p)
	}
	svc.ReplaceRoster(roster.Roster{Players: []players.Player{{ID: 8}}})
	if _, ok := svc.PlayerByID(3); ok {
		t.Fatalf("expected replaced roster")
	}
	if len(svc.Players()) != 1 {
		t.Fatalf("expected one player after replace")
	}
}

func TestSortKeys(t *testing.T) {
	keys := SortKeys()
	if len(keys) != 6 || keys[0] != "ai_score" {
		t.Fatalf("unexpected sort keys %v", keys)
	}
}
