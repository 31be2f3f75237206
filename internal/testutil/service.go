package testutil

import (
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers/fixture"
	"github.com/preston-bernstein/fpl-coach-service/internal/scoring"
	"github.com/preston-bernstein/fpl-coach-service/internal/store"
)

// NewStoreWithRoster builds an in-memory store preloaded with r.
func NewStoreWithRoster(r roster.Roster) *store.MemoryStore {
	ms := store.NewMemoryStore()
	if !r.Empty() || len(r.Teams) > 0 {
		ms.SetRoster(r)
	}
	return ms
}

// ScoredFixtureRoster returns the offline fixture roster with ai scores applied.
func ScoredFixtureRoster() roster.Roster {
	r := fixture.Roster(1)
	r.Players = scoring.Apply(r.Players)
	return r
}

// NewFixtureStore returns a store loaded with ScoredFixtureRoster.
func NewFixtureStore() *store.MemoryStore {
	return NewStoreWithRoster(ScoredFixtureRoster())
}
