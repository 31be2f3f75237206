package store

import (
	"sync"
	"time"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/teams"
)

// MemoryStore keeps a thread-safe copy of the current roster in memory.
// Players keep the order the provider returned them in.
type MemoryStore struct {
	mu        sync.RWMutex
	players   []players.Player
	index     map[int]int
	teams     []teams.Team
	gameweek  int
	updatedAt time.Time
	now       func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[int]int),
		now:   time.Now,
	}
}

// ListPlayers returns a copy of the current players.
func (s *MemoryStore) ListPlayers() []players.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]players.Player(nil), s.players...)
}

// GetPlayer retrieves a player by id.
func (s *MemoryStore) GetPlayer(id int) (players.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return players.Player{}, false
	}
	return s.players[i], true
}

// ListTeams returns a copy of the current teams.
func (s *MemoryStore) ListTeams() []teams.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]teams.Team(nil), s.teams...)
}

// GetTeam retrieves a team by id.
func (s *MemoryStore) GetTeam(id int) (teams.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.teams {
		if t.ID == id {
			return t, true
		}
	}
	return teams.Team{}, false
}

// Gameweek returns the gameweek of the stored roster.
func (s *MemoryStore) Gameweek() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameweek
}

// UpdatedAt reports when SetRoster last ran; zero before the first load.
func (s *MemoryStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// SetRoster replaces the stored roster. Later duplicates of an id are dropped.
func (s *MemoryStore) SetRoster(r roster.Roster) {
	items := make([]players.Player, 0, len(r.Players))
	index := make(map[int]int, len(r.Players))
	for _, p := range r.Players {
		if _, dup := index[p.ID]; dup {
			continue
		}
		index[p.ID] = len(items)
		items = append(items, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = items
	s.index = index
	s.teams = append([]teams.Team(nil), r.Teams...)
	s.gameweek = r.Gameweek
	s.updatedAt = s.now()
}

// Roster returns the stored roster as one value.
func (s *MemoryStore) Roster() roster.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return roster.Roster{
		Gameweek: s.gameweek,
		Teams:    append([]teams.Team(nil), s.teams...),
		Players:  append([]players.Player(nil), s.players...),
	}
}
