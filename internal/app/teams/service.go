package teams

import (
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/teams"
)

// Store defines the contract for retrieving teams.
type Store interface {
	ListTeams() []teams.Team
	GetTeam(id int) (teams.Team, bool)
	Gameweek() int
}

// Bootstrap is the static reference data a client needs before drafting.
type Bootstrap struct {
	Teams     []teams.Team       `json:"teams"`
	Positions []players.Position `json:"positions"`
	Gameweek  int                `json:"gameweek"`
}

// Service coordinates team operations using a Store.
type Service struct {
	store Store
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Teams returns the current set of teams.
func (s *Service) Teams() []teams.Team {
	return s.store.ListTeams()
}

// TeamByID returns a single team if present.
func (s *Service) TeamByID(id int) (teams.Team, bool) {
	return s.store.GetTeam(id)
}

// Bootstrap bundles teams, positions and the current gameweek.
func (s *Service) Bootstrap() Bootstrap {
	positions := make([]players.Position, len(players.Positions))
	copy(positions, players.Positions)
	items := s.store.ListTeams()
	if items == nil {
		items = []teams.Team{}
	}
	return Bootstrap{
		Teams:     items,
		Positions: positions,
		Gameweek:  s.store.Gameweek(),
	}
}
