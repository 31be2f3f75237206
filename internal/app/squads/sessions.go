package squads

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
	"github.com/preston-bernstein/fpl-coach-service/internal/metrics"
)

var (
	ErrSessionNotFound = errors.New("squad session not found")
	ErrPlayerNotFound  = errors.New("player not found")
)

// PlayerSource resolves player ids against the current roster.
type PlayerSource interface {
	ListPlayers() []players.Player
	GetPlayer(id int) (players.Player, bool)
}

// SessionStore persists squads by session id and tracks when each was last used.
type SessionStore interface {
	Get(id string) (squad.Squad, bool)
	Put(id string, s squad.Squad)
	Delete(id string) bool
	EvictIdle(cutoff time.Time) int
	EvictOldest() (string, bool)
	Len() int
}

// sweepEvery throttles the idle sweep that Create runs inline.
const sweepEvery = 10 * time.Minute

// Session is the wire shape of a drafting squad.
type Session struct {
	ID      string           `json:"id"`
	Players []players.Player `json:"players"`
	Metrics squad.Metrics    `json:"metrics"`
}

// Sessions owns server-side squads. Every mutation goes through the squad
// engine while holding mu, so adds and removes never interleave. Sessions
// idle longer than idleTTL are swept, and at most maxSessions are kept.
type Sessions struct {
	mu          sync.Mutex
	roster      PlayerSource
	store       SessionStore
	rules       squad.Rules
	metrics     *metrics.Recorder
	newID       func() string
	now         func() time.Time
	idleTTL     time.Duration
	maxSessions int
	lastSweep   time.Time
}

// NewSessions wires a session service. recorder may be nil.
func NewSessions(roster PlayerSource, store SessionStore, rules squad.Rules, recorder *metrics.Recorder) *Sessions {
	return &Sessions{
		roster:  roster,
		store:   store,
		rules:   rules,
		metrics: recorder,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// WithLimits sets the idle lifetime and the session cap. Zero disables either.
func (s *Sessions) WithLimits(idleTTL time.Duration, maxSessions int) *Sessions {
	s.idleTTL = idleTTL
	s.maxSessions = maxSessions
	return s
}

// Create starts an empty squad, evicting idle sessions and then the least
// recently used one when the cap is reached.
func (s *Sessions) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now := s.now(); now.Sub(s.lastSweep) >= sweepEvery {
		s.sweepLocked(now)
	}
	for s.maxSessions > 0 && s.store.Len() >= s.maxSessions {
		if _, ok := s.store.EvictOldest(); !ok {
			break
		}
	}

	id := s.newID()
	s.store.Put(id, squad.Squad{})
	return s.session(id, squad.Squad{})
}

// Sweep drops sessions idle for longer than the configured lifetime and
// returns how many went.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *Sessions) sweepLocked(now time.Time) int {
	s.lastSweep = now
	if s.idleTTL <= 0 {
		return 0
	}
	return s.store.EvictIdle(now.Add(-s.idleTTL))
}

// Get returns the squad stored under id.
func (s *Sessions) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.load(id)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s.session(id, current), nil
}

// Add appends playerID to the squad. A rejection leaves the stored squad
// untouched and is returned as a *squad.Rejection.
func (s *Sessions) Add(id string, playerID int) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.load(id)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	candidate, ok := s.roster.GetPlayer(playerID)
	if !ok {
		return Session{}, ErrPlayerNotFound
	}

	next, err := squad.TryAdd(current, candidate, s.rules)
	if err != nil {
		if rejection, ok := squad.AsRejection(err); ok {
			s.metrics.RecordSquadRejection(string(rejection.Kind))
		}
		return s.session(id, current), err
	}
	s.store.Put(id, next)
	return s.session(id, next), nil
}

// Remove drops playerID from the squad. Removing an absent player is a no-op.
func (s *Sessions) Remove(id string, playerID int) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.load(id)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	next := squad.Remove(current, playerID)
	s.store.Put(id, next)
	return s.session(id, next), nil
}

// Replace swaps the whole squad, e.g. with a generated one. The replacement
// must be legal; the stored squad is unchanged otherwise.
func (s *Sessions) Replace(id string, replacement squad.Squad) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Get(id); !ok {
		return Session{}, ErrSessionNotFound
	}
	if err := squad.Validate(replacement, s.rules); err != nil {
		if rejection, ok := squad.AsRejection(err); ok {
			s.metrics.RecordSquadRejection(string(rejection.Kind))
		}
		return Session{}, err
	}
	s.store.Put(id, replacement)
	return s.session(id, replacement), nil
}

// Delete discards the squad.
func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Delete(id) {
		return ErrSessionNotFound
	}
	return nil
}

// load reads a stored squad and re-prices it from the current roster, so
// metrics and budget checks follow price changes after a refresh. Players
// that left the roster keep their stored copy.
func (s *Sessions) load(id string) (squad.Squad, bool) {
	stored, ok := s.store.Get(id)
	if !ok {
		return nil, false
	}
	current := make(squad.Squad, len(stored))
	for i, p := range stored {
		if fresh, ok := s.roster.GetPlayer(p.ID); ok {
			p = fresh
		}
		current[i] = p
	}
	return current, true
}

func (s *Sessions) session(id string, sq squad.Squad) Session {
	items := []players.Player(sq)
	if items == nil {
		items = []players.Player{}
	}
	return Session{ID: id, Players: items, Metrics: squad.DeriveMetrics(sq, s.rules)}
}
