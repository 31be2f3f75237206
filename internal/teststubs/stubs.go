package teststubs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
)

// ErrSnapshotNotFound is returned by StubSnapshotStore for unknown dates.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// StubProvider is a test double for providers.RosterProvider.
type StubProvider struct {
	Roster roster.Roster
	Err    error
	Calls  atomic.Int32
	Notify chan struct{}
}

// FetchRoster returns the configured roster and error while tracking calls.
func (s *StubProvider) FetchRoster(ctx context.Context) (roster.Roster, error) {
	_ = ctx
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)
	return s.Roster, s.Err
}

// StubDetailProvider is a test double for providers.DetailProvider.
type StubDetailProvider struct {
	Detail players.Detail
	Err    error
	Calls  atomic.Int32
	Last   players.Player
	mu     sync.Mutex
}

// FetchPlayerDetail records the requested player and returns the configured detail.
func (s *StubDetailProvider) FetchPlayerDetail(ctx context.Context, player players.Player) (players.Detail, error) {
	_ = ctx
	s.mu.Lock()
	s.Last = player
	s.mu.Unlock()
	s.Calls.Add(1)
	return s.Detail, s.Err
}

// StubSnapshotStore is a test double for snapshots.Store.
type StubSnapshotStore struct {
	Rosters map[string]roster.Roster // keyed by date
	Latest  string
	LoadErr error
}

// LoadRoster returns the roster for date if present.
func (s *StubSnapshotStore) LoadRoster(date string) (roster.Roster, error) {
	if s.LoadErr != nil {
		return roster.Roster{}, s.LoadErr
	}
	r, ok := s.Rosters[date]
	if !ok {
		return roster.Roster{}, ErrSnapshotNotFound
	}
	return r, nil
}

// LatestRoster returns the roster stored under Latest.
func (s *StubSnapshotStore) LatestRoster() (roster.Roster, string, error) {
	if s.Latest == "" {
		return roster.Roster{}, "", ErrSnapshotNotFound
	}
	r, err := s.LoadRoster(s.Latest)
	return r, s.Latest, err
}

// StubSnapshotWriter is a test double for poller.SnapshotWriter.
type StubSnapshotWriter struct {
	mu      sync.Mutex
	Written map[string]roster.Roster // keyed by date
	Err     error
}

// WriteRosterSnapshot records the snapshot for verification in tests.
func (w *StubSnapshotWriter) WriteRosterSnapshot(date string, snapshot roster.Roster) error {
	if w.Err != nil {
		return w.Err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Written == nil {
		w.Written = make(map[string]roster.Roster)
	}
	w.Written[date] = snapshot
	return nil
}

// Count returns how many dates were written.
func (w *StubSnapshotWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Written)
}
