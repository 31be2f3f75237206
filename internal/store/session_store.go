package store

import (
	"sync"
	"time"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
)

type sessionEntry struct {
	squad   squad.Squad
	touched time.Time
	// seq orders touches that share a timestamp.
	seq uint64
}

// SessionStore holds squads by session id with the time each was last
// read or written. Callers serialise mutations of a single squad; the store
// only guards its map.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]sessionEntry
	now     func() time.Time
	seq     uint64
}

// NewSessionStore constructs an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]sessionEntry), now: time.Now}
}

// WithClock swaps the clock used to stamp access times.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	if now != nil {
		s.now = now
	}
	return s
}

// Get returns a copy of the squad stored under id and marks it touched.
func (s *SessionStore) Get(id string) (squad.Squad, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	entry.touched, entry.seq = s.now(), s.nextSeq()
	s.entries[id] = entry
	return append(squad.Squad{}, entry.squad...), true
}

// Put stores a copy of sq under id.
func (s *SessionStore) Put(id string, sq squad.Squad) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = sessionEntry{squad: append(squad.Squad{}, sq...), touched: s.now(), seq: s.nextSeq()}
}

func (s *SessionStore) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// Delete removes id and reports whether it existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// EvictIdle drops every session last touched before cutoff and returns how
// many were removed.
func (s *SessionStore) EvictIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, entry := range s.entries {
		if entry.touched.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// EvictOldest drops the least recently touched session.
func (s *SessionStore) EvictOldest() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		oldestID string
		oldest   uint64
		found    bool
	)
	for id, entry := range s.entries {
		if !found || entry.seq < oldest {
			oldestID, oldest, found = id, entry.seq, true
		}
	}
	if found {
		delete(s.entries, oldestID)
	}
	return oldestID, found
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
