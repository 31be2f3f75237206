package squads

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/squad"
	"github.com/preston-bernstein/fpl-coach-service/internal/metrics"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers/fixture"
	"github.com/preston-bernstein/fpl-coach-service/internal/scoring"
	"github.com/preston-bernstein/fpl-coach-service/internal/store"
)

func rosterStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	r := fixture.Roster(1)
	r.Players = scoring.Apply(r.Players)
	ms := store.NewMemoryStore()
	ms.SetRoster(r)
	return ms
}

func newSessions(t *testing.T) (*Sessions, *metrics.Recorder) {
	t.Helper()
	rec := metrics.NewRecorder()
	svc := NewSessions(rosterStore(t), store.NewSessionStore(), squad.DefaultRules(), rec)
	svc.newID = func() string { return "s1" }
	return svc, rec
}

func TestSessionLifecycle(t *testing.T) {
	svc, _ := newSessions(t)

	created := svc.Create()
	if created.ID != "s1" || len(created.Players) != 0 || created.Metrics.RemainingBudget != 100 {
		t.Fatalf("unexpected new session %+v", created)
	}

	added, err := svc.Add("s1", 1)
	if err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}
	if added.Metrics.Size != 1 || added.Players[0].ID != 1 {
		t.Fatalf("expected player 1 in squad, got %+v", added)
	}

	got, err := svc.Get("s1")
	if err != nil || got.Metrics.Size != 1 {
		t.Fatalf("expected stored squad, got %+v err=%v", got, err)
	}

	removed, err := svc.Remove("s1", 1)
	if err != nil || removed.Metrics.Size != 0 {
		t.Fatalf("expected empty squad after remove, got %+v err=%v", removed, err)
	}
	if _, err := svc.Remove("s1", 999); err != nil {
		t.Fatalf("removing absent player should be a no-op, got %v", err)
	}

	if err := svc.Delete("s1"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if _, err := svc.Get("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := svc.Delete("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestAddRejectionLeavesSquadUnchanged(t *testing.T) {
	svc, rec := newSessions(t)
	svc.Create()

	if _, err := svc.Add("s1", 1); err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}
	session, err := svc.Add("s1", 1)
	if !errors.Is(err, squad.ErrAlreadySelected) {
		t.Fatalf("expected already selected, got %v", err)
	}
	if session.Metrics.Size != 1 {
		t.Fatalf("expected squad unchanged, got size %d", session.Metrics.Size)
	}
	if rec.SquadRejections(string(squad.KindAlreadySelected)) != 1 {
		t.Fatalf("expected rejection to be recorded")
	}
}

func TestAddUnknownIDs(t *testing.T) {
	svc, _ := newSessions(t)
	if _, err := svc.Add("missing", 1); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	svc.Create()
	if _, err := svc.Add("s1", 100000); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestTeamCapThroughSessions(t *testing.T) {
	svc, _ := newSessions(t)
	svc.Create()

	// Fixture ids 1..15 all belong to the first club.
	for _, id := range []int{1, 3, 8} {
		if _, err := svc.Add("s1", id); err != nil {
			t.Fatalf("add %d: %v", id, err)
		}
	}
	if _, err := svc.Add("s1", 9); !errors.Is(err, squad.ErrTeamCapExceeded) {
		t.Fatalf("expected team cap rejection, got %v", err)
	}
}

func TestReplaceValidates(t *testing.T) {
	svc, _ := newSessions(t)
	svc.Create()

	gk := players.Player{ID: 1, Team: 1, PositionName: players.PositionGoalkeeper, NowCost: 40}
	illegal := squad.Squad{gk, gk}
	if _, err := svc.Replace("s1", illegal); !errors.Is(err, squad.ErrAlreadySelected) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
	if got, _ := svc.Get("s1"); got.Metrics.Size != 0 {
		t.Fatalf("expected squad unchanged")
	}

	session, err := svc.Replace("s1", squad.Squad{gk})
	if err != nil || session.Metrics.Size != 1 {
		t.Fatalf("expected replace to succeed, got %+v err=%v", session, err)
	}
	if _, err := svc.Replace("missing", squad.Squad{}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestConcurrentAddsNeverExceedCaps(t *testing.T) {
	svc, _ := newSessions(t)
	svc.Create()

	var wg sync.WaitGroup
	for id := 1; id <= 60; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, _ = svc.Add("s1", id)
		}(id)
	}
	wg.Wait()

	got, err := svc.Get("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := squad.Validate(got.Players, squad.DefaultRules()); err != nil {
		t.Fatalf("concurrent adds produced an illegal squad: %v", err)
	}
}

func TestSessionsSweepIdleSessions(t *testing.T) {
	clock := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	svc := NewSessions(rosterStore(t), store.NewSessionStore().WithClock(now), squad.DefaultRules(), nil).
		WithLimits(24*time.Hour, 0)
	svc.now = now
	next := 0
	svc.newID = func() string { next++; return fmt.Sprintf("s%d", next) }

	svc.Create() // s1, abandoned
	svc.Create() // s2, kept alive
	clock = clock.Add(20 * time.Hour)
	if _, err := svc.Add("s2", 1); err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}
	clock = clock.Add(5 * time.Hour)

	if n := svc.Sweep(); n != 1 {
		t.Fatalf("expected one idle session swept, got %d", n)
	}
	if _, err := svc.Get("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected idle session gone, got %v", err)
	}
	if got, err := svc.Get("s2"); err != nil || got.Metrics.Size != 1 {
		t.Fatalf("expected active session kept, got %+v err=%v", got, err)
	}
}

func TestSessionsCreateSweepsAndCaps(t *testing.T) {
	clock := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	sessions := store.NewSessionStore().WithClock(now)
	svc := NewSessions(rosterStore(t), sessions, squad.DefaultRules(), nil).WithLimits(time.Hour, 3)
	svc.now = now
	next := 0
	svc.newID = func() string { next++; return fmt.Sprintf("s%d", next) }

	for i := 0; i < 5; i++ {
		svc.Create()
		clock = clock.Add(time.Minute)
	}
	if sessions.Len() != 3 {
		t.Fatalf("expected cap of 3 sessions, got %d", sessions.Len())
	}
	if _, err := svc.Get("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected oldest session evicted at the cap")
	}

	clock = clock.Add(2 * time.Hour)
	svc.Create()
	if sessions.Len() != 1 {
		t.Fatalf("expected idle sessions swept on create, got %d", sessions.Len())
	}
}

func TestSessionsRepriceFromRoster(t *testing.T) {
	ms := rosterStore(t)
	svc := NewSessions(ms, store.NewSessionStore(), squad.DefaultRules(), nil)
	svc.newID = func() string { return "s1" }
	svc.Create()

	added, err := svc.Add("s1", 1)
	if err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}
	before := added.Players[0].NowCost

	r := fixture.Roster(1)
	r.Players = scoring.Apply(r.Players)
	r.Players[0].NowCost = before + 10
	ms.SetRoster(r)

	got, err := svc.Get("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Players[0].NowCost != before+10 {
		t.Fatalf("expected refreshed price %d, got %d", before+10, got.Players[0].NowCost)
	}
	want := float64(before+10) / 10
	if got.Metrics.TotalCost < want-1e-9 || got.Metrics.TotalCost > want+1e-9 {
		t.Fatalf("expected total cost %.1f, got %.1f", want, got.Metrics.TotalCost)
	}
}
