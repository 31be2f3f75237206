package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/teststubs"
)

func TestRateLimitedProviderSpacesCalls(t *testing.T) {
	inner := &teststubs.StubProvider{}
	rl := NewRateLimitedProvider(inner, 5*time.Millisecond, nil)

	start := time.Now()
	for i := 0; i < 2; i++ {
		if _, err := rl.FetchRoster(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Fatalf("expected second call to wait, elapsed %s", elapsed)
	}
	if inner.Calls.Load() != 2 {
		t.Fatalf("expected inner provider called twice, got %d", inner.Calls.Load())
	}
}

func TestRateLimitedProviderFirstCallIsImmediate(t *testing.T) {
	inner := &teststubs.StubProvider{}
	rl := NewRateLimitedProvider(inner, time.Hour, nil)

	done := make(chan error, 1)
	go func() {
		_, err := rl.FetchRoster(context.Background())
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("first call should not wait for the interval")
	}
}

func TestRateLimitedProviderRespectsCanceledContext(t *testing.T) {
	inner := &teststubs.StubProvider{}
	rl := NewRateLimitedProvider(inner, time.Minute, nil)
	if _, err := rl.FetchRoster(context.Background()); err != nil {
		t.Fatalf("expected first call to pass, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := rl.FetchRoster(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled error, got %v", err)
	}
	if inner.Calls.Load() != 1 {
		t.Fatalf("expected inner provider not called on canceled context")
	}
}

func TestRateLimitedProviderHandlesNilInner(t *testing.T) {
	var inner RosterProvider
	rl := NewRateLimitedProvider(inner, time.Millisecond, nil)

	if _, err := rl.FetchRoster(context.Background()); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}

	var detail DetailProvider
	dl := NewRateLimitedDetailProvider(detail, time.Millisecond, nil)
	if _, err := dl.FetchPlayerDetail(context.Background(), players.Player{}); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestRateLimitedProviderDefaultsInterval(t *testing.T) {
	rl := NewRateLimitedProvider(&teststubs.StubProvider{}, 0, nil).(*rateLimitedProvider)
	if rl.limiter.interval != time.Second {
		t.Fatalf("expected default interval 1s, got %s", rl.limiter.interval)
	}
}

func TestRateLimitedDetailProviderPassesPlayer(t *testing.T) {
	inner := &teststubs.StubDetailProvider{Detail: players.Detail{Name: "Haaland"}}
	dl := NewRateLimitedDetailProvider(inner, time.Millisecond, nil)
	d, err := dl.FetchPlayerDetail(context.Background(), players.Player{ID: 355})
	if err != nil || d.Name != "Haaland" || inner.Last.ID != 355 {
		t.Fatalf("unexpected result %+v err %v", d, err)
	}
}
