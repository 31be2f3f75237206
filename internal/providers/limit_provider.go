package providers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
)

// limiter spaces calls at least interval apart.
type limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
	logger   *slog.Logger
	name     string
}

func newLimiter(name string, interval time.Duration, logger *slog.Logger) *limiter {
	if interval <= 0 {
		interval = time.Second
	}
	return &limiter{interval: interval, now: time.Now, logger: logger, name: name}
}

// wait blocks until the interval since the previous call has elapsed.
func (l *limiter) wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() {
		if delay := l.interval - l.now().Sub(l.last); delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				logWithProvider(ctx, l.logger, slog.LevelWarn, l.name, "rate-limited fetch canceled")
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	l.last = l.now()
	return nil
}

type rateLimitedProvider struct {
	next    RosterProvider
	limiter *limiter
}

// NewRateLimitedProvider returns a RosterProvider that spaces upstream calls
// at least interval apart.
func NewRateLimitedProvider(next RosterProvider, interval time.Duration, logger *slog.Logger) RosterProvider {
	return &rateLimitedProvider{next: next, limiter: newLimiter("rate-limited", interval, logger)}
}

func (p *rateLimitedProvider) FetchRoster(ctx context.Context) (roster.Roster, error) {
	if p == nil || p.next == nil {
		return roster.Roster{}, ErrProviderUnavailable
	}
	if err := p.limiter.wait(ctx); err != nil {
		return roster.Roster{}, err
	}
	return p.next.FetchRoster(ctx)
}

type rateLimitedDetailProvider struct {
	next    DetailProvider
	limiter *limiter
}

// NewRateLimitedDetailProvider spaces detail lookups at least interval apart.
func NewRateLimitedDetailProvider(next DetailProvider, interval time.Duration, logger *slog.Logger) DetailProvider {
	return &rateLimitedDetailProvider{next: next, limiter: newLimiter("rate-limited-detail", interval, logger)}
}

func (p *rateLimitedDetailProvider) FetchPlayerDetail(ctx context.Context, player players.Player) (players.Detail, error) {
	if p == nil || p.next == nil {
		return players.Detail{}, ErrProviderUnavailable
	}
	if err := p.limiter.wait(ctx); err != nil {
		return players.Detail{}, err
	}
	return p.next.FetchPlayerDetail(ctx, player)
}
