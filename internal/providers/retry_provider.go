package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/logging"
	"github.com/preston-bernstein/fpl-coach-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	defaultMaxBackoff    = 10 * time.Second
)

// retryAfterBackOff stretches the next delay to an upstream Retry-After.
type retryAfterBackOff struct {
	backoff.BackOff
	next time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	d := b.BackOff.NextBackOff()
	if d == backoff.Stop {
		return d
	}
	if b.next > d {
		d = b.next
	}
	b.next = 0
	return d
}

type retrier struct {
	logger       *slog.Logger
	recorder     *metrics.Recorder
	providerName string
	maxAttempts  int
	initial      time.Duration
}

func newRetrier(logger *slog.Logger, recorder *metrics.Recorder, name string, maxAttempts int, initial time.Duration) retrier {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultBackoff
	}
	return retrier{
		logger:       logger,
		recorder:     recorder,
		providerName: name,
		maxAttempts:  maxAttempts,
		initial:      initial,
	}
}

func (r retrier) policy(ctx context.Context) (*retryAfterBackOff, backoff.BackOff) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.initial
	exp.MaxInterval = max(defaultMaxBackoff, r.initial)
	exp.MaxElapsedTime = 0
	exp.Reset()

	ra := &retryAfterBackOff{BackOff: backoff.WithMaxRetries(exp, uint64(r.maxAttempts-1))}
	return ra, backoff.WithContext(ra, ctx)
}

// do runs op until it succeeds, returns a permanent error, or attempts run out.
func do[T any](ctx context.Context, r retrier, op func(context.Context) (T, error)) (T, error) {
	ra, policy := r.policy(ctx)
	attempt := 0

	wrapped := func() (T, error) {
		attempt++
		start := time.Now()
		res, err := op(ctx)
		r.recorder.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return res, nil
		}
		if isPermanent(err) {
			return res, backoff.Permanent(err)
		}
		if rl, ok := AsRateLimitError(err); ok {
			r.recorder.RecordRateLimit(r.providerName, rl.RetryAfter)
			ra.next = rl.RetryAfter
		}
		return res, err
	}
	notify := func(err error, delay time.Duration) {
		r.logWarn(ctx, "provider fetch retry",
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"delay", delay,
			logging.FieldError, err,
		)
	}

	res, err := backoff.RetryNotifyWithData(wrapped, policy, notify)
	if err != nil {
		r.logWarn(ctx, "provider fetch failed", "attempts", attempt, logging.FieldError, err)
	}
	return res, err
}

func isPermanent(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, context.Canceled)
}

func (r retrier) logWarn(ctx context.Context, msg string, args ...any) {
	logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, msg, args...)
}

type retryingProvider struct {
	retrier
	inner RosterProvider
}

// NewRetryingProvider wraps inner with exponential backoff and jitter. Rate
// limit responses stretch the next delay to their Retry-After. Values <= 0
// select defaults.
func NewRetryingProvider(inner RosterProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string, maxAttempts int, initialBackoff time.Duration) RosterProvider {
	return &retryingProvider{
		retrier: newRetrier(logger, recorder, providerName, maxAttempts, initialBackoff),
		inner:   inner,
	}
}

func (r *retryingProvider) FetchRoster(ctx context.Context) (roster.Roster, error) {
	return do(ctx, r.retrier, r.inner.FetchRoster)
}

type retryingDetailProvider struct {
	retrier
	inner DetailProvider
}

// NewRetryingDetailProvider applies the same retry policy to detail lookups.
func NewRetryingDetailProvider(inner DetailProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string, maxAttempts int, initialBackoff time.Duration) DetailProvider {
	return &retryingDetailProvider{
		retrier: newRetrier(logger, recorder, providerName, maxAttempts, initialBackoff),
		inner:   inner,
	}
}

func (r *retryingDetailProvider) FetchPlayerDetail(ctx context.Context, player players.Player) (players.Detail, error) {
	return do(ctx, r.retrier, func(ctx context.Context) (players.Detail, error) {
		return r.inner.FetchPlayerDetail(ctx, player)
	})
}
