package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/logging"
	"github.com/preston-bernstein/fpl-coach-service/internal/metrics"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers"
	"github.com/preston-bernstein/fpl-coach-service/internal/scoring"
	"github.com/preston-bernstein/fpl-coach-service/internal/timeutil"
)

const (
	defaultInterval = 15 * time.Minute
	failureBudget   = 3
)

// SnapshotWriter persists roster snapshots to disk.
type SnapshotWriter interface {
	WriteRosterSnapshot(date string, snapshot roster.Roster) error
}

// SnapshotSource loads the newest roster snapshot for cold starts.
type SnapshotSource interface {
	LatestRoster() (roster.Roster, string, error)
}

// RosterSink receives every refreshed roster.
type RosterSink interface {
	SetRoster(roster.Roster)
}

// Poller fetches the roster on an interval, scores it, swaps it into the
// sink and writes a dated snapshot.
type Poller struct {
	provider  providers.RosterProvider
	sink      RosterSink
	writer    SnapshotWriter
	snapshots SnapshotSource
	logger    *slog.Logger
	metrics   *metrics.Recorder
	interval  time.Duration
	now       func() time.Time

	refreshMu sync.Mutex

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	wg       sync.WaitGroup

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	Gameweek            int
	PlayerCount         int
	// SnapshotDate is set while serving a snapshot loaded on a failed cold start.
	SnapshotDate string
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < failureBudget
}

// HasData reports whether a roster is being served, live or from a snapshot.
func (s Status) HasData() bool {
	return !s.LastSuccess.IsZero() || s.SnapshotDate != ""
}

// New constructs a Poller with sane defaults. writer, logger and recorder may be nil.
func New(provider providers.RosterProvider, sink RosterSink, writer SnapshotWriter, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		provider: provider,
		sink:     sink,
		writer:   writer,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// WithSnapshotFallback makes a failed first fetch serve the newest snapshot.
func (p *Poller) WithSnapshotFallback(source SnapshotSource) *Poller {
	p.snapshots = source
	return p
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.logInfo("poller started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
		// Initial fetch to warm data on boot.
		_ = p.Refresh(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				p.logInfo("poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				p.logInfo("poller stopped")
				return
			case <-p.ticker.C:
				_ = p.Refresh(ctx)
			}
		}
	}()
}

// Stop halts the polling loop and waits for it to exit or ctx to expire.
func (p *Poller) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	exited := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(exited)
	}()
	select {
	case <-exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refresh runs one fetch cycle. Concurrent calls are serialised so the
// scheduler, admin endpoint and ticker never race on the sink.
func (p *Poller) Refresh(ctx context.Context) error {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	start := time.Now()
	p.recordAttempt(start)
	r, err := p.provider.FetchRoster(ctx)
	p.metrics.RecordPollerCycle(time.Since(start), err)
	if err != nil {
		p.logError("poller fetch failed", err, slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		p.recordFailure(err, start)
		p.warmFromSnapshot()
		return err
	}

	r.Players = scoring.Apply(r.Players)
	p.sink.SetRoster(r)

	if p.writer != nil {
		today := timeutil.UTCDate(p.now())
		if writeErr := p.writer.WriteRosterSnapshot(today, r); writeErr != nil {
			p.logError("poller snapshot write failed", writeErr)
		}
	}
	p.recordSuccess(start, r)
	p.logInfo("poller refreshed roster",
		logging.FieldCount, len(r.Players),
		logging.FieldGameweek, r.Gameweek,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return nil
}

// warmFromSnapshot loads the newest snapshot when nothing has been served yet.
func (p *Poller) warmFromSnapshot() {
	if p.snapshots == nil || p.Status().HasData() {
		return
	}
	r, date, err := p.snapshots.LatestRoster()
	if err != nil {
		p.logError("poller snapshot fallback failed", err)
		return
	}
	p.sink.SetRoster(r)

	p.statusMu.Lock()
	p.status.SnapshotDate = date
	p.status.Gameweek = r.Gameweek
	p.status.PlayerCount = len(r.Players)
	p.statusMu.Unlock()
	p.logInfo("poller serving snapshot", logging.FieldDate, date, logging.FieldCount, len(r.Players))
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) logInfo(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Poller) logError(msg string, err error, attrs ...any) {
	if p.logger != nil {
		p.logger.Error(msg, append(attrs, logging.FieldError, err)...)
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, r roster.Roster) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.SnapshotDate = ""
	p.status.Gameweek = r.Gameweek
	p.status.PlayerCount = len(r.Players)
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

// Provider exposes the underlying provider.
func (p *Poller) Provider() providers.RosterProvider {
	return p.provider
}
