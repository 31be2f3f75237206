package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type generatorStats struct {
	runs        int
	failures    int
	lastLatency time.Duration
}

// Recorder keeps in-memory counters and forwards to OpenTelemetry when
// Setup enabled it. A nil Recorder is a no-op.
type Recorder struct {
	mu         sync.Mutex
	stats      map[string]*providerStats
	rejections map[string]int
	generators map[string]*generatorStats
	otel       *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:      make(map[string]*providerStats),
		rejections: make(map[string]int),
		generators: make(map[string]*generatorStats),
		otel:       otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordSquadRejection counts a refused squad mutation by rejection kind.
func (r *Recorder) RecordSquadRejection(kind string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.rejections[kind]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRejection(kind)
	}
}

// RecordSquadGeneration tracks random/AI squad builds and analyses.
func (r *Recorder) RecordSquadGeneration(generator string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats, ok := r.generators[generator]
	if !ok {
		stats = &generatorStats{}
		r.generators[generator] = stats
	}
	stats.runs++
	stats.lastLatency = duration
	if err != nil {
		stats.failures++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordGeneration(generator, duration, err)
	}
}

// SquadRejections returns how many rejections of kind were recorded.
func (r *Recorder) SquadRejections(kind string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rejections[kind]
}

// GenerationRuns returns runs and failures recorded for generator.
func (r *Recorder) GenerationRuns(generator string) (runs, failures int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.generators[generator]; ok {
		return stats.runs, stats.failures
	}
	return 0, 0
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// Snapshot is a copy of the current stats for a provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[provider]
	if !ok {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks poller cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

// ensureStats expects r.mu held.
func (r *Recorder) ensureStats(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}
