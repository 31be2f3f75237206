package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/preston-bernstein/fpl-coach-service/internal/logging"
)

// Refresher forces a roster refresh.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Pruner drops snapshots outside the retention window.
type Pruner interface {
	Prune() ([]string, error)
}

// Sweeper evicts idle drafting squads.
type Sweeper interface {
	Sweep() int
}

const jobTimeout = 2 * time.Minute

// Scheduler runs the daily roster refresh, idle squad sweep and snapshot
// prune at a fixed UTC hour.
type Scheduler struct {
	s         gocron.Scheduler
	job       gocron.Job
	refresher Refresher
	pruner    Pruner
	sweeper   Sweeper
	logger    *slog.Logger
	hourUTC   int
}

// New builds a scheduler. pruner and logger may be nil.
func New(refresher Refresher, pruner Pruner, hourUTC int, logger *slog.Logger) (*Scheduler, error) {
	if hourUTC < 0 || hourUTC > 23 {
		return nil, fmt.Errorf("snapshot daily hour %d out of range", hourUTC)
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{
		s:         s,
		refresher: refresher,
		pruner:    pruner,
		logger:    logger,
		hourUTC:   hourUTC,
	}, nil
}

// WithSweeper adds an idle-session sweep to the daily job.
func (s *Scheduler) WithSweeper(sw Sweeper) *Scheduler {
	s.sweeper = sw
	return s
}

// Start registers the daily job and starts the scheduler.
func (s *Scheduler) Start() error {
	job, err := s.s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(s.hourUTC), 0, 0))),
		gocron.NewTask(s.runDaily),
		gocron.WithName("daily-roster-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create daily refresh job: %w", err)
	}
	s.job = job
	s.s.Start()
	s.logInfo("scheduler started", "hour_utc", s.hourUTC)
	return nil
}

// NextRun reports when the daily job fires next.
func (s *Scheduler) NextRun() (time.Time, error) {
	if s.job == nil {
		return time.Time{}, fmt.Errorf("scheduler not started")
	}
	return s.job.NextRun()
}

// Stop shuts the scheduler down and waits for running jobs.
func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// RunNow executes the daily work synchronously.
func (s *Scheduler) RunNow(ctx context.Context) error {
	return s.daily(ctx)
}

func (s *Scheduler) runDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	_ = s.daily(ctx)
}

func (s *Scheduler) daily(ctx context.Context) error {
	refreshErr := s.refresher.Refresh(ctx)
	if refreshErr != nil {
		s.logError("daily roster refresh failed", refreshErr)
	}
	if s.sweeper != nil {
		s.logInfo("idle squads swept", logging.FieldCount, s.sweeper.Sweep())
	}
	if s.pruner == nil {
		return refreshErr
	}
	kept, err := s.pruner.Prune()
	if err != nil {
		s.logError("snapshot prune failed", err)
		if refreshErr == nil {
			return err
		}
		return refreshErr
	}
	s.logInfo("daily maintenance complete", logging.FieldCount, len(kept))
	return refreshErr
}

func (s *Scheduler) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Scheduler) logError(msg string, err error) {
	if s.logger != nil {
		s.logger.Error(msg, logging.FieldError, err)
	}
}
