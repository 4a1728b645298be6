package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/IshaanNene/sportscard/internal/config"
	"github.com/IshaanNene/sportscard/internal/types"
)

// Job is one scheduled unit of work. *Runner implements it.
type Job interface {
	Run(ctx context.Context, now time.Time) (*Report, error)
}

// Scheduler triggers a Job on a cron schedule. A run that is still going
// when the next one is due causes that next one to be skipped.
type Scheduler struct {
	cron     *cron.Cron
	entryID  cron.EntryID
	job      Job
	location *time.Location
	logger   *slog.Logger

	mu  sync.Mutex
	ctx context.Context
}

// NewScheduler creates a scheduler for cfg.Spec evaluated in cfg.Timezone.
func NewScheduler(cfg config.ScheduleConfig, job Job, logger *slog.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("job must not be nil")
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	logger = logger.With("component", "scheduler")
	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		job:      job,
		location: loc,
		logger:   logger,
		ctx:      context.Background(),
	}

	id, err := s.cron.AddFunc(cfg.Spec, s.tick)
	if err != nil {
		return nil, fmt.Errorf("add cron %q: %w", cfg.Spec, err)
	}
	s.entryID = id
	return s, nil
}

// Start begins cron execution. Runs receive ctx and stop early when it is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("scheduler started", "next_run", s.Next(), "timezone", s.location.String())
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Next returns the next scheduled run time.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// RunNow runs the job immediately, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context) (*Report, error) {
	return s.job.Run(ctx, time.Now().In(s.location))
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	report, err := s.RunNow(ctx)
	switch {
	case errors.Is(err, types.ErrNoDataCollected), errors.Is(err, types.ErrNoCaptions):
		s.logger.Error("run aborted", "error", err, "next_run", s.Next())
	case err != nil:
		s.logger.Error("run failed", "error", err, "next_run", s.Next())
	default:
		s.logger.Info("scheduled run finished", "posts", len(report.Posts), "dir", report.Dir, "next_run", s.Next())
	}
}

// cronLogger routes cron's logr-style logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
