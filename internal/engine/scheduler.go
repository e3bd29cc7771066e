package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/notice-tracker/internal/metrics"
	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// Scheduler drives check passes at a fixed interval. Intervals measure start
// to start; a pass that outruns the interval causes the next tick to be
// skipped, never queued.
type Scheduler struct {
	cron          *cron.Cron
	engine        *Engine
	log           *slog.Logger
	skipFirstPass bool
	passEntryID   cron.EntryID
}

// SchedulerOption configures the Scheduler.
type SchedulerOption func(*Scheduler)

// WithSkipFirstPass suppresses the pass that otherwise fires as soon as the
// scheduler starts.
func WithSkipFirstPass(skip bool) SchedulerOption {
	return func(s *Scheduler) {
		s.skipFirstPass = skip
	}
}

// NewScheduler creates a Scheduler that runs a full check pass every
// interval.
func NewScheduler(
	eng *Engine,
	interval time.Duration,
	log *slog.Logger,
	opts ...SchedulerOption,
) (*Scheduler, error) {
	s := &Scheduler{
		engine: eng,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger{log}),
	))

	id, err := s.cron.AddFunc("@every "+interval.String(), s.runScheduledPass)
	if err != nil {
		return nil, err
	}
	s.passEntryID = id

	return s, nil
}

// Start begins running scheduled passes. Unless configured otherwise the
// first pass fires immediately instead of waiting a full interval.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	if !s.skipFirstPass {
		go s.runScheduledPass()
	}
	s.cron.Start()
	s.SyncNextRunTimestamp()
}

// Stop stops scheduling and returns a context that completes once any
// running pass has finished.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// SyncNextRunTimestamp publishes the next scheduled pass time as a gauge.
func (s *Scheduler) SyncNextRunTimestamp() {
	e := s.cron.Entry(s.passEntryID)
	if !e.Next.IsZero() {
		metrics.SchedulerNextPassTimestamp.Set(float64(e.Next.Unix()))
	}
}

func (s *Scheduler) runScheduledPass() {
	defer s.SyncNextRunTimestamp()

	if _, err := s.engine.RunPass(context.Background(), domain.TriggerScheduled); err != nil {
		if errors.Is(err, ErrPassInProgress) {
			s.log.Info("pass already running, skipping scheduled pass")
			return
		}
		s.log.Error("scheduled pass failed", "error", err)
	}
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	log *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Info(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error(msg, append(keysAndValues, "error", err)...)
}
