package scheduler

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/service"
	"github.com/mevent/event-manager/backend/pkg/logger/types"
)

const (
	DefaultInterval    = 5 * time.Minute
	DefaultStopTimeout = 5 * time.Second
)

type reminderEngine interface {
	RunPass(ctx context.Context, asOf time.Time, opts service.PassOptions) (service.PassSummary, error)
}

type Options struct {
	Interval    time.Duration
	StopTimeout time.Duration
}

// ReminderScheduler runs a delivery pass right away and then once per interval
// until stopped.
type ReminderScheduler struct {
	engine      reminderEngine
	logger      *types.Logger
	interval    time.Duration
	stopTimeout time.Duration
	now         func() time.Time

	// running stays true until the loop goroutine has returned; stopping is set
	// once Stop has closed stop.
	mu       sync.Mutex
	running  bool
	stopping bool
	stop     chan struct{}
	done     chan struct{}
}

func NewReminderScheduler(logger *types.Logger, engine reminderEngine, opts Options) *ReminderScheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = DefaultStopTimeout
	}
	return &ReminderScheduler{
		engine:      engine,
		logger:      logger,
		interval:    opts.Interval,
		stopTimeout: opts.StopTimeout,
		now:         time.Now,
	}
}

// Start launches the loop. It does nothing when the loop is already running,
// including a stopped loop whose last pass has not finished yet.
func (s *ReminderScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		if s.stopping {
			s.logger.Warn("Reminder scheduler is still finishing its last pass, not starting")
		} else {
			s.logger.Debug("Reminder scheduler is already running")
		}
		return
	}

	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
	s.logger.Infof("Reminder scheduler started (interval=%s)", s.interval)
}

// Stop asks the loop to exit after the pass in progress, if any, and waits for
// it at most the stop timeout. It reports whether the loop exited in time.
func (s *ReminderScheduler) Stop() bool {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return true
	}
	if !s.stopping {
		s.stopping = true
		close(s.stop)
	}
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
		s.logger.Info("Reminder scheduler stopped")
		return true
	case <-time.After(s.stopTimeout):
		s.logger.Warnf("Reminder scheduler did not stop within %s, leaving the current pass to finish", s.stopTimeout)
		return false
	}
}

func (s *ReminderScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && !s.stopping
}

func (s *ReminderScheduler) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer func() {
		s.mu.Lock()
		s.running = false
		s.stopping = false
		s.mu.Unlock()
	}()

	s.runOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *ReminderScheduler) runOnce() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("panic in reminder pass: %v\n%s", r, debug.Stack())
		}
	}()

	summary, err := s.engine.RunPass(context.Background(), s.now(), service.PassOptions{})
	if err != nil {
		s.logger.Errorf("Reminder pass failed: %v", err)
		return
	}
	if summary.Selected > 0 {
		s.logger.Infof("Reminder pass: selected=%d sent=%d failed=%d skipped=%d",
			summary.Selected, summary.Delivered, summary.Failed, summary.Skipped)
	}
}
