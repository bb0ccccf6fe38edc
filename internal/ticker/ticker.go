// Package ticker runs a cancellable periodic task on a gocron scheduler.
package ticker

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Ticker fires a handler once per interval. Each Start begins a new
// generation; invocations queued by an earlier generation are dropped, so a
// cancelled or restarted run never calls its handler again.
type Ticker struct {
	sched    gocron.Scheduler
	interval time.Duration

	mu  sync.Mutex
	job gocron.Job
	gen uint64

	// run serializes handler invocations.
	run sync.Mutex
}

func New(interval time.Duration) (*Ticker, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	s.Start()
	return &Ticker{sched: s, interval: interval}, nil
}

// Start cancels any running task and schedules fn every interval.
func (t *Ticker) Start(fn func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.cancelLocked(); err != nil {
		return err
	}
	gen := t.gen
	job, err := t.sched.NewJob(
		gocron.DurationJob(t.interval),
		gocron.NewTask(func() { t.fire(gen, fn) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule tick: %w", err)
	}
	t.job = job
	return nil
}

// Cancel stops the current task. An invocation already past its generation
// check runs to completion; none is started for the cancelled generation
// afterwards. It may be called from inside the handler.
func (t *Ticker) Cancel() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelLocked()
}

func (t *Ticker) cancelLocked() error {
	t.gen++
	if t.job == nil {
		return nil
	}
	id := t.job.ID()
	t.job = nil
	if err := t.sched.RemoveJob(id); err != nil {
		return fmt.Errorf("remove tick job: %w", err)
	}
	return nil
}

// Active reports whether a task is scheduled.
func (t *Ticker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.job != nil
}

func (t *Ticker) fire(gen uint64, fn func()) {
	t.run.Lock()
	defer t.run.Unlock()

	t.mu.Lock()
	stale := gen != t.gen
	t.mu.Unlock()
	if stale {
		return
	}
	fn()
}

// Shutdown cancels the task and stops the scheduler.
func (t *Ticker) Shutdown() error {
	t.Cancel()
	return t.sched.Shutdown()
}
