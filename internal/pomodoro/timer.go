// Package pomodoro implements the focus timer: a work/break phase machine that
// counts down one second per tick and records each finished focus interval.
package pomodoro

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sadopc/matcha/internal/store"
)

type Phase int

const (
	PhaseWork Phase = iota
	PhaseBreak
)

func (p Phase) String() string {
	if p == PhaseBreak {
		return "break"
	}
	return "work"
}

// Event reports what a tick did to the phase machine.
type Event int

const (
	EventNone Event = iota
	EventBreakStarted
	EventWorkStarted
	EventCycleComplete
)

func (e Event) String() string {
	switch e {
	case EventBreakStarted:
		return "break started"
	case EventWorkStarted:
		return "work started"
	case EventCycleComplete:
		return "cycle complete"
	}
	return "none"
}

// Recorder persists completions and configuration. *store.Store satisfies it.
type Recorder interface {
	RecordPomodoro(at time.Time) (*store.PomodoroRecord, error)
	SavePomodoroSettings(ps store.PomodoroSettings) error
}

var BreakMessages = []string{
	"Time to stretch!",
	"Hydrate yourself.",
	"Take deep breaths.",
	"Rest your eyes.",
	"Grab a healthy snack.",
}

// BreakMessage picks a random encouragement for the break phase.
func BreakMessage() string {
	return BreakMessages[rand.IntN(len(BreakMessages))]
}

// Timer is not safe for concurrent use; callers serialize ticks.
type Timer struct {
	rec Recorder
	now func() time.Time

	cfg       Config
	phase     Phase
	session   int
	remaining int // seconds
	running   bool
}

// New returns a paused timer in the initial state. An invalid cfg is replaced
// by DefaultConfig.
func New(rec Recorder, cfg Config) *Timer {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	t := &Timer{rec: rec, now: time.Now, cfg: cfg}
	t.Reset()
	return t
}

// SetClock overrides the clock used to timestamp history records.
func (t *Timer) SetClock(now func() time.Time) {
	t.now = now
}

func (t *Timer) Config() Config { return t.cfg }
func (t *Timer) Phase() Phase   { return t.phase }
func (t *Timer) Session() int   { return t.session }
func (t *Timer) Running() bool  { return t.running }

func (t *Timer) RemainingSeconds() int { return t.remaining }

func (t *Timer) Remaining() time.Duration {
	if t.remaining < 0 {
		return 0
	}
	return time.Duration(t.remaining) * time.Second
}

// Toggle flips between running and paused and returns the new running state.
func (t *Timer) Toggle() bool {
	t.running = !t.running
	return t.running
}

func (t *Timer) Start() { t.running = true }
func (t *Timer) Pause() { t.running = false }

// Stop halts the countdown but keeps the session and remaining time.
func (t *Timer) Stop() { t.running = false }

// Reset stops the countdown and returns to session 1 of the work phase
// without recording anything.
func (t *Timer) Reset() {
	t.running = false
	t.phase = PhaseWork
	t.session = 1
	t.remaining = t.cfg.focusSeconds()
}

// Tick advances a running timer by one second. Remaining time is decremented
// before the expiry check, so a phase expires on the tick that takes it below
// zero.
//
// A failed history write is returned together with the event; the phase
// transition has already happened.
func (t *Timer) Tick() (Event, error) {
	if !t.running {
		return EventNone, nil
	}
	t.remaining--
	if t.remaining >= 0 {
		return EventNone, nil
	}

	if t.phase == PhaseBreak {
		t.session++
		t.phase = PhaseWork
		t.remaining = t.cfg.focusSeconds()
		return EventWorkStarted, nil
	}

	var err error
	if _, rerr := t.rec.RecordPomodoro(t.now()); rerr != nil {
		err = fmt.Errorf("record focus interval: %w", rerr)
	}
	if t.session < t.cfg.Sessions {
		t.phase = PhaseBreak
		t.remaining = t.cfg.breakSeconds()
		return EventBreakStarted, err
	}
	t.Reset()
	return EventCycleComplete, err
}

// Configure applies cfg when the timer is not running. It reports whether the
// change was applied; a change while running is ignored. A valid cfg is
// persisted before the timer resets to its initial state.
func (t *Timer) Configure(cfg Config) (bool, error) {
	if t.running {
		return false, nil
	}
	if err := cfg.Validate(); err != nil {
		return false, err
	}
	if err := t.rec.SavePomodoroSettings(cfg.Settings()); err != nil {
		return false, fmt.Errorf("configure timer: %w", err)
	}
	t.cfg = cfg
	t.Reset()
	return true, nil
}

// Progress returns completed focus intervals of the current cycle.
func (t *Timer) Progress() int {
	if t.phase == PhaseBreak {
		return t.session
	}
	return t.session - 1
}

// FormatRemaining renders the remaining time as MM:SS.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
