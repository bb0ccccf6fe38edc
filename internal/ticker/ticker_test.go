package ticker

import (
	"sync/atomic"
	"testing"
	"time"
)

const interval = 20 * time.Millisecond

func newTestTicker(t *testing.T) *Ticker {
	t.Helper()
	tk, err := New(interval)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { tk.Shutdown() })
	return tk
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

// ============================================================
// Ticking
// ============================================================

func TestStartFires(t *testing.T) {
	tk := newTestTicker(t)
	var n atomic.Int32
	if err := tk.Start(func() { n.Add(1) }); err != nil {
		t.Fatal(err)
	}
	if !tk.Active() {
		t.Fatal("ticker should be active")
	}
	waitFor(t, func() bool { return n.Load() >= 3 })
}

func TestCancelStopsTicks(t *testing.T) {
	tk := newTestTicker(t)
	var n atomic.Int32
	tk.Start(func() { n.Add(1) })
	waitFor(t, func() bool { return n.Load() >= 1 })

	if err := tk.Cancel(); err != nil {
		t.Fatal(err)
	}
	if tk.Active() {
		t.Fatal("ticker should be inactive after cancel")
	}
	// Let a handler that was already running finish.
	time.Sleep(interval)
	after := n.Load()
	time.Sleep(5 * interval)
	if n.Load() != after {
		t.Fatalf("ticks fired after cancel: %d -> %d", after, n.Load())
	}
}

func TestRestartDropsOldGeneration(t *testing.T) {
	tk := newTestTicker(t)
	var old, fresh atomic.Int32
	tk.Start(func() { old.Add(1) })
	tk.Start(func() { fresh.Add(1) })

	waitFor(t, func() bool { return fresh.Load() >= 2 })
	before := old.Load()
	time.Sleep(3 * interval)
	if old.Load() != before {
		t.Fatal("stale handler fired after restart")
	}
}

func TestCancelFromHandler(t *testing.T) {
	tk := newTestTicker(t)
	var n atomic.Int32
	tk.Start(func() {
		n.Add(1)
		tk.Cancel()
	})
	waitFor(t, func() bool { return n.Load() == 1 })
	time.Sleep(5 * interval)
	if n.Load() != 1 {
		t.Fatalf("expected exactly one tick, got %d", n.Load())
	}
}

func TestHandlersDoNotOverlap(t *testing.T) {
	tk := newTestTicker(t)
	var inFlight, maxSeen, calls atomic.Int32
	tk.Start(func() {
		cur := inFlight.Add(1)
		if cur > maxSeen.Load() {
			maxSeen.Store(cur)
		}
		time.Sleep(3 * interval)
		inFlight.Add(-1)
		calls.Add(1)
	})
	waitFor(t, func() bool { return calls.Load() >= 2 })
	tk.Cancel()
	if maxSeen.Load() > 1 {
		t.Fatalf("handlers overlapped: %d in flight", maxSeen.Load())
	}
}

func TestCancelIdle(t *testing.T) {
	tk := newTestTicker(t)
	if err := tk.Cancel(); err != nil {
		t.Fatalf("cancel on idle ticker: %v", err)
	}
}
