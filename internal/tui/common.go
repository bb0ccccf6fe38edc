package tui

import (
	"strings"

	"github.com/sadopc/matcha/internal/journal"
)

// viewState represents the currently active view.
type viewState int

const (
	viewChat viewState = iota
	viewTasks
	viewFocus
	viewSummary
	viewSettings
)

var viewNames = []string{"Chat", "Tasks", "Focus", "Summary", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// chatTurnMsg carries the result of one assistant round trip.
type chatTurnMsg struct {
	turn *journal.Turn
	err  error
}

// focusTickMsg is one countdown second. Ticks whose gen does not match the
// focus view's current generation are dropped.
type focusTickMsg struct {
	gen int
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func progressBar(percent, width int) string {
	if width < 1 {
		return ""
	}
	percent = max(0, min(percent, 100))
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
