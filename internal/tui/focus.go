package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/matcha/internal/journal"
	"github.com/sadopc/matcha/internal/pomodoro"
)

// focusModel drives the journal's pomodoro timer with one tea.Tick per second.
// Every start, pause, reset or stop bumps gen so that a tick already in
// flight is discarded when it arrives.
type focusModel struct {
	journal *journal.Journal
	width   int
	height  int

	gen      int
	breakMsg string
}

func newFocusModel(j *journal.Journal) focusModel {
	return focusModel{journal: j}
}

func (f *focusModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

func (f focusModel) timer() *pomodoro.Timer {
	return f.journal.Timer()
}

func (f focusModel) tick() tea.Cmd {
	gen := f.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return focusTickMsg{gen: gen}
	})
}

// stop halts the countdown when the view is left. Session and remaining time
// are kept.
func (f *focusModel) stop() {
	f.timer().Stop()
	f.gen++
}

func (f focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case focusTickMsg:
		if msg.gen != f.gen || !f.timer().Running() {
			return f, nil
		}
		return f.advance()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
			f.gen++
			if f.timer().Toggle() {
				return f, f.tick()
			}
			return f, nil
		case key.Matches(msg, keys.Reset):
			f.gen++
			f.timer().Reset()
			f.breakMsg = ""
			return f, func() tea.Msg {
				return statusMsg{text: "Focus timer reset"}
			}
		}
	}
	return f, nil
}

func (f focusModel) advance() (focusModel, tea.Cmd) {
	var cmds []tea.Cmd
	ev, err := f.journal.TickTimer()
	if err != nil {
		cmds = append(cmds, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Pomodoro history: %v", err), isError: true}
		})
	}

	switch ev {
	case pomodoro.EventBreakStarted:
		f.breakMsg = pomodoro.BreakMessage()
		cmds = append(cmds, func() tea.Msg {
			return statusMsg{text: "Break time! \a"}
		})
	case pomodoro.EventWorkStarted:
		f.breakMsg = ""
		cmds = append(cmds, func() tea.Msg {
			return statusMsg{text: "Back to focus"}
		})
	case pomodoro.EventCycleComplete:
		f.breakMsg = ""
		f.gen++
		cmds = append(cmds, func() tea.Msg {
			return statusMsg{text: "Focus cycle complete! \a"}
		})
	}
	if f.timer().Running() {
		cmds = append(cmds, f.tick())
	}
	return f, tea.Batch(cmds...)
}

func (f focusModel) view() string {
	w := f.width - 4
	t := f.timer()
	cfg := t.Config()

	title := titleStyle.Render("Focus Timer")

	style := timerStyle
	switch {
	case t.Running() && t.Phase() == pomodoro.PhaseBreak:
		style = timerRunningStyle.Foreground(colorSecondary)
	case t.Running():
		style = timerRunningStyle
	case t.Session() > 1 || t.RemainingSeconds() != cfg.FocusMinutes*60 || t.Phase() == pomodoro.PhaseBreak:
		style = timerPausedStyle
	}
	timeDisplay := style.Width(max(10, w-6)).Render(pomodoro.FormatRemaining(t.Remaining()))

	phaseLabel := accentStyle.Bold(true).Render("FOCUS")
	if t.Phase() == pomodoro.PhaseBreak {
		phaseLabel = successStyle.Bold(true).Render("BREAK")
	}
	if !t.Running() {
		phaseLabel += mutedStyle.Render("  paused")
	}

	lines := []string{
		title,
		"",
		timeDisplay,
		phaseLabel,
		mutedStyle.Render(fmt.Sprintf("Session %d of %d", t.Session(), cfg.Sessions)),
		"",
		f.renderProgress(),
	}
	if f.breakMsg != "" && t.Phase() == pomodoro.PhaseBreak {
		lines = append(lines, "", highlightStyle.Render(f.breakMsg))
	}

	settings := mutedStyle.Render(fmt.Sprintf("%d min focus · %d min break · %d sessions",
		cfg.FocusMinutes, cfg.BreakMinutes, cfg.Sessions))
	controls := mutedStyle.Render("space: start/pause  r: reset  5: settings")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center, lines...),
			"",
			settings,
			controls,
		),
	)
}

func (f focusModel) renderProgress() string {
	t := f.timer()
	total := t.Config().Sessions
	done := t.Progress()

	var parts []string
	for i := 0; i < total; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && t.Phase() == pomodoro.PhaseWork && t.Running():
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", done, total))
	return strings.Join(parts, " ") + counter
}
