package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/matcha/internal/journal"
	"github.com/sadopc/matcha/internal/pomodoro"
	"github.com/sadopc/matcha/internal/store"
)

type settingsModel struct {
	journal *journal.Journal
	width   int
	height  int

	settings []store.Setting

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	sessions *int
	focus    *int
	rest     *int
}

func newSettingsModel(j *journal.Journal) settingsModel {
	cfg := pomodoro.DefaultConfig()
	return settingsModel{
		journal:  j,
		sessions: &cfg.Sessions,
		focus:    &cfg.FocusMinutes,
		rest:     &cfg.BreakMinutes,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.journal.Store().GetAllSettings()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load settings: %v", err), isError: true}
		}
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func intOptions(values []int, unit string) []huh.Option[int] {
	opts := make([]huh.Option[int], len(values))
	for i, v := range values {
		label := strconv.Itoa(v)
		if unit != "" {
			label += " " + unit
		}
		opts[i] = huh.NewOption(label, v)
	}
	return opts
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cfg := s.journal.Timer().Config()
	*s.sessions = cfg.Sessions
	*s.focus = cfg.FocusMinutes
	*s.rest = cfg.BreakMinutes

	sessions := make([]int, 0, pomodoro.MaxSessions)
	for n := pomodoro.MinSessions; n <= pomodoro.MaxSessions; n++ {
		sessions = append(sessions, n)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().Title("Sessions per cycle").
				Options(intOptions(sessions, "")...).Value(s.sessions),
			huh.NewSelect[int]().Title("Focus length").
				Options(intOptions(pomodoro.FocusChoices, "min")...).Value(s.focus),
			huh.NewSelect[int]().Title("Break length").
				Options(intOptions(pomodoro.BreakChoices, "min")...).Value(s.rest),
		).Title("Focus timer"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		status := s.apply()
		return s, tea.Batch(s.refresh(), func() tea.Msg { return status })
	}

	return s, cmd
}

func (s settingsModel) apply() statusMsg {
	cfg := pomodoro.Config{
		Sessions:     *s.sessions,
		FocusMinutes: *s.focus,
		BreakMinutes: *s.rest,
	}
	applied, err := s.journal.ConfigureTimer(cfg)
	switch {
	case err != nil:
		return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
	case !applied:
		return statusMsg{text: "Timer is running; settings unchanged"}
	}
	return statusMsg{text: "Timer settings saved"}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	cfg := s.journal.Timer().Config()
	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(24).Render(label), highlightStyle.Render(value))
	}

	rows := []string{
		title,
		"",
		subtitleStyle.Render("Focus timer"),
		row("Sessions per cycle", strconv.Itoa(cfg.Sessions)),
		row("Focus length", fmt.Sprintf("%d min", cfg.FocusMinutes)),
		row("Break length", fmt.Sprintf("%d min", cfg.BreakMinutes)),
	}

	if len(s.settings) > 0 {
		rows = append(rows, "", subtitleStyle.Render("Stored records"))
		for _, setting := range s.settings {
			rows = append(rows, row(setting.Key, truncate(setting.Value, max(10, w-34))))
		}
	}

	assistant := "configured"
	if !s.journal.HasAssistant() {
		assistant = "not configured (set GROQ_API_KEY)"
	}
	rows = append(rows, "", row("Assistant", assistant))

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit the focus timer"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
