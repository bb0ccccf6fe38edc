package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/matcha/internal/analytics"
	"github.com/sadopc/matcha/internal/journal"
	"github.com/sadopc/matcha/internal/mood"
)

type summaryModel struct {
	journal *journal.Journal
	width   int
	height  int

	summary analytics.Summary
	loaded  bool

	chart barchart.Model
}

func newSummaryModel(j *journal.Journal) summaryModel {
	return summaryModel{
		journal: j,
		chart:   barchart.New(40, 10),
	}
}

func (s *summaryModel) setSize(w, h int) {
	s.width = w
	s.height = h
	if s.loaded {
		s.buildChart()
	}
}

type summaryDataMsg struct {
	summary analytics.Summary
}

// refresh recomputes the analytics on every visit.
func (s summaryModel) refresh() tea.Cmd {
	return func() tea.Msg {
		sum, err := s.journal.Summary()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Summary: %v", err), isError: true}
		}
		return summaryDataMsg{summary: sum}
	}
}

func (s summaryModel) update(msg tea.Msg) (summaryModel, tea.Cmd) {
	if msg, ok := msg.(summaryDataMsg); ok {
		s.summary = msg.summary
		s.loaded = true
		s.buildChart()
	}
	return s, nil
}

func (s *summaryModel) buildChart() {
	chartWidth := max(20, s.width/2-8)
	chartHeight := 10
	if s.height > 30 {
		chartHeight = 14
	}
	s.chart = barchart.New(chartWidth, chartHeight)

	recent := s.summary.Mood.Recent
	if len(recent) == 0 {
		return
	}
	// Oldest on the left.
	bars := make([]barchart.BarData, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		r := recent[i]
		values := []barchart.BarValue{{
			Name:  r.Label,
			Value: r.Score,
			Style: bandStyle(r.Score),
		}}
		bars = append(bars, barchart.BarData{
			Label:  truncate(r.Label, 10),
			Values: values,
		})
	}
	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s summaryModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Summary")
	if !s.loaded {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("Loading…")),
		)
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render("Recent moods"),
		"",
		s.renderChart(),
		"",
		s.renderRecent(),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		s.renderMood(),
		"",
		s.renderHabits(),
		"",
		s.renderWeekly(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(max(24, w/2-2)).Render(left),
		"  ",
		right,
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", body),
	)
}

func (s summaryModel) renderChart() string {
	if len(s.summary.Mood.Recent) == 0 {
		return mutedStyle.Render("No mood sessions yet. Chat with Sage to log one.")
	}
	return s.chart.View()
}

func (s summaryModel) renderRecent() string {
	var rows []string
	for _, r := range s.summary.Mood.Recent {
		emotions := truncate(strings.Join(r.Emotions, ", "), 28)
		rows = append(rows, fmt.Sprintf("%s %-10s %s",
			bandStyle(r.Score).Render(fmt.Sprintf("%4.1f", r.Score)),
			r.Label,
			mutedStyle.Render(emotions),
		))
	}
	return strings.Join(rows, "\n")
}

func (s summaryModel) renderMood() string {
	m := s.summary.Mood
	row := func(label, value string) string {
		return fmt.Sprintf("  %-14s %s", label, value)
	}
	current := m.Current
	if len(m.Recent) > 0 {
		current = bandStyle(m.Recent[0].Score).Render(current) +
			mutedStyle.Render(" "+mood.BandOf(m.Recent[0].Score).String())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render("Mood"),
		row("Current", current),
		row("7-day avg", highlightStyle.Render(m.WeekAverage)),
		row("30-day avg", highlightStyle.Render(m.MonthAverage)),
	)
}

func (s summaryModel) renderHabits() string {
	sum := s.summary
	return lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render("Habits"),
		fmt.Sprintf("  %-14s %s", "Streak",
			highlightStyle.Render(fmt.Sprintf("%d days", sum.Streak.Current))+
				mutedStyle.Render(fmt.Sprintf(" (best %d)", sum.Streak.Best))),
		fmt.Sprintf("  %-14s %s %s", "Water",
			highlightStyle.Render(progressBar(sum.Hydration.Percent(), 16)),
			mutedStyle.Render(fmt.Sprintf("%d/%d glasses", sum.Hydration.Today, sum.Hydration.Goal))),
		fmt.Sprintf("  %-14s %s %s", "Tasks",
			successStyle.Render(progressBar(sum.Tasks.Percent(), 16)),
			mutedStyle.Render(fmt.Sprintf("%d/%d done", sum.Tasks.Completed, sum.Tasks.Total))),
	)
}

func (s summaryModel) renderWeekly() string {
	wk := s.summary.Weekly
	return lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render("This week"),
		fmt.Sprintf("  %-14s %d", "Entries", wk.Entries),
		fmt.Sprintf("  %-14s %d", "Words", wk.Words),
		fmt.Sprintf("  %-14s %s", "Most active", wk.MostActive),
		fmt.Sprintf("  %-14s %s %s", "Pomodoros",
			accentStyle.Render(progressBar(wk.PomodoroPercent(), 16)),
			mutedStyle.Render(fmt.Sprintf("%d/%d (%d%%)", wk.Pomodoros, analytics.PomodoroGoal, wk.PomodoroPercent()))),
		fmt.Sprintf("  %-14s %s %s", "Tasks done",
			successStyle.Render(progressBar(wk.TaskPercent(), 16)),
			mutedStyle.Render(fmt.Sprintf("%d/%d (%d%%)", wk.TasksCompleted, analytics.TaskGoal, wk.TaskPercent()))),
	)
}
