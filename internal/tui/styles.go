package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/matcha/internal/mood"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorSecondary = lipgloss.Color("#2EC4B6")
	colorAccent    = lipgloss.Color("#FF6B6B")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorBg        = lipgloss.Color("#1A1B26")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// Mood band colours, worst to best.
var bandColors = map[mood.Band]lipgloss.Color{
	mood.BandDistress:  lipgloss.Color("#E74C3C"),
	mood.BandLow:       lipgloss.Color("#E67E22"),
	mood.BandMixed:     lipgloss.Color("#F1C40F"),
	mood.BandGood:      lipgloss.Color("#2EC4B6"),
	mood.BandGreat:     lipgloss.Color("#2ECC71"),
	mood.BandExcellent: lipgloss.Color("#6C63FF"),
}

func bandStyle(score float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(bandColors[mood.BandOf(score)])
}

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Timer
	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Align(lipgloss.Center)

	timerRunningStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorSuccess).
				Align(lipgloss.Center)

	timerPausedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWarning).
				Align(lipgloss.Center)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// Status
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Chat
	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary)

	aiLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)
