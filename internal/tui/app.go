package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/matcha/internal/export"
	"github.com/sadopc/matcha/internal/journal"
	"github.com/sadopc/matcha/internal/pomodoro"
)

// App is the root Bubble Tea model.
type App struct {
	journal *journal.Journal
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	chat     chatModel
	tasks    tasksModel
	focus    focusModel
	summary  summaryModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(j *journal.Journal) App {
	h := help.New()
	h.ShowAll = false

	return App{
		journal:    j,
		activeView: viewChat,
		chat:       newChatModel(j),
		tasks:      newTasksModel(j),
		focus:      newFocusModel(j),
		summary:    newSummaryModel(j),
		settings:   newSettingsModel(j),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.chat.refresh(),
		textinput.Blink,
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.chat.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.focus.setSize(a.width, contentHeight)
		a.summary.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQ) {
			return a, tea.Quit
		}
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewChat)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewTasks)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewFocus)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewSummary)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	// Results that arrive after the user has moved on still go to their owner.
	case chatDataMsg, chatTurnMsg, spinner.TickMsg:
		var cmd tea.Cmd
		a.chat, cmd = a.chat.update(msg)
		return a, cmd

	case tasksDataMsg:
		var cmd tea.Cmd
		a.tasks, cmd = a.tasks.update(msg)
		return a, cmd

	case focusTickMsg:
		var cmd tea.Cmd
		a.focus, cmd = a.focus.update(msg)
		return a, cmd

	case summaryDataMsg:
		var cmd tea.Cmd
		a.summary, cmd = a.summary.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// switchTo changes the active view. Leaving the focus view stops the countdown
// without recording anything; every view reloads its data on entry.
func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	if a.activeView == viewFocus && v != viewFocus {
		a.focus.stop()
	}
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewChat:
		a.chat, cmd = a.chat.update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewFocus:
		a.focus, cmd = a.focus.update(msg)
	case viewSummary:
		a.summary, cmd = a.summary.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewChat:
		return a.chat.composing()
	case viewTasks:
		return a.tasks.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewChat:
		return a.chat.refresh()
	case viewTasks:
		return a.tasks.refresh()
	case viewSummary:
		return a.summary.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewChat:
		content = a.chat.view()
	case viewTasks:
		content = a.tasks.view()
	case viewFocus:
		content = a.focus.view()
	case viewSummary:
		content = a.summary.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(1, a.height-headerHeight-footerHeight)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorSuccess).Render("matcha")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	timerInfo := ""
	if t := a.journal.Timer(); t.Running() {
		remaining := pomodoro.FormatRemaining(t.Remaining())
		if t.Phase() == pomodoro.PhaseBreak {
			timerInfo = highlightStyle.Render(" ☕ " + remaining)
		} else {
			timerInfo = successStyle.Render(" ● " + remaining)
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []export.Format{export.FormatCSV, export.FormatJSON}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		label := "CSV (mood sessions)"
		if f == export.FormatJSON {
			label = "JSON (everything)"
		}
		rows = append(rows, style.Render(cursor+label))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(f export.Format) tea.Cmd {
	s := a.journal.Store()
	return func() tea.Msg {
		d, err := export.Collect(s)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		path := export.DefaultPath(f, time.Now())
		if err := export.Write(d, f, path); err != nil {
			return statusMsg{text: fmt.Sprintf("%s export error: %v", f, err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
