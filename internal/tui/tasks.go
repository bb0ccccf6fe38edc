package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/matcha/internal/journal"
	"github.com/sadopc/matcha/internal/store"
)

type tasksModel struct {
	journal *journal.Journal
	width   int
	height  int

	tasks  []store.Task
	cursor int

	formActive bool
	form       *huh.Form
	formTitle  *string // survives value copies
}

func newTasksModel(j *journal.Journal) tasksModel {
	title := ""
	return tasksModel{
		journal:   j,
		formTitle: &title,
	}
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type tasksDataMsg struct {
	tasks []store.Task
}

func (t tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := t.journal.Tasks()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load tasks: %v", err), isError: true}
		}
		return tasksDataMsg{tasks: tasks}
	}
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		t.tasks = msg.tasks
		if t.cursor >= len(t.tasks) {
			t.cursor = max(0, len(t.tasks)-1)
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.tasks)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Complete), key.Matches(msg, keys.Enter), key.Matches(msg, keys.Toggle):
			if len(t.tasks) > 0 {
				return t, t.toggle(t.tasks[t.cursor].ID)
			}
		case key.Matches(msg, keys.New):
			return t.showNewTaskForm()
		}
	}
	return t, nil
}

func (t tasksModel) toggle(id int64) tea.Cmd {
	return func() tea.Msg {
		if _, err := t.journal.ToggleTask(id); err != nil {
			return statusMsg{text: fmt.Sprintf("Toggle task: %v", err), isError: true}
		}
		tasks, err := t.journal.Tasks()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load tasks: %v", err), isError: true}
		}
		return tasksDataMsg{tasks: tasks}
	}
}

func (t tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*t.formTitle = ""
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(t.formTitle),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		title := *t.formTitle
		j := t.journal
		return t, func() tea.Msg {
			if _, err := j.AddTask(title); err != nil {
				return statusMsg{text: fmt.Sprintf("Add task: %v", err), isError: true}
			}
			tasks, err := j.Tasks()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Load tasks: %v", err), isError: true}
			}
			return tasksDataMsg{tasks: tasks}
		}
	}

	return t, cmd
}

func (t tasksModel) progress() (done, total int) {
	for _, task := range t.tasks {
		if task.Completed {
			done++
		}
	}
	return done, len(t.tasks)
}

func (t tasksModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Task")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View()),
		)
	}

	title := titleStyle.Render("Tasks")
	if len(t.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	done, total := t.progress()
	pct := done * 100 / total
	header := fmt.Sprintf("%s  %s %s",
		title,
		successStyle.Render(progressBar(pct, 20)),
		mutedStyle.Render(fmt.Sprintf("%d/%d completed (%d%%)", done, total, pct)),
	)

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	visible := max(1, t.height-10)
	start := 0
	if t.cursor >= visible {
		start = t.cursor - visible + 1
	}
	end := min(len(t.tasks), start+visible)

	for i := start; i < end; i++ {
		task := t.tasks[i]
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := mutedStyle.Render("[ ]")
		if task.Completed {
			check = successStyle.Render("[x]")
		}
		label := truncate(task.Title, w-16)
		if task.Completed {
			label = mutedStyle.Strikethrough(true).Render(label)
		} else {
			label = style.Render(label)
		}
		rows = append(rows, style.Render(cursor)+check+" "+label)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  x/space: done/undo"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
