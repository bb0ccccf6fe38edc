package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/matcha/internal/journal"
	"github.com/sadopc/matcha/internal/store"
)

type chatModel struct {
	journal *journal.Journal
	width   int
	height  int

	messages []store.Message
	input    textinput.Model
	spinner  spinner.Model
	pending  bool

	renderer *glamour.TermRenderer
	rendered map[int64]string // assistant messages by id
}

func newChatModel(j *journal.Journal) chatModel {
	ti := textinput.New()
	ti.Placeholder = "How are you feeling today?"
	ti.Prompt = "› "
	ti.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return chatModel{
		journal:  j,
		input:    ti,
		spinner:  sp,
		rendered: make(map[int64]string),
	}
}

func (c *chatModel) setSize(w, h int) {
	c.width = w
	c.height = h
	c.rendered = make(map[int64]string)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, w-12)),
	)
	if err != nil {
		c.renderer = nil
		return
	}
	c.renderer = r
}

func (c chatModel) composing() bool {
	return c.input.Focused()
}

type chatDataMsg struct {
	messages []store.Message
}

func (c chatModel) refresh() tea.Cmd {
	return func() tea.Msg {
		msgs, err := c.journal.Messages()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load messages: %v", err), isError: true}
		}
		return chatDataMsg{messages: msgs}
	}
}

func (c chatModel) send(text string) tea.Cmd {
	j := c.journal
	return func() tea.Msg {
		turn, err := j.Send(context.Background(), text)
		return chatTurnMsg{turn: turn, err: err}
	}
}

func (c chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatDataMsg:
		c.messages = msg.messages
		return c, nil

	case chatTurnMsg:
		c.pending = false
		return c, tea.Batch(c.refresh(), turnStatus(msg))

	case spinner.TickMsg:
		if !c.pending {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case tea.KeyMsg:
		if !c.input.Focused() {
			if key.Matches(msg, keys.Compose) || key.Matches(msg, keys.Enter) {
				cmd := c.input.Focus()
				return c, cmd
			}
			return c, nil
		}
		switch {
		case key.Matches(msg, keys.Back):
			c.input.Blur()
			return c, nil
		case key.Matches(msg, keys.Send):
			return c.submit()
		}
	}

	if c.input.Focused() {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	return c, nil
}

func (c chatModel) submit() (chatModel, tea.Cmd) {
	text := strings.TrimSpace(c.input.Value())
	if text == "" {
		return c, nil
	}
	if c.pending {
		return c, func() tea.Msg {
			return statusMsg{text: "Sage is still answering"}
		}
	}
	c.pending = true
	c.input.Reset()
	// Shown until the refresh after the turn replaces it with the stored copy.
	c.messages = append(c.messages, store.Message{Type: store.MessageUser, Content: text, Timestamp: time.Now()})
	return c, tea.Batch(c.send(text), c.spinner.Tick)
}

func turnStatus(msg chatTurnMsg) tea.Cmd {
	return func() tea.Msg {
		if msg.err != nil {
			return statusMsg{text: fmt.Sprintf("Chat error: %v", msg.err), isError: true}
		}
		t := msg.turn
		if t.Err != nil {
			return statusMsg{text: "Sage is unavailable right now", isError: true}
		}
		var parts []string
		if n := len(t.Tasks); n > 0 {
			parts = append(parts, fmt.Sprintf("%d task(s) added", n))
		}
		if t.Mood != nil {
			parts = append(parts, "mood saved")
		}
		if t.WaterIntake > 0 {
			parts = append(parts, fmt.Sprintf("water %d/8", t.WaterIntake))
		}
		return statusMsg{text: strings.Join(parts, ", ")}
	}
}

func (c chatModel) view() string {
	w := c.width - 4
	title := titleStyle.Render("Sage")
	if !c.journal.HasAssistant() {
		title += mutedStyle.Render("  (no API key configured)")
	}

	var footer string
	switch {
	case c.pending:
		footer = c.spinner.View() + mutedStyle.Render(" Sage is thinking…")
	case c.input.Focused():
		footer = mutedStyle.Render("enter: send  esc: stop writing")
	default:
		footer = mutedStyle.Render("i: write  tab: next view")
	}

	// Title, input, footer, blank separators and panel chrome.
	budget := max(3, c.height-10)
	body := c.renderMessages(w-6, budget)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, "", body, "", c.input.View(), footer,
		),
	)
}

// renderMessages renders the newest messages that fit into height lines.
func (c chatModel) renderMessages(width, height int) string {
	if len(c.messages) == 0 {
		return mutedStyle.Render("No messages yet.")
	}
	var blocks []string
	used := 0
	for i := len(c.messages) - 1; i >= 0; i-- {
		b := c.renderMessage(c.messages[i], width)
		h := lipgloss.Height(b) + 1
		if used+h > height && len(blocks) > 0 {
			break
		}
		blocks = append(blocks, b)
		used += h
	}
	for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	}
	return strings.Join(blocks, "\n\n")
}

func (c chatModel) renderMessage(m store.Message, width int) string {
	stamp := mutedStyle.Render(m.Timestamp.Local().Format("15:04"))
	if m.Type == store.MessageUser {
		label := userLabelStyle.Render("You") + " " + stamp
		text := lipgloss.NewStyle().Width(width).Render(m.Content)
		return label + "\n" + text
	}
	label := aiLabelStyle.Render("Sage") + " " + stamp
	return label + "\n" + c.markdown(m)
}

func (c chatModel) markdown(m store.Message) string {
	if out, ok := c.rendered[m.ID]; ok && m.ID != 0 {
		return out
	}
	if c.renderer == nil {
		return m.Content
	}
	out, err := c.renderer.Render(m.Content)
	if err != nil {
		return m.Content
	}
	out = strings.Trim(out, "\n")
	if m.ID != 0 {
		c.rendered[m.ID] = out
	}
	return out
}
