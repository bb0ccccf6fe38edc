// Package journal is the application state: it owns the store, the assistant
// gateway and the focus timer, and exposes every user operation by name.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sadopc/matcha/internal/analytics"
	"github.com/sadopc/matcha/internal/gateway"
	"github.com/sadopc/matcha/internal/pomodoro"
	"github.com/sadopc/matcha/internal/store"
)

var (
	ErrEmptyMessage = errors.New("journal: message is empty")
	ErrEmptyTitle   = errors.New("journal: task title is empty")
	ErrNoAssistant  = errors.New("journal: assistant is not configured")
)

const (
	WelcomeMessage    = "Hello! I'm Sage, your personal journaling companion. How are you feeling today?"
	NoSummaryText     = "No summary provided."
	errorNoticeFormat = "A critical error occurred: %v. Please try again."
)

var defaultTasks = []store.Task{
	{Title: "Complete morning meditation", Completed: true},
	{Title: "Write in journal for 15 minutes"},
	{Title: "Read 20 pages of current book"},
}

// Assistant is the conversational gateway a chat turn is sent to.
type Assistant interface {
	Chat(ctx context.Context, req gateway.Request) (*gateway.Reply, error)
}

type Journal struct {
	store     *store.Store
	assistant Assistant
	timer     *pomodoro.Timer
	now       func() time.Time
}

// New builds the journal and seeds the timer from the persisted pomodoro
// settings. assistant may be nil; chat turns then fail with ErrNoAssistant.
func New(s *store.Store, assistant Assistant) (*Journal, error) {
	cfg, err := pomodoro.LoadConfig(s)
	if err != nil {
		return nil, err
	}
	return &Journal{
		store:     s,
		assistant: assistant,
		timer:     pomodoro.New(s, cfg),
		now:       time.Now,
	}, nil
}

// SetClock overrides the clock for the journal and its timer.
func (j *Journal) SetClock(now func() time.Time) {
	j.now = now
	j.timer.SetClock(now)
}

func (j *Journal) Store() *store.Store    { return j.store }
func (j *Journal) Timer() *pomodoro.Timer { return j.timer }
func (j *Journal) HasAssistant() bool     { return j.assistant != nil }

// Bootstrap seeds the default tasks into an empty task list and the welcome
// message into an empty conversation.
func (j *Journal) Bootstrap() error {
	err := j.store.InTx(func(tx *store.Store) error {
		total, _, err := tx.CountTasks()
		if err != nil {
			return err
		}
		if total == 0 {
			for _, t := range defaultTasks {
				task, err := tx.CreateTask(t.Title)
				if err != nil {
					return err
				}
				if t.Completed {
					if err := tx.SetTaskCompleted(task.ID, true); err != nil {
						return err
					}
				}
			}
		}

		n, err := tx.CountMessages()
		if err != nil {
			return err
		}
		if n == 0 {
			if _, err := tx.AppendMessage(store.MessageAI, WelcomeMessage, j.now()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("bootstrap journal: %w", err)
	}
	return nil
}

// ============================================================
// Chat
// ============================================================

// Turn is the outcome of one chat exchange.
type Turn struct {
	User  *store.Message
	Reply *store.Message // assistant reply, or the error notice

	Tasks       []store.Task
	Mood        *store.MoodSession
	WaterIntake int // 0 when the daily metric was not touched

	// Err is the gateway failure that abandoned the turn.
	Err error
}

// Send runs one chat turn. The utterance is stored first; on gateway failure
// the turn is abandoned with a single error notice and Turn.Err set, and Send
// itself returns nil. On success the extraction and the reply are written in
// one transaction.
func (j *Journal) Send(ctx context.Context, text string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	prior, err := j.store.ListMessages()
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	user, err := j.store.AppendMessage(store.MessageUser, text, j.now())
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	turn := &Turn{User: user}

	reply, err := j.ask(ctx, text, prior)
	if err != nil {
		log.Printf("chat turn failed: %v", err)
		turn.Err = err
		notice, nerr := j.store.AppendMessage(store.MessageAI, fmt.Sprintf(errorNoticeFormat, err), j.now())
		if nerr != nil {
			return turn, fmt.Errorf("append error notice: %w", nerr)
		}
		turn.Reply = notice
		return turn, nil
	}

	if err := j.apply(turn, reply); err != nil {
		// Rolled back; only the utterance remains.
		*turn = Turn{User: user}
		return turn, fmt.Errorf("apply assistant reply: %w", err)
	}
	return turn, nil
}

func (j *Journal) ask(ctx context.Context, text string, prior []store.Message) (*gateway.Reply, error) {
	if j.assistant == nil {
		return nil, ErrNoAssistant
	}
	history := make([]gateway.HistoryItem, 0, len(prior))
	for _, m := range prior {
		history = append(history, gateway.HistoryItem{
			Type:      string(m.Type),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	reply, err := j.assistant.Chat(ctx, gateway.Request{Message: text, History: history})
	if err != nil {
		return nil, err
	}
	if reply == nil || strings.TrimSpace(reply.Reply) == "" {
		return nil, gateway.ErrMissingReply
	}
	return reply, nil
}

func (j *Journal) apply(turn *Turn, reply *gateway.Reply) error {
	now := j.now()
	return j.store.InTx(func(tx *store.Store) error {
		var titles []string
		for _, t := range reply.NewTasks {
			if t = strings.TrimSpace(t); t != "" {
				titles = append(titles, t)
			}
		}
		if len(titles) > 0 {
			tasks, err := tx.AddTasks(titles)
			if err != nil {
				return err
			}
			turn.Tasks = tasks
		}

		if len(reply.Emotions) > 0 {
			summary := NoSummaryText
			if reply.Summary != nil && strings.TrimSpace(*reply.Summary) != "" {
				summary = *reply.Summary
			}
			ms, err := tx.AddMoodSession(reply.Emotions, summary, now)
			if err != nil {
				return err
			}
			turn.Mood = ms
		}

		if glasses := reply.Glasses(); glasses > 0 {
			if err := tx.UpsertDailyMetric(store.DateKey(now), glasses); err != nil {
				return err
			}
			turn.WaterIntake = glasses
		}

		msg, err := tx.AppendMessage(store.MessageAI, reply.Reply, now)
		if err != nil {
			return err
		}
		turn.Reply = msg
		return nil
	})
}

func (j *Journal) Messages() ([]store.Message, error) {
	return j.store.ListMessages()
}

// ============================================================
// Tasks
// ============================================================

func (j *Journal) AddTask(title string) (*store.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return j.store.CreateTask(title)
}

func (j *Journal) SetTaskCompleted(id int64, completed bool) error {
	return j.store.SetTaskCompleted(id, completed)
}

// ToggleTask flips the completed flag of one task and returns its new value.
func (j *Journal) ToggleTask(id int64) (bool, error) {
	var done bool
	err := j.store.InTx(func(tx *store.Store) error {
		t, err := tx.GetTask(id)
		if err != nil {
			return err
		}
		done = !t.Completed
		return tx.SetTaskCompleted(id, done)
	})
	if err != nil {
		return false, fmt.Errorf("toggle task %d: %w", id, err)
	}
	return done, nil
}

func (j *Journal) Tasks() ([]store.Task, error) {
	return j.store.ListTasks()
}

// ============================================================
// Summary and timer
// ============================================================

// Summary recomputes the analytics view from the current store contents.
func (j *Journal) Summary() (analytics.Summary, error) {
	now := j.now()
	snap, err := analytics.Load(j.store, now)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Compute(snap, now), nil
}

// TickTimer advances the focus timer by one second. A failed history write is
// logged and returned; the timer has already moved on.
func (j *Journal) TickTimer() (pomodoro.Event, error) {
	ev, err := j.timer.Tick()
	if err != nil {
		log.Printf("pomodoro tick: %v", err)
	}
	return ev, err
}

// ConfigureTimer applies and persists a new timer configuration. It reports
// false when the timer is running and the change was ignored.
func (j *Journal) ConfigureTimer(cfg pomodoro.Config) (bool, error) {
	return j.timer.Configure(cfg)
}
