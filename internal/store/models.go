package store

import "time"

// MessageType identifies the author of a chat message.
type MessageType string

const (
	MessageUser MessageType = "user"
	MessageAI   MessageType = "ai"
)

type Task struct {
	ID        int64
	Title     string
	Completed bool
	CreatedAt time.Time
}

type Message struct {
	ID        int64
	Type      MessageType
	Content   string
	Timestamp time.Time
}

// MoodSession is one detected-emotion event extracted from a conversation turn.
type MoodSession struct {
	ID        int64
	Emotions  []string
	Summary   string // empty when the assistant gave none
	Timestamp time.Time
}

type DailyMetric struct {
	Date        string // YYYY-MM-DD, local calendar day
	WaterIntake int
}

type PomodoroRecord struct {
	ID        int64
	Timestamp time.Time
}

type Setting struct {
	Key   string
	Value string
}

// PomodoroSettings is the payload of the "pomodoro" settings record.
type PomodoroSettings struct {
	Sessions     int `json:"sessions"`
	FocusMinutes int `json:"focusMinutes"`
	BreakMinutes int `json:"breakMinutes"`
}

// SessionFilter is used to filter mood sessions in queries.
type SessionFilter struct {
	Since *time.Time
	Limit int
}
