// Package gateway talks to the conversational assistant. A chat turn sends the
// user's message and prior conversation and gets back a reply together with
// structured extraction (new tasks, emotions, a summary, water intake).
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	// ErrMissingReply is returned when the assistant answer has no reply text.
	ErrMissingReply = errors.New("gateway: response has no reply")
	ErrEmptyMessage = errors.New("gateway: no message provided")
	ErrNoAPIKey     = errors.New("gateway: api key is not configured")
)

// StatusError is returned for a non-2xx answer from the assistant endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("gateway: status %d", e.Code)
	}
	return fmt.Sprintf("gateway: status %d: %s", e.Code, e.Body)
}

// HistoryItem is one prior message of the conversation.
type HistoryItem struct {
	Type      string    `json:"type"` // "user" or "ai"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Request struct {
	Message string        `json:"message"`
	History []HistoryItem `json:"history"`
}

// Reply is the structured assistant answer. Optional fields are nil when the
// assistant omitted them.
type Reply struct {
	Reply       string   `json:"reply"`
	NewTasks    []string `json:"newTasks,omitempty"`
	Emotions    []string `json:"emotions,omitempty"`
	Summary     *string  `json:"summary,omitempty"`
	WaterIntake *float64 `json:"waterIntake,omitempty"`
}

// Glasses returns the water intake rounded to whole units, or 0.
func (r *Reply) Glasses() int {
	if r.WaterIntake == nil || math.IsNaN(*r.WaterIntake) || *r.WaterIntake <= 0 {
		return 0
	}
	return int(math.Round(*r.WaterIntake))
}

const (
	apologyReply   = "I apologize, I had a little trouble formatting my thoughts. Could you try rephrasing that?"
	apologySummary = "AI response format error."
)

// formatErrorReply is returned when the model answered with something that
// is not a JSON object.
func formatErrorReply() *Reply {
	summary := apologySummary
	water := 0.0
	return &Reply{
		Reply:       apologyReply,
		NewTasks:    []string{},
		Emotions:    []string{},
		Summary:     &summary,
		WaterIntake: &water,
	}
}

// payload mirrors Reply with every field optional. Water intake is accepted
// as a JSON number or a numeric string.
type payload struct {
	Reply       *string      `json:"reply"`
	NewTasks    []string     `json:"newTasks"`
	Emotions    []string     `json:"emotions"`
	Summary     *string      `json:"summary"`
	WaterIntake *json.Number `json:"waterIntake"`
}

// ParseReply decodes model content. Content that is not a JSON object of the
// expected shape yields the apology reply; a decoded object without reply text
// is ErrMissingReply.
func ParseReply(content string) (*Reply, error) {
	var p payload
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &p); err != nil {
		return formatErrorReply(), nil
	}
	if p.Reply == nil || strings.TrimSpace(*p.Reply) == "" {
		return nil, ErrMissingReply
	}

	r := &Reply{
		Reply:    *p.Reply,
		NewTasks: p.NewTasks,
		Emotions: p.Emotions,
		Summary:  p.Summary,
	}
	if p.WaterIntake != nil {
		if v, err := p.WaterIntake.Float64(); err == nil {
			r.WaterIntake = &v
		}
	}
	return r, nil
}
