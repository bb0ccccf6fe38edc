package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{APIKey: "test-key", BaseURL: srv.URL + "/", Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// ============================================================
// Client construction
// ============================================================

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	c, err := New(Config{APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Model() != DefaultModel || c.baseURL != DefaultBaseURL || c.timeout != DefaultTimeout {
		t.Fatalf("unexpected defaults: %s %s %v", c.model, c.baseURL, c.timeout)
	}
	if c.prompt == "" || !strings.Contains(c.prompt, "JSON") {
		t.Fatal("embedded prompt should be loaded")
	}
}

func TestNewPromptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	os.WriteFile(path, []byte("custom prompt"), 0o644)

	c, err := New(Config{APIKey: "k", SystemPromptFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if c.prompt != "custom prompt" {
		t.Fatalf("prompt = %q", c.prompt)
	}

	if _, err := New(Config{APIKey: "k", SystemPromptFile: path + ".missing"}); err == nil {
		t.Fatal("expected error for missing prompt file")
	}
}

// ============================================================
// Chat
// ============================================================

func TestChatRequestShape(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		if _, err := uuid.Parse(r.Header.Get("X-Request-Id")); err != nil {
			t.Errorf("request id is not a uuid: %q", r.Header.Get("X-Request-Id"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(completion(`{"reply":"ok"}`)))
	})

	_, err := c.Chat(context.Background(), Request{
		Message: "how are you",
		History: []HistoryItem{
			{Type: "ai", Content: "Hello!"},
			{Type: "user", Content: "hi"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got.Model != DefaultModel || got.Temperature != 0.7 {
		t.Fatalf("unexpected model/temperature: %s %v", got.Model, got.Temperature)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Fatal("expected json_object response format")
	}
	wantRoles := []string{"system", "assistant", "user", "user"}
	if len(got.Messages) != len(wantRoles) {
		t.Fatalf("expected %d messages, got %d", len(wantRoles), len(got.Messages))
	}
	for i, role := range wantRoles {
		if got.Messages[i].Role != role {
			t.Fatalf("message %d role = %s, want %s", i, got.Messages[i].Role, role)
		}
	}
	if got.Messages[3].Content != "how are you" {
		t.Fatalf("last message should be the utterance, got %q", got.Messages[3].Content)
	}
}

func TestChatFullReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion(`{
			"reply": "That sounds like a lot.",
			"newTasks": ["Call mom"],
			"emotions": ["happy", "tired"],
			"summary": "Busy day.",
			"waterIntake": 3.4
		}`)))
	})

	reply, err := c.Chat(context.Background(), Request{Message: "long day"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Reply != "That sounds like a lot." {
		t.Fatalf("reply = %q", reply.Reply)
	}
	if len(reply.NewTasks) != 1 || reply.NewTasks[0] != "Call mom" {
		t.Fatalf("tasks = %v", reply.NewTasks)
	}
	if len(reply.Emotions) != 2 {
		t.Fatalf("emotions = %v", reply.Emotions)
	}
	if reply.Summary == nil || *reply.Summary != "Busy day." {
		t.Fatal("summary missing")
	}
	if reply.Glasses() != 3 {
		t.Fatalf("glasses = %d, want 3", reply.Glasses())
	}
}

func TestChatOptionalFieldsAbsent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion(`{"reply":"Hi"}`)))
	})
	reply, err := c.Chat(context.Background(), Request{Message: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.NewTasks != nil || reply.Emotions != nil || reply.Summary != nil || reply.WaterIntake != nil {
		t.Fatalf("expected nil optional fields, got %+v", reply)
	}
	if reply.Glasses() != 0 {
		t.Fatal("absent water intake should be 0 glasses")
	}
}

func TestChatNonJSONContentApologizes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion("Sure! Here is my answer without braces")))
	})
	reply, err := c.Chat(context.Background(), Request{Message: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Reply != apologyReply {
		t.Fatalf("expected apology, got %q", reply.Reply)
	}
	if reply.Summary == nil || *reply.Summary != "AI response format error." {
		t.Fatal("expected format error summary")
	}
	if len(reply.Emotions) != 0 || len(reply.NewTasks) != 0 || reply.Glasses() != 0 {
		t.Fatalf("apology should carry no extraction: %+v", reply)
	}
}

func TestChatMissingReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion(`{"emotions":["sad"]}`)))
	})
	_, err := c.Chat(context.Background(), Request{Message: "hi"})
	if !errors.Is(err, ErrMissingReply) {
		t.Fatalf("expected ErrMissingReply, got %v", err)
	}
}

func TestChatStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})
	_, err := c.Chat(context.Background(), Request{Message: "hi"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusTooManyRequests || !strings.Contains(se.Body, "rate limited") {
		t.Fatalf("unexpected status error %+v", se)
	}
}

func TestChatMalformedEnvelope(t *testing.T) {
	tests := map[string]string{
		"not json":   "<html>oops</html>",
		"no choices": `{"choices":[]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			if _, err := c.Chat(context.Background(), Request{Message: "hi"}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestChatEmptyMessage(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	if _, err := c.Chat(context.Background(), Request{Message: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if called {
		t.Fatal("empty message must not reach the endpoint")
	}
}

func TestChatHonoursTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, _ := New(Config{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	if _, err := c.Chat(context.Background(), Request{Message: "hi"}); err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Fatal("timeout was not honoured")
	}
}

// ============================================================
// ParseReply
// ============================================================

func TestParseReplyWaterAsString(t *testing.T) {
	r, err := ParseReply(`{"reply":"ok","waterIntake":"5"}`)
	if err != nil {
		t.Fatal(err)
	}
	if r.Glasses() != 5 {
		t.Fatalf("glasses = %d, want 5", r.Glasses())
	}
}

func TestGlassesIgnoresNonPositive(t *testing.T) {
	for _, v := range []float64{0, -2, 0.4} {
		r := &Reply{WaterIntake: &v}
		if r.Glasses() != 0 {
			t.Fatalf("Glasses(%v) = %d, want 0", v, r.Glasses())
		}
	}
}
