package gateway

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"
	DefaultTimeout = 30 * time.Second

	temperature  = 0.7
	maxBodyBytes = 256 * 1024
	maxErrorBody = 512
)

//go:embed prompt.txt
var defaultPrompt string

// DefaultPrompt returns the built-in system prompt.
func DefaultPrompt() string { return defaultPrompt }

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// SystemPromptFile replaces the built-in prompt when set.
	SystemPromptFile string
	HTTPClient       *http.Client
}

// Client calls an OpenAI-compatible chat completions endpoint (Groq by
// default) and asks for a JSON object answer.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
	prompt  string
	http    *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		prompt:  defaultPrompt,
		http:    cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if cfg.SystemPromptFile != "" {
		b, err := os.ReadFile(cfg.SystemPromptFile)
		if err != nil {
			return nil, fmt.Errorf("read system prompt: %w", err)
		}
		c.prompt = string(b)
	}
	return c, nil
}

func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Chat sends one conversation turn. Transport failures, non-2xx answers, an
// undecodable envelope and a reply-less answer are all returned as errors.
func (c *Client) Chat(ctx context.Context, req Request) (*Reply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       c.messages(req),
		Temperature:    temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: msg}
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("decode chat response: no choices")
	}
	return ParseReply(cr.Choices[0].Message.Content)
}

func (c *Client) messages(req Request) []chatMessage {
	msgs := make([]chatMessage, 0, len(req.History)+2)
	msgs = append(msgs, chatMessage{Role: "system", Content: c.prompt})
	for _, h := range req.History {
		role := "user"
		if h.Type == "ai" {
			role = "assistant"
		}
		msgs = append(msgs, chatMessage{Role: role, Content: h.Content})
	}
	return append(msgs, chatMessage{Role: "user", Content: req.Message})
}
