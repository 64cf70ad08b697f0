// Package llm sends the front page prompt to a chat completion backend.
// Every backend receives the same prepared request and maps it onto its
// own API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    Role
	Content string
}

// Request is a chat completion request. System messages may appear anywhere
// in Messages; backends receive them joined into one system prompt.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response is the completion returned by a backend.
type Response struct {
	Content      string
	FinishReason string
	Usage        Usage
	Model        string
	Duration     time.Duration
}

// Provider is the interface every backend implements.
type Provider interface {
	// Execute sends a completion request and returns the response.
	Execute(ctx context.Context, req Request) (*Response, error)

	// Name returns the backend identifier (e.g., "anthropic", "ollama").
	Name() string

	// Model returns the configured model name.
	Model() string
}

// ProviderConfig holds common configuration for providers.
type ProviderConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultMaxTokens is used when a request does not set MaxTokens.
const DefaultMaxTokens = 4096

// APIError is a failure reported by a backend. Status is the HTTP status
// when the backend answered with one.
type APIError struct {
	Provider string
	Status   int
	Err      error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s API error (status %d): %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// prepared is a Request with defaults applied and the system text split
// from the conversation turns.
type prepared struct {
	system      string
	turns       []Message
	maxTokens   int
	temperature float64
	start       time.Time
}

func prepare(req Request) (*prepared, error) {
	p := &prepared{
		maxTokens:   DefaultMaxTokens,
		temperature: req.Temperature,
		start:       time.Now(),
	}
	if req.MaxTokens > 0 {
		p.maxTokens = req.MaxTokens
	}

	var system []string
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, msg.Content)
		case RoleUser, RoleAssistant:
			p.turns = append(p.turns, msg)
		default:
			return nil, fmt.Errorf("unknown message role %q", msg.Role)
		}
	}
	if len(p.turns) == 0 {
		return nil, errors.New("request has no user or assistant messages")
	}
	p.system = strings.Join(system, "\n\n")
	return p, nil
}

// respond builds the Response for a completed call, stamping the elapsed time.
func (p *prepared) respond(model, content, finish string, in, out int) *Response {
	return &Response{
		Content:      content,
		FinishReason: finish,
		Usage:        Usage{InputTokens: in, OutputTokens: out},
		Model:        model,
		Duration:     time.Since(p.start),
	}
}
