package llm

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	ollamaDefaultURL     = "http://localhost:11434"
	ollamaDefaultTimeout = 2 * time.Minute
)

// OllamaProvider talks to a local Ollama instance over its chat endpoint.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaProvider creates a new Ollama provider. No API key is needed.
func NewOllamaProvider(cfg ProviderConfig) (*OllamaProvider, error) {
	cfg, err := resolve("ollama", cfg)
	if err != nil {
		return nil, err
	}

	return &OllamaProvider{
		baseURL: cmp.Or(strings.TrimRight(cfg.BaseURL, "/"), ollamaDefaultURL),
		model:   cfg.Model,
		client:  &http.Client{Timeout: cmp.Or(cfg.Timeout, ollamaDefaultTimeout)},
	}, nil
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	DoneReason      string        `json:"done_reason"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

// Execute sends one non-streaming chat request.
func (p *OllamaProvider) Execute(ctx context.Context, req Request) (*Response, error) {
	pr, err := prepare(req)
	if err != nil {
		return nil, err
	}

	chat := ollamaChatRequest{
		Model:    p.model,
		Messages: make([]ollamaMessage, 0, len(pr.turns)+1),
		Options:  ollamaOptions{Temperature: pr.temperature, NumPredict: pr.maxTokens},
	}
	if pr.system != "" {
		chat.Messages = append(chat.Messages, ollamaMessage{Role: string(RoleSystem), Content: pr.system})
	}
	for _, turn := range pr.turns {
		chat.Messages = append(chat.Messages, ollamaMessage{Role: string(turn.Role), Content: turn.Content})
	}

	var out ollamaChatResponse
	if err := p.post(ctx, "/api/chat", chat, &out); err != nil {
		return nil, err
	}
	return pr.respond(out.Model, out.Message.Content, cmp.Or(out.DoneReason, "stop"),
		out.PromptEvalCount, out.EvalCount), nil
}

// post sends in as JSON to path and decodes the JSON reply into out.
func (p *OllamaProvider) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return &APIError{Provider: p.Name(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Provider: p.Name(), Status: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(msg)))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ollama response: %w", err)
	}
	return nil
}

func (p *OllamaProvider) Name() string { return "ollama" }

func (p *OllamaProvider) Model() string { return p.model }

var _ Provider = (*OllamaProvider)(nil)
