package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProviderConfig
		wantErr bool
	}{
		{"anthropic", ProviderConfig{APIKey: "k"}, false},
		{"anthropic", ProviderConfig{}, true},
		{"openai", ProviderConfig{APIKey: "k"}, false},
		{"openai", ProviderConfig{}, true},
		{"ollama", ProviderConfig{}, false},
		{"bogus", ProviderConfig{APIKey: "k"}, true},
	}

	for _, tt := range tests {
		p, err := NewProvider(tt.name, tt.cfg)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewProvider(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewProvider(%q) unexpected error: %v", tt.name, err)
			continue
		}
		if p.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", p.Name(), tt.name)
		}
		if p.Model() != DefaultModel(tt.name) {
			t.Errorf("Model() = %q, want %q", p.Model(), DefaultModel(tt.name))
		}
	}
}

func TestNewProvider_ConfiguredModel(t *testing.T) {
	p, err := NewProvider("ollama", ProviderConfig{Model: "qwen3"})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Model() != "qwen3" {
		t.Errorf("Model() = %q, want qwen3", p.Model())
	}
}

func TestPrepare(t *testing.T) {
	tests := []struct {
		name       string
		req        Request
		wantSystem string
		wantTurns  int
		wantTokens int
		wantErr    bool
	}{
		{
			name:       "defaults",
			req:        Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}},
			wantTurns:  1,
			wantTokens: DefaultMaxTokens,
		},
		{
			name: "system messages joined",
			req: Request{
				Messages: []Message{
					{Role: RoleSystem, Content: "one"},
					{Role: RoleUser, Content: "hi"},
					{Role: RoleSystem, Content: "two"},
					{Role: RoleAssistant, Content: "hello"},
				},
				MaxTokens: 50,
			},
			wantSystem: "one\n\ntwo",
			wantTurns:  2,
			wantTokens: 50,
		},
		{
			name:    "system only",
			req:     Request{Messages: []Message{{Role: RoleSystem, Content: "x"}}},
			wantErr: true,
		},
		{
			name:    "unknown role",
			req:     Request{Messages: []Message{{Role: "tool", Content: "x"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prepare(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("prepare() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.system != tt.wantSystem {
				t.Errorf("system = %q, want %q", got.system, tt.wantSystem)
			}
			if len(got.turns) != tt.wantTurns {
				t.Errorf("turns = %d, want %d", len(got.turns), tt.wantTurns)
			}
			if got.maxTokens != tt.wantTokens {
				t.Errorf("maxTokens = %d, want %d", got.maxTokens, tt.wantTokens)
			}
		})
	}
}

func TestAvailableProviders(t *testing.T) {
	got := strings.Join(AvailableProviders(), ",")
	if got != "anthropic,ollama,openai" {
		t.Errorf("AvailableProviders() = %q", got)
	}
}

func TestOllamaExecute(t *testing.T) {
	var got ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"model":"llama3.2","message":{"role":"assistant","content":"hello"},"done":true,"prompt_eval_count":7,"eval_count":2}`))
	}))
	defer server.Close()

	p, err := NewOllamaProvider(ProviderConfig{BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatalf("NewOllamaProvider() error = %v", err)
	}

	resp, err := p.Execute(context.Background(), Request{
		Messages: []Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hi"},
		},
		MaxTokens: 100,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if resp.Content != "hello" {
		t.Errorf("Content = %q, want hello", resp.Content)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("FinishReason = %q, want stop", resp.FinishReason)
	}
	if resp.Usage.InputTokens != 7 || resp.Usage.OutputTokens != 2 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
	if got.Stream {
		t.Error("request should not stream")
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.Options.NumPredict != 100 {
		t.Errorf("num_predict = %d, want 100", got.Options.NumPredict)
	}
}

func TestOllamaExecuteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	p, _ := NewOllamaProvider(ProviderConfig{BaseURL: server.URL})
	_, err := p.Execute(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("error = %v, want APIError with status 404", err)
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("error = %v, want response body", err)
	}
}

func TestOpenAIExecute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":0,"model":"gpt-4o","choices":[{"index":0,"message":{"role":"assistant","content":"front page"},"finish_reason":"stop"}],"usage":{"prompt_tokens":10,"completion_tokens":3,"total_tokens":13}}`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	resp, err := p.Execute(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Content != "front page" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Usage.InputTokens != 10 || resp.Usage.OutputTokens != 3 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
}

func TestOpenAIExecuteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad model","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	_, err = p.Execute(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Provider != "openai" {
		t.Errorf("error = %v, want openai APIError", err)
	}
}

func TestAnthropicExecute(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("path = %q", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-20250514","content":[{"type":"text","text":"summary"}],"stop_reason":"end_turn","usage":{"input_tokens":5,"output_tokens":1}}`))
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(ProviderConfig{APIKey: "k", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewAnthropicProvider() error = %v", err)
	}

	resp, err := p.Execute(context.Background(), Request{Messages: []Message{
		{Role: RoleSystem, Content: "editor"},
		{Role: RoleUser, Content: "hi"},
	}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Content != "summary" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.FinishReason != "end_turn" {
		t.Errorf("FinishReason = %q", resp.FinishReason)
	}
	if !strings.Contains(body, `"system"`) || !strings.Contains(body, "editor") {
		t.Errorf("system prompt missing from request: %s", body)
	}
}
