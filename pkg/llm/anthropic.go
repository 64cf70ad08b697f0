package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements Provider using the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg ProviderConfig) (*AnthropicProvider, error) {
	cfg, err := resolve("anthropic", cfg)
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &AnthropicProvider{client: anthropic.NewClient(opts...), model: cfg.Model}, nil
}

// Execute sends the request as a single Messages call. The system prompt
// travels in its own field rather than as a turn.
func (p *AnthropicProvider) Execute(ctx context.Context, req Request) (*Response, error) {
	pr, err := prepare(req)
	if err != nil {
		return nil, err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(pr.maxTokens),
		Messages:  make([]anthropic.MessageParam, 0, len(pr.turns)),
	}
	for _, turn := range pr.turns {
		text := anthropic.NewTextBlock(turn.Content)
		if turn.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(text))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(text))
		}
	}
	if pr.system != "" {
		params.System = []anthropic.TextBlockParam{{Text: pr.system}}
	}
	if pr.temperature > 0 {
		params.Temperature = anthropic.Float(pr.temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, &APIError{Provider: p.Name(), Err: err}
	}

	var content strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			content.WriteString(text.Text)
		}
	}
	return pr.respond(string(msg.Model), content.String(), string(msg.StopReason),
		int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)), nil
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Model() string { return p.model }

var _ Provider = (*AnthropicProvider)(nil)
