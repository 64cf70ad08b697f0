package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider implements Provider for the OpenAI chat completions API
// and compatible endpoints.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg ProviderConfig) (*OpenAIProvider, error) {
	cfg, err := resolve("openai", cfg)
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

	return &OpenAIProvider{client: openai.NewClient(opts...), model: cfg.Model}, nil
}

// Execute sends the request as one chat completion, with the joined system
// prompt as the leading message.
func (p *OpenAIProvider) Execute(ctx context.Context, req Request) (*Response, error) {
	pr, err := prepare(req)
	if err != nil {
		return nil, err
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(pr.turns)+1)
	if pr.system != "" {
		messages = append(messages, openai.SystemMessage(pr.system))
	}
	for _, turn := range pr.turns {
		if turn.Role == RoleAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Content))
		} else {
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(p.model),
		Messages:  messages,
		MaxTokens: openai.Int(int64(pr.maxTokens)),
	}
	if pr.temperature > 0 {
		params.Temperature = openai.Float(pr.temperature)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &APIError{Provider: p.Name(), Err: err}
	}
	if len(completion.Choices) == 0 {
		return nil, &APIError{Provider: p.Name(), Err: errors.New("no choices in response")}
	}

	choice := completion.Choices[0]
	return pr.respond(completion.Model, choice.Message.Content, string(choice.FinishReason),
		int(completion.Usage.PromptTokens), int(completion.Usage.CompletionTokens)), nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Model() string { return p.model }

var _ Provider = (*OpenAIProvider)(nil)
