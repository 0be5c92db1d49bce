package ai

import (
	"context"

	"github.com/gnemet/DeckForge/internal/config"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAIDriver talks to any OpenAI-compatible chat completions endpoint;
// Groq is reached by pointing Endpoint at its /openai/v1 base.
type openAIDriver struct {
	client   openai.Client
	settings config.ProviderSettings
}

func newOpenAIDriver(s config.ProviderSettings) *openAIDriver {
	opts := []option.RequestOption{option.WithAPIKey(s.Key)}
	if s.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(s.Endpoint))
	}
	return &openAIDriver{client: openai.NewClient(opts...), settings: s}
}

func (d *openAIDriver) complete(ctx context.Context, prompt string) (string, Usage, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(d.settings.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if d.settings.Temperature > 0 {
		params.Temperature = openai.Float(d.settings.Temperature)
	}
	if d.settings.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(d.settings.MaxTokens))
	}

	resp, err := d.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", Usage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", Usage{}, ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}, nil
}

func (d *openAIDriver) close() error { return nil }
