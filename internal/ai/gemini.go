package ai

import (
	"context"
	"strings"

	"github.com/gnemet/DeckForge/internal/config"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type geminiDriver struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func newGeminiDriver(ctx context.Context, s config.ProviderSettings) (*geminiDriver, error) {
	opts := []option.ClientOption{option.WithAPIKey(s.Key)}
	if s.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.Endpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	model := client.GenerativeModel(s.Model)
	if s.Temperature > 0 {
		model.SetTemperature(float32(s.Temperature))
	}
	if s.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(s.MaxTokens))
	}
	return &geminiDriver{client: client, model: model}, nil
}

func (d *geminiDriver) complete(ctx context.Context, prompt string) (string, Usage, error) {
	resp, err := d.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", Usage{}, err
	}

	var b strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}

	var u Usage
	if m := resp.UsageMetadata; m != nil {
		u.PromptTokens = int(m.PromptTokenCount)
		u.CompletionTokens = int(m.CandidatesTokenCount)
		u.TotalTokens = int(m.TotalTokenCount)
	}
	return b.String(), u, nil
}

func (d *geminiDriver) close() error {
	return d.client.Close()
}
