package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gnemet/DeckForge/internal/config"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingAPIKey = errors.New("ai: api key is not configured")
	ErrEmptyResponse = errors.New("ai: model returned no text")
)

// Usage is the token accounting of one completion.
type Usage struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Cost             float64 // USD
}

// UsageRecorder receives the usage of every successful completion.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, u Usage) error
}

type driver interface {
	complete(ctx context.Context, prompt string) (string, Usage, error)
	close() error
}

// Client sends single-prompt completions to the configured provider.
type Client struct {
	Recorder UsageRecorder
	Log      *logrus.Entry

	provider string
	settings config.ProviderSettings
	drv      driver
}

// NewClient builds a client for the active provider in cfg.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	name, settings, err := cfg.AI.Active()
	if err != nil {
		return nil, err
	}
	return NewProviderClient(ctx, name, settings)
}

// NewProviderClient builds a client for one provider. Every driver except
// mock needs a key.
func NewProviderClient(ctx context.Context, name string, s config.ProviderSettings) (*Client, error) {
	driverName := strings.ToLower(s.Driver)
	if driverName == "" {
		driverName = name
	}
	if driverName != "mock" && s.Key == "" {
		return nil, fmt.Errorf("%w for provider %q", ErrMissingAPIKey, name)
	}

	var (
		d   driver
		err error
	)
	switch driverName {
	case "openai":
		d = newOpenAIDriver(s)
	case "gemini":
		d, err = newGeminiDriver(ctx, s)
	case "mock":
		d = mockDriver{}
	default:
		return nil, fmt.Errorf("ai: unknown driver %q", s.Driver)
	}
	if err != nil {
		return nil, err
	}

	return &Client{
		Log:      logrus.NewEntry(logrus.StandardLogger()),
		provider: name,
		settings: s,
		drv:      d,
	}, nil
}

func (c *Client) Provider() string { return c.provider }
func (c *Client) Model() string    { return c.settings.Model }

// GenerateContent sends prompt and returns the raw model text.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	text, usage, err := c.drv.complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.provider, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", c.provider, ErrEmptyResponse)
	}

	usage.Provider = c.provider
	usage.Model = c.settings.Model
	usage.Cost = c.cost(usage)
	c.Log.WithFields(logrus.Fields{
		"provider": c.provider,
		"model":    usage.Model,
		"tokens":   usage.TotalTokens,
	}).Debug("completion received")

	if c.Recorder != nil {
		if err := c.Recorder.RecordUsage(ctx, usage); err != nil {
			c.Log.WithError(err).Warn("failed to record ai usage")
		}
	}
	return text, nil
}

func (c *Client) cost(u Usage) float64 {
	return (float64(u.PromptTokens)*c.settings.PromptPrice +
		float64(u.CompletionTokens)*c.settings.CompletionPrice) / 1e6
}

func (c *Client) Close() error {
	return c.drv.close()
}
