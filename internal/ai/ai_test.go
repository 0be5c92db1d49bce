package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gnemet/DeckForge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usageSink struct {
	got []Usage
	err error
}

func (s *usageSink) RecordUsage(_ context.Context, u Usage) error {
	s.got = append(s.got, u)
	return s.err
}

func fakeChatServer(t *testing.T, status int, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"bad request","type":"invalid_request_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "llama-3.3-70b-versatile",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 1000, "completion_tokens": 500, "total_tokens": 1500},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func groqSettings(endpoint string) config.ProviderSettings {
	return config.ProviderSettings{
		Driver:          "openai",
		Key:             "gsk_test",
		Endpoint:        endpoint,
		Model:           "llama-3.3-70b-versatile",
		Temperature:     0.7,
		MaxTokens:       1500,
		PromptPrice:     1,
		CompletionPrice: 2,
	}
}

func TestMissingKeyFailsAtConstruction(t *testing.T) {
	_, err := NewProviderClient(context.Background(), "groq", config.ProviderSettings{Driver: "openai"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewProviderClient(context.Background(), "gemini", config.ProviderSettings{Driver: "gemini"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestUnknownDriver(t *testing.T) {
	_, err := NewProviderClient(context.Background(), "x", config.ProviderSettings{Driver: "telepathy", Key: "k"})
	assert.ErrorContains(t, err, "telepathy")
}

func TestNewClientUsesActiveProvider(t *testing.T) {
	cfg := &config.Config{AI: config.AIConfig{
		ActiveProvider: "mock",
		Providers:      map[string]config.ProviderSettings{"mock": {Driver: "mock", Model: "mock"}},
	}}
	c, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "mock", c.Provider())
}

func TestOpenAICompatibleCompletion(t *testing.T) {
	var body map[string]any
	srv := fakeChatServer(t, http.StatusOK, "```json\n[]\n```", &body)

	c, err := NewProviderClient(context.Background(), "groq", groqSettings(srv.URL+"/v1/"))
	require.NoError(t, err)
	sink := &usageSink{}
	c.Recorder = sink

	text, err := c.GenerateContent(context.Background(), "outline please")
	require.NoError(t, err)
	assert.Equal(t, "```json\n[]\n```", text)

	assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-9)
	assert.EqualValues(t, 1500, body["max_tokens"])

	require.Len(t, sink.got, 1)
	u := sink.got[0]
	assert.Equal(t, "groq", u.Provider)
	assert.Equal(t, 1500, u.TotalTokens)
	assert.InDelta(t, 0.002, u.Cost, 1e-12)
}

func TestRecorderFailureDoesNotFailCompletion(t *testing.T) {
	srv := fakeChatServer(t, http.StatusOK, "hello", nil)
	c, err := NewProviderClient(context.Background(), "groq", groqSettings(srv.URL+"/v1/"))
	require.NoError(t, err)
	c.Recorder = &usageSink{err: errors.New("db down")}

	text, err := c.GenerateContent(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestOpenAIErrorStatus(t *testing.T) {
	srv := fakeChatServer(t, http.StatusBadRequest, "", nil)
	c, err := NewProviderClient(context.Background(), "groq", groqSettings(srv.URL+"/v1/"))
	require.NoError(t, err)

	_, err = c.GenerateContent(context.Background(), "hi")
	assert.ErrorContains(t, err, "groq")
}

func TestEmptyCompletionIsAnError(t *testing.T) {
	srv := fakeChatServer(t, http.StatusOK, "   ", nil)
	c, err := NewProviderClient(context.Background(), "groq", groqSettings(srv.URL+"/v1/"))
	require.NoError(t, err)

	_, err = c.GenerateContent(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestMockDriverNeedsNoKey(t *testing.T) {
	c, err := NewProviderClient(context.Background(), "mock", config.ProviderSettings{Driver: "mock", Model: "mock"})
	require.NoError(t, err)
	defer c.Close()

	text, err := c.GenerateContent(context.Background(), "anything")
	require.NoError(t, err)
	assert.Contains(t, text, "```json")
	assert.Equal(t, "mock", c.Model())
}
