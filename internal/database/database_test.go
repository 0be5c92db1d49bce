package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gnemet/DeckForge/internal/ai"
	"github.com/gnemet/DeckForge/internal/deck"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckRunFrom(t *testing.T) {
	r := deckRunFrom(deck.Run{
		Topic:           "Tides",
		Theme:           "Classic Dark",
		Requested:       6,
		Slides:          5,
		OutlineFallback: true,
		OutlineReason:   "outline: no slides",
		ImageFallbacks:  2,
		OutputPath:      "/tmp/tides.pptx",
		Duration:        1500 * time.Millisecond,
	})
	assert.Equal(t, uuid.Nil, r.ID, "ids are assigned on save")
	assert.Equal(t, 6, r.RequestedSlides)
	assert.Equal(t, int64(1500), r.DurationMS)
	assert.True(t, r.OutlineFallback)
}

func TestUsageFrom(t *testing.T) {
	u := usageFrom(ai.Usage{Provider: "groq", Model: "llama", PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3, Cost: 0.5})
	assert.Equal(t, &AIUsage{Provider: "groq", Model: "llama", PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3, Cost: 0.5}, u)
}

// TestLedgerAgainstPostgres runs only when TEST_DB_URL points at a scratch database.
func TestLedgerAgainstPostgres(t *testing.T) {
	url := os.Getenv("TEST_DB_URL")
	if url == "" {
		t.Skip("TEST_DB_URL not set")
	}
	ctx := context.Background()
	db, err := NewConnection(ctx, url)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, EnsureSchema(ctx, db))
	require.NoError(t, ClearHistory(ctx, db))

	l := NewLedger(db)
	require.NoError(t, l.RecordRun(ctx, deck.Run{Topic: "Tides", Theme: "Modern Blue", Requested: 5, Slides: 5, OutputPath: "x.pptx"}))
	require.NoError(t, l.RecordUsage(ctx, ai.Usage{Provider: "mock", Model: "mock", TotalTokens: 10, Cost: 0.25}))

	runs, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "Tides", runs[0].Topic)
	assert.NotEqual(t, uuid.Nil, runs[0].ID)

	n, err := GetDeckCount(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	total, err := l.TotalCost(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 0.25)
}
