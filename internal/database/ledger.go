package database

import (
	"context"
	"database/sql"

	"github.com/gnemet/DeckForge/internal/ai"
	"github.com/gnemet/DeckForge/internal/deck"
)

// Ledger records finished runs and model usage. It satisfies deck.Recorder
// and ai.UsageRecorder.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) RecordRun(ctx context.Context, r deck.Run) error {
	return SaveDeck(ctx, l.db, deckRunFrom(r))
}

func (l *Ledger) RecordUsage(ctx context.Context, u ai.Usage) error {
	return LogAIUsage(ctx, l.db, usageFrom(u))
}

func (l *Ledger) Recent(ctx context.Context, limit int) ([]DeckRun, error) {
	return GetRecentDecks(ctx, l.db, limit)
}

func (l *Ledger) TotalCost(ctx context.Context) (float64, error) {
	return GetTotalAICost(ctx, l.db)
}

func deckRunFrom(r deck.Run) *DeckRun {
	return &DeckRun{
		Topic:           r.Topic,
		Theme:           r.Theme,
		RequestedSlides: r.Requested,
		Slides:          r.Slides,
		OutlineFallback: r.OutlineFallback,
		OutlineReason:   r.OutlineReason,
		ImageFallbacks:  r.ImageFallbacks,
		OutputPath:      r.OutputPath,
		DurationMS:      r.Duration.Milliseconds(),
	}
}

func usageFrom(u ai.Usage) *AIUsage {
	return &AIUsage{
		Provider:         u.Provider,
		Model:            u.Model,
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
		Cost:             u.Cost,
	}
}
