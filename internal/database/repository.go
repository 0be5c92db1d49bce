package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type DeckRun struct {
	ID              uuid.UUID `json:"id"`
	Topic           string    `json:"topic"`
	Theme           string    `json:"theme"`
	RequestedSlides int       `json:"requested_slides"`
	Slides          int       `json:"slides"`
	OutlineFallback bool      `json:"outline_fallback"`
	OutlineReason   string    `json:"outline_reason"`
	ImageFallbacks  int       `json:"image_fallbacks"`
	OutputPath      string    `json:"output_path"`
	DurationMS      int64     `json:"duration_ms"`
	CreatedAt       time.Time `json:"created_at"`
}

type AIUsage struct {
	ID               int       `json:"id"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	Cost             float64   `json:"cost"`
	CreatedAt        time.Time `json:"created_at"`
}

func SaveDeck(ctx context.Context, db *sql.DB, r *DeckRun) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	query := `
		INSERT INTO deck_runs (id, topic, theme, requested_slides, slides, outline_fallback, outline_reason, image_fallbacks, output_path, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	return db.QueryRowContext(ctx, query, r.ID, r.Topic, r.Theme, r.RequestedSlides, r.Slides,
		r.OutlineFallback, r.OutlineReason, r.ImageFallbacks, r.OutputPath, r.DurationMS).Scan(&r.CreatedAt)
}

func GetRecentDecks(ctx context.Context, db *sql.DB, limit int) ([]DeckRun, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, theme, requested_slides, slides, outline_fallback, outline_reason, image_fallbacks, output_path, duration_ms, created_at
		FROM deck_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []DeckRun
	for rows.Next() {
		var r DeckRun
		if err := rows.Scan(&r.ID, &r.Topic, &r.Theme, &r.RequestedSlides, &r.Slides, &r.OutlineFallback,
			&r.OutlineReason, &r.ImageFallbacks, &r.OutputPath, &r.DurationMS, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func GetDeckCount(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM deck_runs").Scan(&count)
	return count, err
}

func ClearHistory(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, "DELETE FROM deck_runs")
	return err
}

func LogAIUsage(ctx context.Context, db *sql.DB, u *AIUsage) error {
	query := `
		INSERT INTO ai_usage (provider, model, prompt_tokens, completion_tokens, total_tokens, cost)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.ExecContext(ctx, query, u.Provider, u.Model, u.PromptTokens, u.CompletionTokens, u.TotalTokens, u.Cost)
	return err
}

func GetTotalAICost(ctx context.Context, db *sql.DB) (float64, error) {
	var total float64
	err := db.QueryRowContext(ctx, "SELECT COALESCE(SUM(cost), 0) FROM ai_usage").Scan(&total)
	return total, err
}
