package service

import (
	"context"

	"TradeSentry/internal/domain/models"
)

// TrendScorer asks the remote trend model for a direction over prepared features.
type TrendScorer interface {
	ScoreTrend(ctx context.Context, req TrendRequest) (TrendScore, error)
}

// SentimentScorer asks the remote sentiment model to label headlines.
type SentimentScorer interface {
	ScoreSentiment(ctx context.Context, headlines []string) (string, error)
}

// Verdicter synthesizes a trading verdict from the aggregated signals.
type Verdicter interface {
	Verdict(ctx context.Context, in models.VerdictInput) (string, error)
}

// ChatResponder answers follow-up questions about a previous analysis.
type ChatResponder interface {
	Answer(ctx context.Context, in models.ChatInput) (string, error)
}

// TrendRequest is the remote trend payload: the raw close window plus the
// scaled [return, rsi] feature rows derived from it.
type TrendRequest struct {
	Closes   []float64
	Features [][2]float64
}

// TrendScore is the remote trend answer.
type TrendScore struct {
	Signal     string
	Confidence float64
}
