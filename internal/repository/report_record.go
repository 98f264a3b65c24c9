package repository

import (
	"time"

	"TradeSentry/internal/domain/models"
)

// reportRecord is the flattened wire/row form of an AggregateReport.
// Chart data is not persisted.
type reportRecord struct {
	GeneratedAt         time.Time `json:"generated_at"`
	Symbol              string    `json:"symbol"`
	Price               float64   `json:"price"`
	PivotPoint          float64   `json:"pivot_point"`
	Resistance1         float64   `json:"resistance_1"`
	Resistance2         float64   `json:"resistance_2"`
	Support1            float64   `json:"support_1"`
	Support2            float64   `json:"support_2"`
	TrendSignal         string    `json:"trend_signal"`
	TrendStatus         string    `json:"trend_status"`
	TrendConfidence     float64   `json:"trend_confidence"`
	SentimentSignal     string    `json:"sentiment_signal"`
	SentimentStatus     string    `json:"sentiment_status"`
	SentimentConfidence float64   `json:"sentiment_confidence"`
	Verdict             string    `json:"verdict"`
	Timeframes          []string  `json:"timeframes"`
}

func toRecord(r *models.AggregateReport) reportRecord {
	tfs := make([]string, 0, len(r.Chart))
	for label := range r.Chart {
		tfs = append(tfs, label)
	}
	return reportRecord{
		GeneratedAt:         r.GeneratedAt.UTC(),
		Symbol:              r.Symbol,
		Price:               r.Price,
		PivotPoint:          r.Pivots.PivotPoint,
		Resistance1:         r.Pivots.Resistance1,
		Resistance2:         r.Pivots.Resistance2,
		Support1:            r.Pivots.Support1,
		Support2:            r.Pivots.Support2,
		TrendSignal:         r.Trend.Label,
		TrendStatus:         string(r.Trend.Status),
		TrendConfidence:     r.Trend.Confidence,
		SentimentSignal:     r.Sentiment.Label,
		SentimentStatus:     string(r.Sentiment.Status),
		SentimentConfidence: r.Sentiment.Confidence,
		Verdict:             r.Verdict,
		Timeframes:          tfs,
	}
}
