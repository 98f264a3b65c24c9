package repository

import (
	"context"

	"TradeSentry/internal/domain/models"
)

// MarketData fetches OHLCV candles from the upstream provider.
// A nil series with a nil error means the data is absent (empty response,
// unrecognized schema or transport failure). A non-nil error is reserved
// for invalid arguments.
type MarketData interface {
	FetchCandles(ctx context.Context, symbol string, period Period, interval Interval) (*models.CandleSeries, error)
}

// NewsSource returns the most recent headlines for a symbol, newest first.
type NewsSource interface {
	Headlines(ctx context.Context, symbol string, limit int) ([]string, error)
}

// ReportPublisher forwards finished analysis reports to a message broker.
type ReportPublisher interface {
	Publish(ctx context.Context, r *models.AggregateReport) error
	PublishBatch(ctx context.Context, rs []*models.AggregateReport) error
	Close() error
}

// ReportStorage persists finished analysis reports.
type ReportStorage interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, r *models.AggregateReport) error
	StoreBatch(ctx context.Context, rs []*models.AggregateReport) error
	Close() error
}

// Metrics collects operational counters and timings.
type Metrics interface {
	RecordFetch(timeframe, result string)
	RecordSignal(kind, status string)
	RecordMessageSent(backend, symbol string)
	RecordLivePush(symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
