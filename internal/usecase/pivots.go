package usecase

import (
	"context"
	"time"

	"TradeSentry/internal/domain/models"
	drepo "TradeSentry/internal/domain/repository"
	"TradeSentry/internal/services/technical"
	"TradeSentry/pkg/logger"
)

// PivotUseCase fetches a short daily window and derives the pivot snapshot.
type PivotUseCase struct {
	md       drepo.MarketData
	metrics  drepo.Metrics
	log      *logger.Logger
	period   drepo.Period
	interval drepo.Interval
}

func NewPivotUseCase(md drepo.MarketData, metrics drepo.Metrics, log *logger.Logger, period drepo.Period, interval drepo.Interval) *PivotUseCase {
	return &PivotUseCase{md: md, metrics: metrics, log: log, period: period, interval: interval}
}

// Snapshot returns the pivot snapshot for an already normalized symbol.
// ok is false when fewer than two usable sessions are available.
func (uc *PivotUseCase) Snapshot(ctx context.Context, symbol string) (models.PivotSnapshot, bool) {
	start := time.Now()
	defer func() { uc.metrics.RecordLatency("pivots", time.Since(start).Seconds()) }()

	series, err := uc.md.FetchCandles(ctx, symbol, uc.period, uc.interval)
	if err != nil {
		uc.log.Error("pivot window rejected", logger.String("symbol", symbol), logger.Error(err))
		return models.PivotSnapshot{}, false
	}

	snap, ok := technical.Snapshot(symbol, series)
	if !ok {
		uc.log.Debug("pivot snapshot unavailable",
			logger.String("symbol", symbol),
			logger.Int("rows", series.Len()))
		return models.PivotSnapshot{}, false
	}
	uc.metrics.RecordLastPrice(symbol, snap.CurrentPrice)
	return snap, true
}
