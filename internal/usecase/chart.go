package usecase

import (
	"context"
	"sync"

	"TradeSentry/internal/domain/models"
	drepo "TradeSentry/internal/domain/repository"
	"TradeSentry/pkg/logger"
	"TradeSentry/pkg/util"
)

// ChartUseCase builds the multi-timeframe chart from independent fetches.
type ChartUseCase struct {
	md         drepo.MarketData
	log        *logger.Logger
	timeframes []drepo.Timeframe
}

func NewChartUseCase(md drepo.MarketData, log *logger.Logger, timeframes []drepo.Timeframe) *ChartUseCase {
	if len(timeframes) == 0 {
		timeframes = drepo.DefaultTimeframes()
	}
	return &ChartUseCase{md: md, log: log, timeframes: timeframes}
}

// BuildChartData fetches every configured timeframe concurrently. Timeframes
// that fail or come back empty are left out of the result.
func (uc *ChartUseCase) BuildChartData(ctx context.Context, symbol string) models.ChartData {
	type item struct {
		label  string
		series *models.CandleSeries
	}
	ch := make(chan item, len(uc.timeframes))
	var wg sync.WaitGroup

	for _, tf := range uc.timeframes {
		wg.Add(1)
		go func(tf drepo.Timeframe) {
			defer wg.Done()
			s, err := uc.md.FetchCandles(ctx, symbol, tf.Period, tf.Interval)
			if err != nil {
				uc.log.Warn("chart timeframe rejected",
					logger.String("symbol", symbol),
					logger.String("timeframe", tf.Label),
					logger.Error(err))
				return
			}
			if s == nil {
				return
			}
			candles := s.Candles
			if tf.SessionFilter {
				candles = LatestSession(candles)
			}
			if len(candles) == 0 {
				return
			}
			ch <- item{label: tf.Label, series: &models.CandleSeries{
				Symbol:   symbol,
				Label:    tf.Label,
				Period:   string(tf.Period),
				Interval: string(tf.Interval),
				Candles:  candles,
			}}
		}(tf)
	}

	go func() { wg.Wait(); close(ch) }()

	chart := make(models.ChartData, len(uc.timeframes))
	for it := range ch {
		chart[it.label] = *it.series
	}
	return chart
}

// LatestSession keeps only candles on the calendar date of the last candle.
// Dates are taken in each candle's own (exchange) location.
func LatestSession(candles []models.Candle) []models.Candle {
	if len(candles) == 0 {
		return nil
	}
	last := candles[len(candles)-1].Time
	out := make([]models.Candle, 0, len(candles))
	for _, c := range candles {
		if util.SameDate(c.Time, last) {
			out = append(out, c)
		}
	}
	return out
}
