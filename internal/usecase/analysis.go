package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradeSentry/internal/domain/models"
	drepo "TradeSentry/internal/domain/repository"
	domsvc "TradeSentry/internal/domain/service"
	"TradeSentry/pkg/logger"
)

// ReportQueue accepts finished reports for asynchronous persistence.
// Submit must not block; it returns false when the report was dropped.
type ReportQueue interface {
	Submit(r *models.AggregateReport) bool
}

// AnalysisUseCase sequences pivots, charts, remote signals and the verdict
// into one AggregateReport.
type AnalysisUseCase struct {
	pivots  *PivotUseCase
	charts  *ChartUseCase
	signals *SignalGateway
	verdict domsvc.Verdicter
	reports ReportQueue
	metrics drepo.Metrics
	log     *logger.Logger
	window  int
	now     func() time.Time
}

func NewAnalysisUseCase(
	pivots *PivotUseCase,
	charts *ChartUseCase,
	signals *SignalGateway,
	verdict domsvc.Verdicter,
	reports ReportQueue,
	metrics drepo.Metrics,
	log *logger.Logger,
	window int,
) *AnalysisUseCase {
	if window <= 0 {
		window = 100
	}
	return &AnalysisUseCase{
		pivots:  pivots,
		charts:  charts,
		signals: signals,
		verdict: verdict,
		reports: reports,
		metrics: metrics,
		log:     log,
		window:  window,
		now:     time.Now,
	}
}

// Analyze builds the report for a raw ticker. Only a missing pivot snapshot
// fails the request; every other stage degrades inside the report.
func (uc *AnalysisUseCase) Analyze(ctx context.Context, ticker string) (*models.AggregateReport, error) {
	symbol := models.NormalizeSymbol(ticker)
	if models.SymbolBase(symbol) == "" {
		return nil, models.ErrInvalidSymbol
	}

	start := time.Now()
	defer func() { uc.metrics.RecordLatency("analyze", time.Since(start).Seconds()) }()

	snap, ok := uc.pivots.Snapshot(ctx, symbol)
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, models.ErrNoMarketData)
	}

	chart := uc.charts.BuildChartData(ctx, symbol)
	var closes []float64
	if longest, ok := chart.Longest(); ok {
		closes = longest.Closes(uc.window)
	}

	var (
		wg        sync.WaitGroup
		trend     models.SignalResult
		sentiment models.SignalResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		trend = uc.signals.TrendSignal(ctx, closes)
	}()
	go func() {
		defer wg.Done()
		sentiment = uc.signals.SentimentSignal(ctx, symbol)
	}()
	wg.Wait()

	report := &models.AggregateReport{
		Symbol:      symbol,
		Price:       snap.CurrentPrice,
		Pivots:      snap,
		Trend:       trend,
		Sentiment:   sentiment,
		Chart:       chart,
		GeneratedAt: uc.now(),
	}
	report.Verdict = uc.synthesize(ctx, report)

	if uc.reports != nil && !uc.reports.Submit(report) {
		uc.log.Warn("report dropped", logger.String("symbol", symbol))
	}

	uc.log.Info("analysis complete",
		logger.String("symbol", symbol),
		logger.Float64("price", snap.CurrentPrice),
		logger.String("trend", string(trend.Status)),
		logger.String("sentiment", string(sentiment.Status)),
		logger.Int("timeframes", len(chart)),
		logger.Duration("elapsed_ms", time.Since(start)))
	return report, nil
}

func (uc *AnalysisUseCase) synthesize(ctx context.Context, r *models.AggregateReport) string {
	if uc.verdict == nil {
		return ""
	}
	start := time.Now()
	text, err := uc.verdict.Verdict(ctx, models.VerdictInput{
		Symbol:    r.Symbol,
		Price:     r.Price,
		Pivots:    r.Pivots,
		Trend:     r.Trend,
		Sentiment: r.Sentiment,
	})
	uc.metrics.RecordLatency("verdict", time.Since(start).Seconds())
	if err != nil {
		uc.log.Warn("verdict failed", logger.String("symbol", r.Symbol), logger.Error(err))
		uc.metrics.RecordError("verdict")
		return "AI Error: " + err.Error()
	}
	return text
}
