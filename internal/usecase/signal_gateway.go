package usecase

import (
	"context"
	"time"

	"TradeSentry/internal/domain/models"
	drepo "TradeSentry/internal/domain/repository"
	domsvc "TradeSentry/internal/domain/service"
	"TradeSentry/internal/services/features"
	"TradeSentry/pkg/logger"
	"TradeSentry/pkg/util"
)

// GatewayConfig tunes feature preparation for the remote models.
type GatewayConfig struct {
	Enabled   bool // an inference endpoint is configured
	Lookback  int
	RSIPeriod int
	Headlines int
}

// SignalGateway turns remote model calls into SignalResults. It never returns
// an error: every failure degrades to a labeled neutral result.
type SignalGateway struct {
	trend     domsvc.TrendScorer
	sentiment domsvc.SentimentScorer
	news      drepo.NewsSource
	metrics   drepo.Metrics
	log       *logger.Logger
	cfg       GatewayConfig
}

func NewSignalGateway(
	trend domsvc.TrendScorer,
	sentiment domsvc.SentimentScorer,
	news drepo.NewsSource,
	metrics drepo.Metrics,
	log *logger.Logger,
	cfg GatewayConfig,
) *SignalGateway {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 60
	}
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = 14
	}
	if cfg.Headlines <= 0 {
		cfg.Headlines = 5
	}
	return &SignalGateway{
		trend:     trend,
		sentiment: sentiment,
		news:      news,
		metrics:   metrics,
		log:       log,
		cfg:       cfg,
	}
}

// TrendSignal scores the close series. Too few valid feature rows yields
// no-data without calling the remote model.
func (g *SignalGateway) TrendSignal(ctx context.Context, closes []float64) models.SignalResult {
	res := g.trendSignal(ctx, closes)
	g.metrics.RecordSignal(string(res.Kind), string(res.Status))
	return res
}

func (g *SignalGateway) trendSignal(ctx context.Context, closes []float64) models.SignalResult {
	if !g.cfg.Enabled || g.trend == nil {
		return models.NoService(models.SignalTrend)
	}

	rows, ok := features.TrendWindow(closes, g.cfg.RSIPeriod, g.cfg.Lookback)
	if !ok {
		return models.NoData(models.SignalTrend)
	}
	feats := make([][2]float64, len(rows))
	for i, r := range rows {
		feats[i] = r
	}

	start := time.Now()
	score, err := g.trend.ScoreTrend(ctx, domsvc.TrendRequest{Closes: closes, Features: feats})
	g.metrics.RecordLatency("trend_remote", time.Since(start).Seconds())
	if err != nil {
		g.log.Warn("trend inference failed", logger.Int("closes", len(closes)), logger.Error(err))
		g.metrics.RecordError("trend_remote")
		return models.Failed(models.SignalTrend)
	}
	return models.Computed(models.SignalTrend, score.Signal, util.Round2(score.Confidence))
}

// SentimentSignal scores the most recent headlines for symbol.
func (g *SignalGateway) SentimentSignal(ctx context.Context, symbol string) models.SignalResult {
	res := g.sentimentSignal(ctx, symbol)
	g.metrics.RecordSignal(string(res.Kind), string(res.Status))
	return res
}

func (g *SignalGateway) sentimentSignal(ctx context.Context, symbol string) models.SignalResult {
	if !g.cfg.Enabled || g.sentiment == nil {
		return models.NoService(models.SignalSentiment)
	}
	if g.news == nil {
		return models.NoData(models.SignalSentiment)
	}

	headlines, err := g.news.Headlines(ctx, symbol, g.cfg.Headlines)
	if err != nil {
		g.log.Warn("news fetch failed", logger.String("symbol", symbol), logger.Error(err))
		g.metrics.RecordError("news")
		return models.Failed(models.SignalSentiment)
	}
	if len(headlines) == 0 {
		return models.NoData(models.SignalSentiment)
	}

	start := time.Now()
	label, err := g.sentiment.ScoreSentiment(ctx, headlines)
	g.metrics.RecordLatency("sentiment_remote", time.Since(start).Seconds())
	if err != nil {
		g.log.Warn("sentiment inference failed", logger.String("symbol", symbol), logger.Error(err))
		g.metrics.RecordError("sentiment_remote")
		return models.Failed(models.SignalSentiment)
	}
	return models.Computed(models.SignalSentiment, label, 0)
}
