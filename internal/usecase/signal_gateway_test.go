package usecase

import (
	"context"
	"testing"

	"TradeSentry/internal/domain/models"
	domsvc "TradeSentry/internal/domain/service"
	"TradeSentry/pkg/logger"
	"TradeSentry/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(enabled bool, tr *fakeTrend, se *fakeSentiment, news *fakeNews) *SignalGateway {
	return NewSignalGateway(tr, se, news, metrics.Nop{}, logger.NewNop(), GatewayConfig{Enabled: enabled})
}

func TestSignalGateway_NoServiceMakesNoCalls(t *testing.T) {
	tr, se, news := &fakeTrend{}, &fakeSentiment{}, &fakeNews{headlines: []string{"a"}}
	g := newGateway(false, tr, se, news)

	trend := g.TrendSignal(context.Background(), wave(200))
	sentiment := g.SentimentSignal(context.Background(), "TCS.NS")

	assert.Equal(t, models.NoService(models.SignalTrend), trend)
	assert.Equal(t, "NEUTRAL", trend.Label)
	assert.Equal(t, models.NoService(models.SignalSentiment), sentiment)
	assert.Equal(t, "Neutral (Model Missing)", sentiment.Label)
	assert.Zero(t, tr.calls.Load())
	assert.Zero(t, se.calls.Load())
	assert.Zero(t, news.calls.Load())
}

func TestSignalGateway_InsufficientHistoryMakesNoCall(t *testing.T) {
	tr := &fakeTrend{score: domsvc.TrendScore{Signal: "BULLISH", Confidence: 80}}
	g := newGateway(true, tr, &fakeSentiment{}, &fakeNews{})

	// 72 closes leave 59 rows once RSI warm-up is dropped
	res := g.TrendSignal(context.Background(), wave(72))

	assert.Equal(t, models.StatusNoData, res.Status)
	assert.Equal(t, "INSUFFICIENT_DATA", res.Label)
	assert.Zero(t, tr.calls.Load())

	res = g.TrendSignal(context.Background(), nil)
	assert.Equal(t, models.StatusNoData, res.Status)
	assert.Zero(t, tr.calls.Load())
}

func TestSignalGateway_TrendComputed(t *testing.T) {
	tr := &fakeTrend{score: domsvc.TrendScore{Signal: "BULLISH", Confidence: 71.2345}}
	g := newGateway(true, tr, &fakeSentiment{}, &fakeNews{})
	closes := wave(100)

	res := g.TrendSignal(context.Background(), closes)

	require.True(t, res.IsComputed())
	assert.Equal(t, "BULLISH", res.Label)
	assert.Equal(t, 71.23, res.Confidence)
	assert.Equal(t, int32(1), tr.calls.Load())
	assert.Equal(t, closes, tr.last.Closes)
	require.Len(t, tr.last.Features, 60)
	for _, row := range tr.last.Features {
		for _, v := range row {
			assert.True(t, v >= -1 && v <= 1, "feature %v out of range", v)
		}
	}
}

func TestSignalGateway_RemoteErrorIsErrorVariant(t *testing.T) {
	tr := &fakeTrend{err: errRemote}
	se := &fakeSentiment{err: errRemote}
	g := newGateway(true, tr, se, &fakeNews{headlines: []string{"Q3 profit up"}})

	trend := g.TrendSignal(context.Background(), wave(100))
	sentiment := g.SentimentSignal(context.Background(), "TCS.NS")

	assert.Equal(t, models.Failed(models.SignalTrend), trend)
	assert.Equal(t, "ERROR", trend.Label)
	assert.Equal(t, models.Failed(models.SignalSentiment), sentiment)
	assert.Equal(t, int32(1), tr.calls.Load())
	assert.Equal(t, int32(1), se.calls.Load())
}

func TestSignalGateway_Sentiment(t *testing.T) {
	t.Run("no headlines", func(t *testing.T) {
		se := &fakeSentiment{label: "Positive"}
		res := newGateway(true, &fakeTrend{}, se, &fakeNews{}).SentimentSignal(context.Background(), "TCS.NS")

		assert.Equal(t, "Neutral (No News)", res.Label)
		assert.Equal(t, models.StatusNoData, res.Status)
		assert.Zero(t, se.calls.Load())
	})
	t.Run("news failure", func(t *testing.T) {
		se := &fakeSentiment{label: "Positive"}
		res := newGateway(true, &fakeTrend{}, se, &fakeNews{err: errRemote}).SentimentSignal(context.Background(), "TCS.NS")

		assert.Equal(t, models.StatusError, res.Status)
		assert.Zero(t, se.calls.Load())
	})
	t.Run("computed", func(t *testing.T) {
		se := &fakeSentiment{label: "Positive"}
		res := newGateway(true, &fakeTrend{}, se, &fakeNews{headlines: []string{"a", "b"}}).SentimentSignal(context.Background(), "TCS.NS")

		assert.True(t, res.IsComputed())
		assert.Equal(t, "Positive", res.Label)
	})
}
