package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalVariants(t *testing.T) {
	c := Computed(SignalTrend, "BULLISH", 130)
	assert.True(t, c.IsComputed())
	assert.Equal(t, 100.0, c.Confidence)
	assert.Equal(t, 0.0, Computed(SignalTrend, "BEARISH", -5).Confidence)

	assert.Equal(t, "NEUTRAL", NoService(SignalTrend).Label)
	assert.Equal(t, "INSUFFICIENT_DATA", NoData(SignalTrend).Label)
	assert.Equal(t, "ERROR", Failed(SignalTrend).Label)
	assert.Equal(t, "Neutral (Model Missing)", NoService(SignalSentiment).Label)
	assert.Equal(t, "Neutral (No News)", NoData(SignalSentiment).Label)
	assert.Equal(t, StatusError, Failed(SignalSentiment).Status)
	assert.False(t, Failed(SignalSentiment).IsComputed())
	assert.Zero(t, NoData(SignalTrend).Confidence)
}

func TestChartDataLongest(t *testing.T) {
	day := time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC)
	mk := func(label string, step time.Duration, n int) CandleSeries {
		s := CandleSeries{Label: label}
		for i := 0; i < n; i++ {
			s.Candles = append(s.Candles, Candle{Time: day.Add(time.Duration(i) * step), Close: float64(i)})
		}
		return s
	}

	_, ok := ChartData{}.Longest()
	assert.False(t, ok)

	chart := ChartData{
		"1D": mk("1D", time.Minute, 375),
		"5D": mk("5D", 15*time.Minute, 125),
		"1Y": mk("1Y", 24*time.Hour, 250),
	}
	best, ok := chart.Longest()
	assert.True(t, ok)
	assert.Equal(t, "1Y", best.Label)
	assert.Equal(t, []float64{248, 249}, best.Closes(2))
}
