package technical

import (
	"math"
	"testing"
	"time"

	"TradeSentry/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(rows ...models.Candle) *models.CandleSeries {
	return &models.CandleSeries{Symbol: "TCS.NS", Candles: rows}
}

func TestSnapshotUsesCompletedSession(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := series(
		models.Candle{Time: day, High: 500, Low: 1, Close: 250},
		models.Candle{Time: day.AddDate(0, 0, 1), High: 110, Low: 90, Close: 100},
		models.Candle{Time: day.AddDate(0, 0, 2), High: 130, Low: 70, Close: 123.456},
	)

	snap, ok := Snapshot("TCS.NS", s)
	require.True(t, ok)

	assert.Equal(t, models.PivotSnapshot{
		Symbol:       "TCS.NS",
		CurrentPrice: 123.46,
		PivotPoint:   100,
		Resistance1:  110,
		Resistance2:  120,
		Support1:     90,
		Support2:     80,
	}, snap)
}

func TestSnapshotLivePriceNeverMovesLevels(t *testing.T) {
	done := models.Candle{High: 210.4, Low: 198.2, Close: 205.05}
	a, okA := Snapshot("X.NS", series(done, models.Candle{Close: 1}))
	b, okB := Snapshot("X.NS", series(done, models.Candle{Close: 10_000}))
	require.True(t, okA)
	require.True(t, okB)

	a.CurrentPrice, b.CurrentPrice = 0, 0
	assert.Equal(t, a, b)
}

func TestSnapshotAbsent(t *testing.T) {
	tests := []struct {
		name string
		in   *models.CandleSeries
	}{
		{name: "nil series", in: nil},
		{name: "no rows", in: series()},
		{name: "one row", in: series(models.Candle{High: 1, Low: 1, Close: 1})},
		{name: "nan close", in: series(models.Candle{High: 1, Low: 1, Close: math.NaN()}, models.Candle{Close: 1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, ok := Snapshot("TCS.NS", tt.in)
			assert.False(t, ok)
			assert.Equal(t, models.PivotSnapshot{}, snap)
		})
	}
}

func TestFloorPivots(t *testing.T) {
	lv := FloorPivots(110, 90, 100)
	assert.InDelta(t, 100, lv.Pivot, 1e-9)
	assert.InDelta(t, 110, lv.R1, 1e-9)
	assert.InDelta(t, 120, lv.R2, 1e-9)
	assert.InDelta(t, 90, lv.S1, 1e-9)
	assert.InDelta(t, 80, lv.S2, 1e-9)
}
