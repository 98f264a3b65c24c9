package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zigzag(n int) []float64 {
	out := make([]float64, n)
	price := 100.0
	for i := range out {
		if i%3 == 0 {
			price -= 1
		} else {
			price += 1.5
		}
		out[i] = price
	}
	return out
}

func TestComputeReturns(t *testing.T) {
	r := ComputeReturns([]float64{100, 110, 99})
	require.Len(t, r, 3)
	assert.True(t, math.IsNaN(r[0]))
	assert.InDelta(t, 0.10, r[1], 1e-12)
	assert.InDelta(t, -0.10, r[2], 1e-12)
}

func TestComputeRSI(t *testing.T) {
	t.Run("short series is all undefined", func(t *testing.T) {
		for _, v := range ComputeRSI([]float64{1, 2, 3}, 14) {
			assert.True(t, math.IsNaN(v))
		}
	})

	t.Run("only gains is 100", func(t *testing.T) {
		closes := make([]float64, 20)
		for i := range closes {
			closes[i] = float64(100 + i)
		}
		rsi := ComputeRSI(closes, 14)
		assert.True(t, math.IsNaN(rsi[12]))
		assert.Equal(t, 100.0, rsi[13])
		assert.Equal(t, 100.0, rsi[19])
	})

	t.Run("flat series is undefined", func(t *testing.T) {
		closes := make([]float64, 20)
		for i := range closes {
			closes[i] = 50
		}
		for _, v := range ComputeRSI(closes, 14) {
			assert.True(t, math.IsNaN(v))
		}
	})

	t.Run("balanced moves", func(t *testing.T) {
		closes := []float64{10, 11, 10, 11, 10}
		rsi := ComputeRSI(closes, 4)
		assert.InDelta(t, 50.0, rsi[4], 1e-9)
	})
}

func TestScaleRows(t *testing.T) {
	scaled := ScaleRows([]Row{{0, 5}, {0.5, 5}, {1, 5}})
	assert.Equal(t, []Row{{-1, -1}, {0, -1}, {1, -1}}, scaled)
}

func TestTrendWindow(t *testing.T) {
	t.Run("insufficient", func(t *testing.T) {
		_, ok := TrendWindow(zigzag(72), 14, 60)
		assert.False(t, ok)
	})

	t.Run("sufficient", func(t *testing.T) {
		rows, ok := TrendWindow(zigzag(100), 14, 60)
		require.True(t, ok)
		require.Len(t, rows, 60)
		for _, r := range rows {
			assert.GreaterOrEqual(t, r[0], -1.0)
			assert.LessOrEqual(t, r[0], 1.0)
			assert.GreaterOrEqual(t, r[1], -1.0)
			assert.LessOrEqual(t, r[1], 1.0)
		}
	})
}
