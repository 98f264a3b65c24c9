package features

import (
	"math"

	"github.com/markcheno/go-talib"
)

// Row is one engineered observation: percentage return and RSI.
type Row [2]float64

// ComputeReturns computes simple returns r_t = (C_t - C_{t-1}) / C_{t-1}.
// The first element has no predecessor and is NaN.
func ComputeReturns(closes []float64) []float64 {
	if len(closes) == 0 {
		return nil
	}
	out := talib.Rocp(closes, 1)
	out[0] = math.NaN()
	return out
}

// ComputeRSI computes a rolling-mean relative strength index over period.
// Rows before the window fills, and rows with neither gains nor losses, are NaN.
func ComputeRSI(closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || n < period {
		return out
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}

	avgGain := talib.Sma(gains, period)
	avgLoss := talib.Sma(losses, period)
	for i := period - 1; i < n; i++ {
		g, l := avgGain[i], avgLoss[i]
		switch {
		case l == 0 && g == 0:
			// undefined
		case l == 0:
			out[i] = 100
		default:
			out[i] = 100 - 100/(1+g/l)
		}
	}
	return out
}

// BuildRows pairs returns with RSI and drops rows where either is undefined.
func BuildRows(closes []float64, rsiPeriod int) []Row {
	returns := ComputeReturns(closes)
	rsi := ComputeRSI(closes, rsiPeriod)

	rows := make([]Row, 0, len(closes))
	for i := range closes {
		if math.IsNaN(returns[i]) || math.IsNaN(rsi[i]) || math.IsInf(returns[i], 0) {
			continue
		}
		rows = append(rows, Row{returns[i], rsi[i]})
	}
	return rows
}

// ScaleRows min-max scales each column of rows into [-1, 1].
// A constant column maps to -1.
func ScaleRows(rows []Row) []Row {
	if len(rows) == 0 {
		return nil
	}
	var lo, hi Row
	for c := 0; c < 2; c++ {
		lo[c], hi[c] = rows[0][c], rows[0][c]
	}
	for _, r := range rows[1:] {
		for c := 0; c < 2; c++ {
			lo[c] = math.Min(lo[c], r[c])
			hi[c] = math.Max(hi[c], r[c])
		}
	}

	out := make([]Row, len(rows))
	for i, r := range rows {
		for c := 0; c < 2; c++ {
			span := hi[c] - lo[c]
			if span == 0 {
				out[i][c] = -1
				continue
			}
			out[i][c] = (r[c]-lo[c])/span*2 - 1
		}
	}
	return out
}

// TrendWindow prepares the last lookback rows of scaled features.
// It returns false when fewer than lookback valid rows exist.
func TrendWindow(closes []float64, rsiPeriod, lookback int) ([]Row, bool) {
	if lookback <= 0 {
		return nil, false
	}
	rows := BuildRows(closes, rsiPeriod)
	if len(rows) < lookback {
		return nil, false
	}
	return ScaleRows(rows[len(rows)-lookback:]), true
}
