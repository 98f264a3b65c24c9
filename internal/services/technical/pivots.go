package technical

import (
	"math"

	"TradeSentry/internal/domain/models"
	"TradeSentry/pkg/util"
)

// Levels are classic floor-trader pivots derived from one completed session.
type Levels struct {
	Pivot, R1, R2, S1, S2 float64
}

// FloorPivots computes pivot levels from high, low and close.
func FloorPivots(high, low, close float64) Levels {
	p := (high + low + close) / 3
	rng := high - low
	return Levels{
		Pivot: p,
		R1:    2*p - low,
		R2:    p + rng,
		S1:    2*p - high,
		S2:    p - rng,
	}
}

// Snapshot derives a PivotSnapshot from a daily series. The last row supplies
// the live price; the second-to-last row is the completed session used for
// the levels. It returns false when fewer than two usable rows exist.
func Snapshot(symbol string, series *models.CandleSeries) (models.PivotSnapshot, bool) {
	if series.Len() < 2 {
		return models.PivotSnapshot{}, false
	}
	live := series.Candles[len(series.Candles)-1]
	done := series.Candles[len(series.Candles)-2]
	if !finite(live.Close, done.High, done.Low, done.Close) {
		return models.PivotSnapshot{}, false
	}

	lv := FloorPivots(done.High, done.Low, done.Close)
	return models.PivotSnapshot{
		Symbol:       symbol,
		CurrentPrice: util.Round2(live.Close),
		PivotPoint:   util.Round2(lv.Pivot),
		Resistance1:  util.Round2(lv.R1),
		Resistance2:  util.Round2(lv.R2),
		Support1:     util.Round2(lv.S1),
		Support2:     util.Round2(lv.S2),
	}, true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
