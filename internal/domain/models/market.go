package models

import "time"

// Candle is one OHLCV bar. Prices keep full precision; rounding happens at presentation.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// CandleSeries is an ordered (ascending, unique timestamps) run of candles for one
// symbol and timeframe. It is built per request and not mutated afterwards.
type CandleSeries struct {
	Symbol   string
	Label    string
	Period   string
	Interval string
	Candles  []Candle
}

// Len returns the number of candles.
func (s *CandleSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Candles)
}

// Closes returns the close prices of the last n candles (all of them when n <= 0).
func (s *CandleSeries) Closes(n int) []float64 {
	if s == nil {
		return nil
	}
	cs := s.Candles
	if n > 0 && len(cs) > n {
		cs = cs[len(cs)-n:]
	}
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Close
	}
	return out
}

// Span returns the time between the first and last candle.
func (s *CandleSeries) Span() time.Duration {
	if s.Len() < 2 {
		return 0
	}
	return s.Candles[len(s.Candles)-1].Time.Sub(s.Candles[0].Time)
}

// ChartData maps a timeframe label (1D, 5D, 1Y) to its series.
// Timeframes that could not be fetched are absent.
type ChartData map[string]CandleSeries

// Longest returns the series covering the widest time window, preferring more
// rows on ties. ok is false when the chart is empty.
func (c ChartData) Longest() (CandleSeries, bool) {
	var (
		best  CandleSeries
		found bool
	)
	for _, s := range c {
		if !found || s.Span() > best.Span() || (s.Span() == best.Span() && s.Len() > best.Len()) {
			best = s
			found = true
		}
	}
	return best, found
}

// PivotSnapshot holds floor-trader pivot levels of the last completed session and
// the latest (possibly still forming) price. Values are rounded to 2 decimals.
type PivotSnapshot struct {
	Symbol       string
	CurrentPrice float64
	PivotPoint   float64
	Resistance1  float64
	Resistance2  float64
	Support1     float64
	Support2     float64
}

// PriceTick is the payload pushed to live subscribers.
type PriceTick struct {
	Symbol string
	Price  float64
}
