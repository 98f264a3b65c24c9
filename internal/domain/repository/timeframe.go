package repository

// Period is the lookback window requested from the provider.
type Period string

const (
	Period1d  Period = "1d"
	Period5d  Period = "5d"
	Period10d Period = "10d"
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
)

// Interval is the candle granularity requested from the provider.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
	Interval1wk Interval = "1wk"
)

// IsValidPeriod returns true if p is a supported period.
func IsValidPeriod(p Period) bool {
	switch p {
	case Period1d, Period5d, Period10d, Period1mo, Period3mo, Period6mo, Period1y, Period2y:
		return true
	default:
		return false
	}
}

// IsValidInterval returns true if i is a supported interval.
func IsValidInterval(i Interval) bool {
	switch i {
	case Interval1m, Interval5m, Interval15m, Interval30m, Interval1h, Interval1d, Interval1wk:
		return true
	default:
		return false
	}
}

// Timeframe describes one chart series: a label and the window used to fetch it.
// SessionFilter keeps only the latest calendar date (intraday charts).
type Timeframe struct {
	Label         string
	Period        Period
	Interval      Interval
	SessionFilter bool
}

// DefaultTimeframes returns the dashboard chart windows.
func DefaultTimeframes() []Timeframe {
	return []Timeframe{
		{Label: "1D", Period: Period5d, Interval: Interval1m, SessionFilter: true},
		{Label: "5D", Period: Period5d, Interval: Interval15m},
		{Label: "1Y", Period: Period1y, Interval: Interval1d},
	}
}
