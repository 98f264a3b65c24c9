package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"TradeSentry/internal/domain/models"
	drepo "TradeSentry/internal/domain/repository"
	domsvc "TradeSentry/internal/domain/service"
)

var errRemote = errors.New("remote unavailable")

// fakeMarket serves candles keyed by "period/interval". A nil entry means absent.
type fakeMarket struct {
	mu     sync.Mutex
	series map[string]*models.CandleSeries
	errs   map[string]error
	calls  atomic.Int32
}

func key(p drepo.Period, i drepo.Interval) string {
	return string(p) + "/" + string(i)
}

func (f *fakeMarket) FetchCandles(_ context.Context, symbol string, period drepo.Period, interval drepo.Interval) (*models.CandleSeries, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[key(period, interval)]; err != nil {
		return nil, err
	}
	s := f.series[key(period, interval)]
	if s == nil {
		return nil, nil
	}
	cp := *s
	cp.Symbol = symbol
	return &cp, nil
}

type fakeTrend struct {
	calls atomic.Int32
	score domsvc.TrendScore
	err   error
	last  domsvc.TrendRequest
}

func (f *fakeTrend) ScoreTrend(_ context.Context, req domsvc.TrendRequest) (domsvc.TrendScore, error) {
	f.calls.Add(1)
	f.last = req
	return f.score, f.err
}

type fakeSentiment struct {
	calls atomic.Int32
	label string
	err   error
}

func (f *fakeSentiment) ScoreSentiment(_ context.Context, headlines []string) (string, error) {
	f.calls.Add(1)
	return f.label, f.err
}

type fakeNews struct {
	calls     atomic.Int32
	headlines []string
	err       error
}

func (f *fakeNews) Headlines(_ context.Context, symbol string, limit int) ([]string, error) {
	f.calls.Add(1)
	return f.headlines, f.err
}

type fakeVerdict struct {
	text string
	err  error
	got  models.VerdictInput
}

func (f *fakeVerdict) Verdict(_ context.Context, in models.VerdictInput) (string, error) {
	f.got = in
	return f.text, f.err
}

type fakeQueue struct {
	got []*models.AggregateReport
}

func (f *fakeQueue) Submit(r *models.AggregateReport) bool {
	f.got = append(f.got, r)
	return true
}

// daily returns n daily candles ending on the last given close.
func daily(closes ...float64) *models.CandleSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &models.CandleSeries{}
	for i, c := range closes {
		s.Candles = append(s.Candles, models.Candle{
			Time:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		})
	}
	return s
}

// wave returns n closes that move both up and down.
func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 5*math.Sin(float64(i)/3) + 0.1*float64(i)
	}
	return out
}

// pivotSeries has a completed session of H110/L90/C100 then a live close.
func pivotSeries(live float64) *models.CandleSeries {
	return &models.CandleSeries{Candles: []models.Candle{
		{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Open: 95, High: 110, Low: 90, Close: 100},
		{Time: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Open: 100, High: 102, Low: 99, Close: live},
	}}
}
