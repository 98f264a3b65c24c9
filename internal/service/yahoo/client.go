package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"TradeSentry/internal/domain/models"
	drepo "TradeSentry/internal/domain/repository"
	xhttp "TradeSentry/pkg/http"
	"TradeSentry/pkg/logger"
)

// Client implements MarketData and NewsSource on top of the Yahoo Finance
// chart and search APIs.
type Client struct {
	baseURL   string
	userAgent string
	http      *xhttp.Client
	log       *logger.Logger
	metrics   drepo.Metrics
}

// Option configures Client.
type Option func(*Client)

// WithUserAgent overrides the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMetrics attaches a metrics recorder for fetch outcomes.
func WithMetrics(m drepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a new Yahoo Finance client.
func New(baseURL string, timeout time.Duration, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		userAgent: "Mozilla/5.0",
		http:      xhttp.NewClient(xhttp.WithTimeout(timeout)),
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chartEnvelope struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol               string  `json:"symbol"`
		ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
		GMTOffset            int     `json:"gmtoffset"`
		RegularMarketPrice   float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote rawJSON `json:"quote"`
	} `json:"indicators"`
}

// FetchCandles returns the candles for symbol over period at interval.
// Transport failures, empty results and unrecognized payloads all yield a
// nil series with a nil error.
func (c *Client) FetchCandles(ctx context.Context, symbol string, period drepo.Period, interval drepo.Interval) (*models.CandleSeries, error) {
	if !drepo.IsValidPeriod(period) {
		return nil, fmt.Errorf("unsupported period %q", period)
	}
	if !drepo.IsValidInterval(interval) {
		return nil, fmt.Errorf("unsupported interval %q", interval)
	}

	start := time.Now()
	defer func() { c.recordLatency("provider_chart", start) }()

	var env chartEnvelope
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol),
		Headers: map[string]string{
			"User-Agent": c.userAgent,
			"Accept":     "application/json",
		},
		QueryParams: map[string][]string{
			"range":    {string(period)},
			"interval": {string(interval)},
		},
	}, &env)
	if err != nil {
		c.log.Warn("chart fetch failed",
			logger.String("symbol", symbol),
			logger.String("period", string(period)),
			logger.String("interval", string(interval)),
			logger.Error(err))
		c.recordFetch(string(interval), "error")
		return nil, nil
	}
	if env.Chart.Error != nil || len(env.Chart.Result) == 0 {
		c.recordFetch(string(interval), "absent")
		return nil, nil
	}

	res := env.Chart.Result[0]
	cols, shape, ok := detectColumns(res.Indicators.Quote, symbol)
	if !ok {
		c.log.Warn("unrecognized chart payload",
			logger.String("symbol", symbol),
			logger.String("interval", string(interval)))
		c.recordFetch(string(interval), "absent")
		return nil, nil
	}

	loc := exchangeLocation(res.Meta.ExchangeTimezoneName, res.Meta.GMTOffset)
	candles := buildCandles(res.Timestamp, cols, loc)
	if len(candles) == 0 {
		c.recordFetch(string(interval), "absent")
		return nil, nil
	}

	c.log.Debug("chart fetched",
		logger.String("symbol", symbol),
		logger.String("shape", shape),
		logger.Int("rows", len(candles)))
	c.recordFetch(string(interval), "ok")

	return &models.CandleSeries{
		Symbol:   symbol,
		Period:   string(period),
		Interval: string(interval),
		Candles:  candles,
	}, nil
}

// exchangeLocation resolves the exchange time zone, falling back to the fixed
// GMT offset and finally UTC.
func exchangeLocation(name string, gmtOffset int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if gmtOffset != 0 {
		return time.FixedZone("", gmtOffset)
	}
	return time.UTC
}

// buildCandles zips timestamps with price columns, skipping rows with a
// missing price, then orders by time keeping the last row per timestamp.
func buildCandles(ts []int64, cols columns, loc *time.Location) []models.Candle {
	open, high, low, closes := cols["open"], cols["high"], cols["low"], cols["close"]
	volume := cols["volume"]

	byTime := make(map[int64]models.Candle, len(ts))
	for i, sec := range ts {
		o, okO := at(open, i)
		h, okH := at(high, i)
		l, okL := at(low, i)
		cl, okC := at(closes, i)
		if !okO || !okH || !okL || !okC {
			continue
		}
		v, _ := at(volume, i)
		byTime[sec] = models.Candle{
			Time:   time.Unix(sec, 0).In(loc),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: v,
		}
	}

	out := make([]models.Candle, 0, len(byTime))
	for _, cd := range byTime {
		out = append(out, cd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

func at(col []*float64, i int) (float64, bool) {
	if i >= len(col) || col[i] == nil {
		return 0, false
	}
	return *col[i], true
}

func (c *Client) recordFetch(timeframe, result string) {
	if c.metrics != nil {
		c.metrics.RecordFetch(timeframe, result)
	}
}

func (c *Client) recordLatency(op string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordLatency(op, time.Since(start).Seconds())
	}
}
