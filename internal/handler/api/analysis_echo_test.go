package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"TradeSentry/internal/domain/models"
	icache "TradeSentry/internal/service/cache"
	svcmetrics "TradeSentry/internal/service/metrics"
	"TradeSentry/internal/service/ratelimit"
	"TradeSentry/internal/usecase"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	calls  atomic.Int32
	report *models.AggregateReport
	err    error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, ticker string) (*models.AggregateReport, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakeChat struct {
	gotTicker  string
	gotContext map[string]interface{}
}

func (f *fakeChat) Answer(_ context.Context, ticker, question string, contextData map[string]interface{}) string {
	f.gotTicker = ticker
	f.gotContext = contextData
	return "answer to " + question
}

type fakeStreamer struct {
	ticks []models.PriceTick
}

func (f *fakeStreamer) Run(ctx context.Context, ticker string, sub usecase.Subscriber) error {
	for _, tk := range f.ticks {
		if err := sub.Push(ctx, tk); err != nil {
			return err
		}
	}
	select {
	case <-sub.Done():
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
	}
	return nil
}

func sampleReport() *models.AggregateReport {
	day := time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)
	return &models.AggregateReport{
		Symbol: "RELIANCE.NS",
		Price:  101.5,
		Pivots: models.PivotSnapshot{
			Symbol:       "RELIANCE.NS",
			CurrentPrice: 101.5,
			PivotPoint:   100,
			Resistance1:  110,
			Resistance2:  120,
			Support1:     90,
			Support2:     80,
		},
		Trend:     models.Computed(models.SignalTrend, "BULLISH", 72.456),
		Sentiment: models.NoService(models.SignalSentiment),
		Chart: models.ChartData{
			"1D": models.CandleSeries{Label: "1D", Candles: []models.Candle{
				{Time: day.Add(time.Minute), Open: 1.004, High: 2.006, Low: 0.5, Close: 1.5},
				{Time: day, Open: 1, High: 2, Low: 0.5, Close: 1.25},
			}},
		},
		Verdict: "WAIT",
	}
}

func newTestEcho(h *AnalysisHandler) *echo.Echo {
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	e := newTestEcho(NewAnalysisHandler(nil, &fakeAnalyzer{}, &fakeChat{}, &fakeStreamer{}))

	rec := do(e, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"TradeSentry System Online"}`, rec.Body.String())
}

func TestAnalyze_Success(t *testing.T) {
	e := newTestEcho(NewAnalysisHandler(nil, &fakeAnalyzer{report: sampleReport()}, &fakeChat{}, &fakeStreamer{}))

	rec := do(e, http.MethodGet, "/api/analyze/reliance", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "RELIANCE.NS", got["symbol"])
	assert.Equal(t, 101.5, got["price"])
	assert.Equal(t, "WAIT", got["ai_analysis"])

	trend := got["trend_signal"].(map[string]interface{})
	assert.Equal(t, "BULLISH", trend["signal"])
	assert.Equal(t, 72.46, trend["confidence"])
	assert.Equal(t, "computed", trend["status"])

	assert.Equal(t, "Neutral (Model Missing)", got["sentiment_signal"])
	assert.Equal(t, "no_service", got["sentiment_status"])

	sr := got["support_resistance"].(map[string]interface{})
	assert.Equal(t, 100.0, sr["pivot_point"])
	assert.Equal(t, map[string]interface{}{"target_1": 110.0, "target_2": 120.0}, sr["resistance"])
	assert.Equal(t, map[string]interface{}{"stop_1": 90.0, "stop_2": 80.0}, sr["support"])

	points := got["chart_data"].(map[string]interface{})["1D"].([]interface{})
	require.Len(t, points, 2)
	first := points[0].(map[string]interface{})
	second := points[1].(map[string]interface{})
	assert.Equal(t, "2024-03-01T09:15:00Z", first["time"])
	assert.Equal(t, "2024-03-01T09:16:00Z", second["time"])
	assert.Equal(t, 1.0, first["open"])
	assert.Equal(t, 2.01, second["high"])
}

func TestAnalyze_ChartDataOmittedWhenEmpty(t *testing.T) {
	r := sampleReport()
	r.Chart = nil
	e := newTestEcho(NewAnalysisHandler(nil, &fakeAnalyzer{report: r}, &fakeChat{}, &fakeStreamer{}))

	rec := do(e, http.MethodGet, "/api/analyze/RELIANCE", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "chart_data")
}

func TestAnalyze_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"invalid", models.ErrInvalidSymbol, http.StatusBadRequest, `{"error":"invalid ticker"}`},
		{"no data", fmt.Errorf("X.NS: %w", models.ErrNoMarketData), http.StatusNotFound, `{"error":"Invalid Ticker or Data Unavailable"}`},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, `{"error":"analysis failed"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho(NewAnalysisHandler(nil, &fakeAnalyzer{err: tc.err}, &fakeChat{}, &fakeStreamer{}))

			rec := do(e, http.MethodGet, "/api/analyze/X", "")

			assert.Equal(t, tc.code, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestAnalyze_CachesBySymbol(t *testing.T) {
	an := &fakeAnalyzer{report: sampleReport()}
	m := svcmetrics.NewHandlerMetrics(prometheus.NewRegistry())
	e := newTestEcho(NewAnalysisHandler(nil, an, &fakeChat{}, &fakeStreamer{},
		WithCache(icache.NewTTLCache(), time.Minute),
		WithMetrics(m)))

	first := do(e, http.MethodGet, "/api/analyze/reliance", "")
	second := do(e, http.MethodGet, "/api/analyze/RELIANCE.NS", "")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), an.calls.Load())
}

func TestAnalyze_CacheDisabledWithZeroTTL(t *testing.T) {
	an := &fakeAnalyzer{report: sampleReport()}
	e := newTestEcho(NewAnalysisHandler(nil, an, &fakeChat{}, &fakeStreamer{}, WithCache(icache.NewTTLCache(), 0)))

	do(e, http.MethodGet, "/api/analyze/RELIANCE", "")
	do(e, http.MethodGet, "/api/analyze/RELIANCE", "")

	assert.Equal(t, int32(2), an.calls.Load())
}

func TestAnalyze_RateLimited(t *testing.T) {
	an := &fakeAnalyzer{report: sampleReport()}
	e := newTestEcho(NewAnalysisHandler(nil, an, &fakeChat{}, &fakeStreamer{}, WithRateLimiter(ratelimit.New(1, 0))))

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/analyze/RELIANCE", "").Code)
	rec := do(e, http.MethodGet, "/api/analyze/RELIANCE", "")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limited"}`, rec.Body.String())
	assert.Equal(t, int32(1), an.calls.Load())
}

func TestChat(t *testing.T) {
	chat := &fakeChat{}
	e := newTestEcho(NewAnalysisHandler(nil, &fakeAnalyzer{}, chat, &fakeStreamer{}))

	rec := do(e, http.MethodPost, "/api/chat",
		`{"ticker":"TCS","question":"should I buy?","context_data":{"price":3500,"trend_signal":{"signal":"BULLISH"}}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"answer":"answer to should I buy?"}`, rec.Body.String())
	assert.Equal(t, "TCS", chat.gotTicker)
	assert.Equal(t, 3500.0, chat.gotContext["price"])
}

func TestChat_ValidationErrors(t *testing.T) {
	e := newTestEcho(NewAnalysisHandler(nil, &fakeAnalyzer{}, &fakeChat{}, &fakeStreamer{}))

	rec := do(e, http.MethodPost, "/api/chat", `{"ticker":"TCS","question":"why?"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"context_data"`)

	rec = do(e, http.MethodPost, "/api/chat", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestPriceStream_PushesFrames(t *testing.T) {
	live := &fakeStreamer{ticks: []models.PriceTick{
		{Symbol: "INFY.NS", Price: 1500.25},
		{Symbol: "INFY.NS", Price: 1501},
	}}
	srv := httptest.NewServer(newTestEcho(NewAnalysisHandler(nil, &fakeAnalyzer{}, &fakeChat{}, live)))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/price/infy"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame PriceFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, PriceFrame{Price: 1500.25, Symbol: "INFY.NS"}, frame)
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, 1501.0, frame.Price)
}

func TestNewAnalysisResponse_ChartTimeKeepsExchangeZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)
	r := sampleReport()
	r.Chart = models.ChartData{
		"1D": models.CandleSeries{Label: "1D", Candles: []models.Candle{
			{Time: time.Date(2024, 3, 4, 9, 15, 0, 0, ist), Open: 1, High: 1, Low: 1, Close: 1},
		}},
	}

	body, err := json.Marshal(NewAnalysisResponse(r))
	require.NoError(t, err)

	assert.Contains(t, string(body), `"time":"2024-03-04T09:15:00+05:30"`)
	assert.Contains(t, string(body), `"sentiment_signal":"Neutral (Model Missing)"`)
}
