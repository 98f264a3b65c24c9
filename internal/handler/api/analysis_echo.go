package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"TradeSentry/internal/domain/models"
	icache "TradeSentry/internal/service/cache"
	svcmetrics "TradeSentry/internal/service/metrics"
	"TradeSentry/internal/service/ratelimit"
	"TradeSentry/internal/usecase"
	xhttp "TradeSentry/pkg/http"
	xlogger "TradeSentry/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	statusOnline   = "TradeSentry System Online"
	msgNoData      = "Invalid Ticker or Data Unavailable"
	msgInvalid     = "invalid ticker"
	msgRateLimited = "rate limited"
)

// Analyzer builds the aggregate report for a raw ticker.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*models.AggregateReport, error)
}

// ChatAnswerer answers a follow-up question. It never fails.
type ChatAnswerer interface {
	Answer(ctx context.Context, ticker, question string, contextData map[string]interface{}) string
}

// PriceStreamer pushes live prices to sub until it disconnects.
type PriceStreamer interface {
	Run(ctx context.Context, ticker string, sub usecase.Subscriber) error
}

// AnalysisHandler serves the dashboard API.
type AnalysisHandler struct {
	logger   *xlogger.Logger
	analyzer Analyzer
	chat     ChatAnswerer
	live     PriceStreamer
	cache    icache.BytesCache
	cacheTTL time.Duration
	limiter  *ratelimit.Limiter
	metrics  *svcmetrics.HandlerMetrics
	upgrader websocket.Upgrader
	wsWrite  time.Duration
}

// Option configures AnalysisHandler.
type Option func(*AnalysisHandler)

// WithCache caches analysis responses for ttl. A zero ttl disables caching.
func WithCache(c icache.BytesCache, ttl time.Duration) Option {
	return func(h *AnalysisHandler) {
		h.cache = c
		h.cacheTTL = ttl
	}
}

// WithRateLimiter guards analyze and chat per remote address.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(h *AnalysisHandler) { h.limiter = l }
}

func WithMetrics(m *svcmetrics.HandlerMetrics) Option {
	return func(h *AnalysisHandler) { h.metrics = m }
}

// WithWriteTimeout bounds each websocket frame write.
func WithWriteTimeout(d time.Duration) Option {
	return func(h *AnalysisHandler) { h.wsWrite = d }
}

func NewAnalysisHandler(logger *xlogger.Logger, analyzer Analyzer, chat ChatAnswerer, live PriceStreamer, opts ...Option) *AnalysisHandler {
	h := &AnalysisHandler{
		logger:   logger,
		analyzer: analyzer,
		chat:     chat,
		live:     live,
		wsWrite:  5 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the dashboard is served from another origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = xlogger.NewNop()
	}
	return h
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Status)
	g := e.Group("/api")
	g.GET("/analyze/:ticker", h.Analyze, h.rateLimit(svcmetrics.EndpointAnalyze))
	g.POST("/chat", h.Chat, h.rateLimit(svcmetrics.EndpointChat))
	e.GET("/ws/price/:ticker", h.PriceStream)
}

func (h *AnalysisHandler) Status(c echo.Context) error {
	return xhttp.SuccessResponse(c, xhttp.StatusBody{Status: statusOnline})
}

func (h *AnalysisHandler) Analyze(c echo.Context) error {
	start := time.Now()
	defer h.metrics.ObserveLatency(svcmetrics.EndpointAnalyze, start)

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		h.metrics.IncError(svcmetrics.EndpointAnalyze, "validation")
		return xhttp.ValidationErrorResponse(c, verr)
	}

	ctx := c.Request().Context()
	key := icache.AnalysisKey(models.NormalizeSymbol(req.Ticker))
	if body, ok := h.cached(ctx, key); ok {
		return c.JSONBlob(http.StatusOK, body)
	}

	report, err := h.analyzer.Analyze(ctx, req.Ticker)
	switch {
	case errors.Is(err, models.ErrInvalidSymbol):
		h.metrics.IncError(svcmetrics.EndpointAnalyze, "invalid_symbol")
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(msgInvalid))
	case errors.Is(err, models.ErrNoMarketData):
		h.logger.Warn("analysis unavailable", xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		h.metrics.IncError(svcmetrics.EndpointAnalyze, "no_data")
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(msgNoData))
	case err != nil:
		h.logger.Error("analysis failed", xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		h.metrics.IncError(svcmetrics.EndpointAnalyze, "internal")
		return xhttp.AppErrorResponse(c, xhttp.InternalError("analysis failed").WithError(err))
	}

	body, err := json.Marshal(NewAnalysisResponse(report))
	if err != nil {
		h.metrics.IncError(svcmetrics.EndpointAnalyze, "encode")
		return xhttp.InternalServerErrorResponse(c)
	}
	h.store(ctx, key, body)
	return c.JSONBlob(http.StatusOK, body)
}

func (h *AnalysisHandler) Chat(c echo.Context) error {
	start := time.Now()
	defer h.metrics.ObserveLatency(svcmetrics.EndpointChat, start)

	req := &models.ChatRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		h.metrics.IncError(svcmetrics.EndpointChat, "validation")
		return xhttp.ValidationErrorResponse(c, verr)
	}

	answer := h.chat.Answer(c.Request().Context(), req.Ticker, req.Question, req.ContextData)
	return xhttp.SuccessResponse(c, ChatResponse{Answer: answer})
}

func (h *AnalysisHandler) cached(ctx context.Context, key string) ([]byte, bool) {
	if h.cache == nil || h.cacheTTL <= 0 {
		return nil, false
	}
	body, ok, err := h.cache.GetBytes(ctx, key)
	if err != nil {
		h.logger.Warn("analysis cache get failed", xlogger.String("key", key), xlogger.Error(err))
		return nil, false
	}
	h.metrics.IncCache(ok)
	return body, ok
}

func (h *AnalysisHandler) store(ctx context.Context, key string, body []byte) {
	if h.cache == nil || h.cacheTTL <= 0 {
		return
	}
	if err := h.cache.SetBytes(ctx, key, body, h.cacheTTL); err != nil {
		h.logger.Warn("analysis cache set failed", xlogger.String("key", key), xlogger.Error(err))
	}
}

func (h *AnalysisHandler) rateLimit(endpoint string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if h.limiter != nil && !h.limiter.Allow(c.RealIP()+":"+endpoint) {
				h.logger.Warn("rate limited",
					xlogger.String("endpoint", endpoint),
					xlogger.String("remote", c.RealIP()))
				h.metrics.IncLimited(endpoint)
				return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError(msgRateLimited))
			}
			return next(c)
		}
	}
}
