package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Endpoint labels.
const (
	EndpointAnalyze = "analyze"
	EndpointChat    = "chat"
	EndpointLive    = "live"
)

// HandlerMetrics tracks per-endpoint latency, errors and cache hits.
type HandlerMetrics struct {
	latency   *prometheus.HistogramVec
	errors    *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
	limited   *prometheus.CounterVec
}

// NewHandlerMetrics registers the handler collectors on reg.
func NewHandlerMetrics(reg prometheus.Registerer) *HandlerMetrics {
	f := promauto.With(reg)
	return &HandlerMetrics{
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tradesentry",
				Subsystem: "api",
				Name:      "latency_seconds",
				Help:      "Latency of API endpoints",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
			},
			[]string{"endpoint"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tradesentry",
				Subsystem: "api",
				Name:      "errors_total",
				Help:      "Errors by API endpoint and reason",
			},
			[]string{"endpoint", "reason"},
		),
		cacheHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tradesentry",
				Subsystem: "api",
				Name:      "cache_total",
				Help:      "Analysis cache lookups by result",
			},
			[]string{"result"},
		),
		limited: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tradesentry",
				Subsystem: "api",
				Name:      "rate_limited_total",
				Help:      "Requests rejected by the rate limiter",
			},
			[]string{"endpoint"},
		),
	}
}

// ObserveLatency records the time since start for endpoint.
func (m *HandlerMetrics) ObserveLatency(endpoint string, start time.Time) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// IncError counts a failed request.
func (m *HandlerMetrics) IncError(endpoint, reason string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(endpoint, reason).Inc()
}

// IncCache counts a cache lookup; hit selects the label.
func (m *HandlerMetrics) IncCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheHits.WithLabelValues(result).Inc()
}

// IncLimited counts a rate limited request.
func (m *HandlerMetrics) IncLimited(endpoint string) {
	if m == nil {
		return
	}
	m.limited.WithLabelValues(endpoint).Inc()
}
