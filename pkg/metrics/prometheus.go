package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal *prometheus.CounterVec
	signalsTotal *prometheus.CounterVec
	messagesSent *prometheus.CounterVec
	livePushes   *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradesentry_provider_fetches_total",
				Help: "Market data fetches by timeframe and result (ok, absent, error)",
			},
			[]string{"timeframe", "result"},
		),
		signalsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradesentry_signals_total",
				Help: "Signal outcomes by kind and status",
			},
			[]string{"kind", "status"},
		),
		messagesSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradesentry_reports_sent_total",
				Help: "Total number of analysis reports written to the sink",
			},
			[]string{"backend", "symbol"},
		),
		livePushes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradesentry_live_pushes_total",
				Help: "Live price frames pushed to subscribers",
			},
			[]string{"symbol"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradesentry_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradesentry_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradesentry_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records a provider fetch outcome.
func (r *Recorder) RecordFetch(timeframe, result string) {
	r.fetchesTotal.WithLabelValues(timeframe, result).Inc()
}

// RecordSignal records the variant a signal resolved to.
func (r *Recorder) RecordSignal(kind, status string) {
	r.signalsTotal.WithLabelValues(kind, status).Inc()
}

// RecordMessageSent records a report written to a backend.
func (r *Recorder) RecordMessageSent(backend, symbol string) {
	r.messagesSent.WithLabelValues(backend, symbol).Inc()
}

func (r *Recorder) RecordLivePush(symbol string) {
	r.livePushes.WithLabelValues(symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordFetch(string, string)       {}
func (Nop) RecordSignal(string, string)      {}
func (Nop) RecordMessageSent(string, string) {}
func (Nop) RecordLivePush(string)            {}
func (Nop) RecordError(string)               {}
func (Nop) RecordLastPrice(string, float64)  {}
func (Nop) RecordLatency(string, float64)    {}
