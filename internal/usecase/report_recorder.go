package usecase

import (
	"context"
	"fmt"
	"time"

	"TradeSentry/internal/domain/models"
	drepo "TradeSentry/internal/domain/repository"
)

// Sink backends.
const (
	BackendNone       = "none"
	BackendKafka      = "kafka"
	BackendClickHouse = "clickhouse"
)

// ReportRecorder routes finished reports to the configured backend.
type ReportRecorder struct {
	pub     drepo.ReportPublisher
	store   drepo.ReportStorage
	metrics drepo.Metrics
	backend string
}

func NewReportRecorder(pub drepo.ReportPublisher, store drepo.ReportStorage, metrics drepo.Metrics, backend string) *ReportRecorder {
	return &ReportRecorder{pub: pub, store: store, metrics: metrics, backend: backend}
}

// Backend returns the configured backend name.
func (r *ReportRecorder) Backend() string { return r.backend }

// Process writes a single report.
func (r *ReportRecorder) Process(ctx context.Context, rep *models.AggregateReport) error {
	if rep == nil {
		return fmt.Errorf("report is nil")
	}
	return r.ProcessBatch(ctx, []*models.AggregateReport{rep})
}

// ProcessBatch writes reports in one round trip.
func (r *ReportRecorder) ProcessBatch(ctx context.Context, reps []*models.AggregateReport) error {
	if len(reps) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch {
	case r.backend == BackendKafka && r.pub != nil:
		if len(reps) == 1 {
			err = r.pub.Publish(ctx, reps[0])
		} else {
			err = r.pub.PublishBatch(ctx, reps)
		}
	case r.backend == BackendClickHouse && r.store != nil:
		if len(reps) == 1 {
			err = r.store.Store(ctx, reps[0])
		} else {
			err = r.store.StoreBatch(ctx, reps)
		}
	default:
		err = fmt.Errorf("unknown backend: %s", r.backend)
	}

	if err != nil {
		r.metrics.RecordError("report_sink")
		return fmt.Errorf("record reports: %w", err)
	}

	for _, rep := range reps {
		r.metrics.RecordMessageSent(r.backend, rep.Symbol)
	}
	r.metrics.RecordLatency("report_sink", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (r *ReportRecorder) Close() {
	if r.pub != nil {
		_ = r.pub.Close()
	}
	if r.store != nil {
		_ = r.store.Close()
	}
}
