package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradeSentry/internal/domain/models"
	domrepo "TradeSentry/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	ProcessBatch(ctx context.Context, reps []*models.AggregateReport) error
}

// ReportPipeline decouples request handling from the report sink.
// Reports are buffered on a bounded channel and flushed in batches by one
// background worker; a full buffer drops the report.
type ReportPipeline struct {
	proc         Proc
	metrics      domrepo.Metrics
	bufSize      int
	batchSize    int
	batchTimeout time.Duration
	maxBackoff   time.Duration
	bufCh        chan *models.AggregateReport
	stopCh       chan struct{}
	doneCh       chan struct{}
	started      bool
	mu           sync.Mutex
}

type PipelineOption func(*ReportPipeline)

// WithBufferSize sets the queue capacity.
func WithBufferSize(n int) PipelineOption {
	return func(p *ReportPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithBatch sets the flush size and the max time a partial batch waits.
func WithBatch(size int, timeout time.Duration) PipelineOption {
	return func(p *ReportPipeline) {
		if size > 0 {
			p.batchSize = size
		}
		if timeout > 0 {
			p.batchTimeout = timeout
		}
	}
}

// WithMaxBackoff caps the retry delay after a failed flush.
func WithMaxBackoff(d time.Duration) PipelineOption {
	return func(p *ReportPipeline) {
		if d > 0 {
			p.maxBackoff = d
		}
	}
}

// NewReportPipeline creates a new pipeline.
func NewReportPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *ReportPipeline {
	p := &ReportPipeline{
		proc:         proc,
		metrics:      metrics,
		bufSize:      256,
		batchSize:    20,
		batchTimeout: 2 * time.Second,
		maxBackoff:   2 * time.Second,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.AggregateReport, p.bufSize)
	return p
}

// Submit enqueues a report without blocking. It returns false if the report
// was invalid or the buffer was full.
func (p *ReportPipeline) Submit(r *models.AggregateReport) bool {
	if err := validateReport(r); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return false
	}
	select {
	case p.bufCh <- r:
		return true
	default:
		p.metrics.RecordError("pipeline_buffer_full")
		return false
	}
}

// Depth returns the number of queued reports.
func (p *ReportPipeline) Depth() int { return len(p.bufCh) }

// Start launches the background flusher.
func (p *ReportPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.run(ctx)
}

// Stop stops the flusher after writing what is already queued.
func (p *ReportPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
	<-p.doneCh
}

func (p *ReportPipeline) run(ctx context.Context) {
	defer close(p.doneCh)

	batch := make([]*models.AggregateReport, 0, p.batchSize)
	ticker := time.NewTicker(p.batchTimeout)
	defer ticker.Stop()
	backoff := 50 * time.Millisecond

	flush := func(fctx context.Context) {
		if len(batch) == 0 {
			return
		}
		start := time.Now()
		if err := p.proc.ProcessBatch(fctx, batch); err != nil {
			p.metrics.RecordError("pipeline_flush")
			if backoff < p.maxBackoff {
				backoff *= 2
			}
			select {
			case <-time.After(backoff):
			case <-p.stopCh:
			}
			// requeue if space; drop otherwise
			for _, r := range batch {
				select {
				case p.bufCh <- r:
				default:
					p.metrics.RecordError("pipeline_buffer_drop")
				}
			}
		} else {
			backoff = 50 * time.Millisecond
			p.metrics.RecordLatency("pipeline_flush", time.Since(start).Seconds())
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-p.stopCh:
			p.drain(batch)
			return
		case <-ctx.Done():
			p.drain(batch)
			return
		case r := <-p.bufCh:
			batch = append(batch, r)
			if len(batch) >= p.batchSize {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		}
	}
}

// drain makes one final attempt at everything still pending.
func (p *ReportPipeline) drain(batch []*models.AggregateReport) {
	for {
		select {
		case r := <-p.bufCh:
			batch = append(batch, r)
			continue
		default:
		}
		break
	}
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.proc.ProcessBatch(ctx, batch); err != nil {
		p.metrics.RecordError("pipeline_drain")
	}
}

func validateReport(r *models.AggregateReport) error {
	if r == nil {
		return fmt.Errorf("report nil")
	}
	if r.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if r.Price < 0 {
		return fmt.Errorf("negative price")
	}
	return nil
}
