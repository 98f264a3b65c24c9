package usecase

import (
	"context"
	"fmt"
	"time"

	"TradeSentry/internal/domain/models"
	drepo "TradeSentry/internal/domain/repository"
	"TradeSentry/pkg/logger"
)

// Subscriber receives live price ticks. Done is closed once the peer is gone.
type Subscriber interface {
	Push(ctx context.Context, tick models.PriceTick) error
	Done() <-chan struct{}
}

// LiveState is the poller lifecycle: connected -> streaming -> closed.
type LiveState int

const (
	LiveConnected LiveState = iota
	LiveStreaming
	LiveClosed
)

func (s LiveState) String() string {
	switch s {
	case LiveConnected:
		return "connected"
	case LiveStreaming:
		return "streaming"
	case LiveClosed:
		return "closed"
	default:
		return fmt.Sprintf("LiveState(%d)", int(s))
	}
}

// LivePoller recomputes the pivot snapshot on a fixed cadence and pushes the
// latest price to one subscriber until it disconnects.
type LivePoller struct {
	pivots   *PivotUseCase
	metrics  drepo.Metrics
	log      *logger.Logger
	interval time.Duration
}

func NewLivePoller(pivots *PivotUseCase, metrics drepo.Metrics, log *logger.Logger, interval time.Duration) *LivePoller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &LivePoller{pivots: pivots, metrics: metrics, log: log, interval: interval}
}

// Run streams until the subscriber is gone, ctx is cancelled or a push fails.
// A disconnect is a normal exit and returns nil. Closed is terminal.
func (p *LivePoller) Run(ctx context.Context, ticker string, sub Subscriber) error {
	symbol := models.NormalizeSymbol(ticker)

	// In-flight fetches are cancelled as soon as the subscriber leaves.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-sub.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	state := LiveConnected
	transition := func(next LiveState) {
		p.log.Debug("live state",
			logger.String("symbol", symbol),
			logger.String("from", state.String()),
			logger.String("to", next.String()))
		state = next
	}
	transition(LiveStreaming)
	defer transition(LiveClosed)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-sub.Done():
			return nil
		default:
		}

		if snap, ok := p.pivots.Snapshot(ctx, symbol); ok {
			select {
			case <-sub.Done():
				return nil
			default:
			}
			tick := models.PriceTick{Symbol: snap.Symbol, Price: snap.CurrentPrice}
			if err := sub.Push(ctx, tick); err != nil {
				return fmt.Errorf("live push %s: %w", symbol, err)
			}
			p.metrics.RecordLivePush(symbol)
		}

		timer.Reset(p.interval)
		select {
		case <-sub.Done():
			return nil
		case <-ctx.Done():
			select {
			case <-sub.Done():
				return nil
			default:
				return ctx.Err()
			}
		case <-timer.C:
		}
	}
}
