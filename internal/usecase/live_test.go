package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"TradeSentry/internal/domain/models"
	drepo "TradeSentry/internal/domain/repository"
	"TradeSentry/pkg/logger"
	"TradeSentry/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leavingSubscriber disconnects right after its leaveAfter-th push.
type leavingSubscriber struct {
	mu         sync.Mutex
	ticks      []models.PriceTick
	leaveAfter int
	pushErr    error
	done       chan struct{}
	once       sync.Once
}

func newLeavingSubscriber(n int) *leavingSubscriber {
	return &leavingSubscriber{leaveAfter: n, done: make(chan struct{})}
}

func (s *leavingSubscriber) Push(_ context.Context, tick models.PriceTick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pushErr != nil {
		return s.pushErr
	}
	s.ticks = append(s.ticks, tick)
	if s.leaveAfter > 0 && len(s.ticks) >= s.leaveAfter {
		s.once.Do(func() { close(s.done) })
	}
	return nil
}

func (s *leavingSubscriber) Done() <-chan struct{} { return s.done }

func (s *leavingSubscriber) pushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ticks)
}

func newPoller(md drepo.MarketData, interval time.Duration) *LivePoller {
	log := logger.NewNop()
	pivots := NewPivotUseCase(md, metrics.Nop{}, log, drepo.Period10d, drepo.Interval1d)
	return NewLivePoller(pivots, metrics.Nop{}, log, interval)
}

func pivotMarket() *fakeMarket {
	return &fakeMarket{series: map[string]*models.CandleSeries{
		key(drepo.Period10d, drepo.Interval1d): pivotSeries(101.5),
	}}
}

func TestLivePoller_StopsAfterSubscriberLeaves(t *testing.T) {
	sub := newLeavingSubscriber(2)
	p := newPoller(pivotMarket(), 5*time.Millisecond)

	err := p.Run(context.Background(), "tcs", sub)
	require.NoError(t, err)

	// give a runaway loop the chance to push again
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 2, sub.pushes())
	assert.Equal(t, models.PriceTick{Symbol: "TCS.NS", Price: 101.5}, sub.ticks[0])
}

func TestLivePoller_SkipsAbsentSnapshots(t *testing.T) {
	md := &fakeMarket{}
	sub := newLeavingSubscriber(1)
	p := newPoller(md, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		md.mu.Lock()
		md.series = map[string]*models.CandleSeries{key(drepo.Period10d, drepo.Interval1d): pivotSeries(99)}
		md.mu.Unlock()
	}()
	defer cancel()

	require.NoError(t, p.Run(ctx, "TCS", sub))
	assert.Equal(t, 1, sub.pushes())
	assert.Greater(t, int(md.calls.Load()), 1)
}

func TestLivePoller_ContextCancel(t *testing.T) {
	sub := newLeavingSubscriber(0)
	p := newPoller(pivotMarket(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx, "TCS", sub) }()

	assert.Eventually(t, func() bool { return sub.pushes() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestLivePoller_PushErrorIsTerminal(t *testing.T) {
	sub := newLeavingSubscriber(0)
	sub.pushErr = errors.New("broken pipe")
	p := newPoller(pivotMarket(), time.Millisecond)

	err := p.Run(context.Background(), "TCS", sub)

	assert.ErrorContains(t, err, "broken pipe")
}

func TestLiveState_String(t *testing.T) {
	assert.Equal(t, "connected", LiveConnected.String())
	assert.Equal(t, "streaming", LiveStreaming.String())
	assert.Equal(t, "closed", LiveClosed.String())
	assert.Equal(t, "LiveState(9)", LiveState(9).String())
}
