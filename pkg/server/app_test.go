package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"TradeSentry/internal/domain/models"
	mid "TradeSentry/internal/middleware"
	"TradeSentry/internal/usecase"
	"TradeSentry/pkg/config"
	xhttp "TradeSentry/pkg/http"
	applogger "TradeSentry/pkg/logger"
	"TradeSentry/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	mu     sync.Mutex
	stored []string
	closed bool
}

func (m *memStorage) Init(context.Context) error { return nil }

func (m *memStorage) Store(ctx context.Context, r *models.AggregateReport) error {
	return m.StoreBatch(ctx, []*models.AggregateReport{r})
}

func (m *memStorage) StoreBatch(_ context.Context, rs []*models.AggregateReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rs {
		m.stored = append(m.stored, r.Symbol)
	}
	return nil
}

func (m *memStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func TestApp_RunContextDrainsPipelineOnShutdown(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	store := &memStorage{}
	rec := usecase.NewReportRecorder(nil, store, metrics.Nop{}, usecase.BackendClickHouse)
	pipe := mid.NewReportPipeline(rec, metrics.Nop{}, mid.WithBatch(100, time.Hour))
	srv := xhttp.NewServer(nil, nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0))
	app := New(cfg, applogger.NewNop(), srv, pipe, rec, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	assert.Eventually(t, func() bool {
		return pipe.Submit(&models.AggregateReport{Symbol: "TCS.NS", Price: 1})
	}, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, []string{"TCS.NS"}, store.stored)
	assert.True(t, store.closed)
}
