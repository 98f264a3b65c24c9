package logger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	topic   string
	batches [][]AggregatedLogEntry
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return nil
}

func TestCollectorDeduplicates(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 10,
		Topic:          "logs",
		Publisher:      pub,
	})

	fields := map[string]interface{}{"symbol": "TCS.NS"}
	c.AddLog("error", "fetch failed", fields, "yahoo.go:10")
	c.AddLog("error", "fetch failed", fields, "yahoo.go:10")
	c.AddLog("error", "other", nil, "yahoo.go:20")
	c.AddLog("info", "ignored", nil, "x.go:1")

	assert.Equal(t, 2, c.Pending())
	c.Close()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.batches, 1)
	assert.Equal(t, "logs", pub.topic)
	counts := map[string]int{}
	for _, e := range pub.batches[0] {
		counts[e.Message] = e.Count
	}
	assert.Equal(t, map[string]int{"fetch failed": 2, "other": 1}, counts)
}

func TestCollectorThresholdFlush(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 2,
		Levels:         []string{"warn"},
		Publisher:      pub,
	})
	defer c.Close()

	c.AddLog("warn", "a", nil, "")
	c.AddLog("warn", "b", nil, "")

	assert.Equal(t, 0, c.Pending())
	assert.Eventually(t, func() bool {
		pub.mu.Lock()
		defer pub.mu.Unlock()
		return len(pub.batches) == 1
	}, time.Second, 10*time.Millisecond)
}
