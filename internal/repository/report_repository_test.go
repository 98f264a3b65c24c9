package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"TradeSentry/internal/domain/models"
	pkgkafka "TradeSentry/pkg/kafka"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(symbol string) *models.AggregateReport {
	return &models.AggregateReport{
		Symbol:      symbol,
		Price:       101.5,
		Pivots:      models.PivotSnapshot{Symbol: symbol, CurrentPrice: 101.5, PivotPoint: 100, Resistance1: 110, Resistance2: 120, Support1: 90, Support2: 80},
		Trend:       models.Computed(models.SignalTrend, "BULLISH", 61.25),
		Sentiment:   models.NoService(models.SignalSentiment),
		Chart:       models.ChartData{"1Y": {Label: "1Y"}},
		Verdict:     "WAIT",
		GeneratedAt: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
	}
}

type fakeWriter struct {
	topic string
	keys  []string
	vals  []interface{}
	err   error
}

func (f *fakeWriter) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	f.topic = topic
	f.keys = append(f.keys, string(key))
	f.vals = append(f.vals, value)
	return f.err
}

func (f *fakeWriter) PublishBatch(_ context.Context, topic string, msgs []pkgkafka.Message) error {
	f.topic = topic
	for _, m := range msgs {
		f.keys = append(f.keys, string(m.Key))
		f.vals = append(f.vals, m.Value)
	}
	return f.err
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaReportPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaReportPublisher{producer: w, topic: "reports"}

	require.NoError(t, p.Publish(context.Background(), sampleReport("TCS.NS")))
	require.NoError(t, p.PublishBatch(context.Background(), []*models.AggregateReport{sampleReport("INFY.NS"), sampleReport("SBIN.BO")}))

	assert.Equal(t, "reports", w.topic)
	assert.Equal(t, []string{"TCS.NS", "INFY.NS", "SBIN.BO"}, w.keys)
	rec := w.vals[0].(reportRecord)
	assert.Equal(t, "BULLISH", rec.TrendSignal)
	assert.Equal(t, "computed", rec.TrendStatus)
	assert.Equal(t, "Neutral (Model Missing)", rec.SentimentSignal)
	assert.Equal(t, []string{"1Y"}, rec.Timeframes)
}

type fakeExec struct {
	queries []string
	args    [][]interface{}
	err     error
}

func (f *fakeExec) ExecContext(_ context.Context, q string, args ...interface{}) (sql.Result, error) {
	f.queries = append(f.queries, q)
	f.args = append(f.args, args)
	return nil, f.err
}

func TestClickHouseReportStorage(t *testing.T) {
	db := &fakeExec{}
	s := &ClickHouseReportStorage{db: db, table: ReportsTable}

	require.NoError(t, s.Init(context.Background()))
	assert.Contains(t, db.queries[0], "CREATE TABLE IF NOT EXISTS analysis_reports")

	err := s.StoreBatch(context.Background(), []*models.AggregateReport{sampleReport("TCS.NS"), nil, sampleReport("INFY.NS")})
	require.NoError(t, err)
	q := db.queries[1]
	assert.True(t, strings.HasPrefix(q, "INSERT INTO analysis_reports (generated_at, symbol"))
	assert.Equal(t, 2, strings.Count(q, "(?, ?"))
	assert.Len(t, db.args[1], 28)
	assert.Equal(t, "INFY.NS", db.args[1][15])

	require.NoError(t, s.StoreBatch(context.Background(), nil))
	assert.Len(t, db.queries, 2)
}

func TestClickHouseReportStorageError(t *testing.T) {
	s := &ClickHouseReportStorage{db: &fakeExec{err: errors.New("down")}, table: ReportsTable}
	assert.Error(t, s.Store(context.Background(), sampleReport("TCS.NS")))
}
