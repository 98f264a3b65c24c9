package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"TradeSentry/internal/domain/models"
	"TradeSentry/internal/domain/repository"
)

// ReportsTable is the default ClickHouse table for analysis reports.
const ReportsTable = "analysis_reports"

const reportColumns = "generated_at, symbol, price, pivot_point, resistance_1, resistance_2, support_1, support_2, " +
	"trend_signal, trend_status, trend_confidence, sentiment_signal, sentiment_status, verdict"

const reportPlaceholders = "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

// execer is the subset of *sql.DB used here.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ClickHouseReportStorage implements ReportStorage for ClickHouse.
type ClickHouseReportStorage struct {
	db    execer
	table string
}

// NewClickHouseReportStorage creates ClickHouse storage.
func NewClickHouseReportStorage(db *sql.DB, table string) repository.ReportStorage {
	if table == "" {
		table = ReportsTable
	}
	return &ClickHouseReportStorage{db: db, table: table}
}

// Schema returns the DDL for the reports table.
func (s *ClickHouseReportStorage) Schema() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    generated_at      DateTime64(3, 'UTC'),
    symbol            LowCardinality(String),
    price             Float64,
    pivot_point       Float64,
    resistance_1      Float64,
    resistance_2      Float64,
    support_1         Float64,
    support_2         Float64,
    trend_signal      LowCardinality(String),
    trend_status      LowCardinality(String),
    trend_confidence  Float64,
    sentiment_signal  String,
    sentiment_status  LowCardinality(String),
    verdict           String
) ENGINE = MergeTree
ORDER BY (symbol, generated_at)`, s.table)
}

func (s *ClickHouseReportStorage) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.Schema()); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	return nil
}

func (s *ClickHouseReportStorage) Store(ctx context.Context, r *models.AggregateReport) error {
	return s.StoreBatch(ctx, []*models.AggregateReport{r})
}

func (s *ClickHouseReportStorage) StoreBatch(ctx context.Context, rs []*models.AggregateReport) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]interface{}, 0, len(rs)*14)
	for _, r := range rs {
		if r == nil || r.Symbol == "" {
			continue
		}
		rec := toRecord(r)
		values = append(values, reportPlaceholders)
		args = append(args,
			rec.GeneratedAt,
			rec.Symbol,
			rec.Price,
			rec.PivotPoint,
			rec.Resistance1,
			rec.Resistance2,
			rec.Support1,
			rec.Support2,
			rec.TrendSignal,
			rec.TrendStatus,
			rec.TrendConfidence,
			rec.SentimentSignal,
			rec.SentimentStatus,
			rec.Verdict,
		)
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.table, reportColumns, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert %d reports: %w", len(values), err)
	}
	return nil
}

func (s *ClickHouseReportStorage) Close() error {
	return nil // Managed by pkg
}
