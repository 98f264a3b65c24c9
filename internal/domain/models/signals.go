package models

import "time"

// AggregateReport is the consolidated per-request analysis.
// Note: no transport (json/http) concerns here.
type AggregateReport struct {
	Symbol      string
	Price       float64
	Pivots      PivotSnapshot
	Trend       SignalResult
	Sentiment   SignalResult
	Chart       ChartData // optional, may be empty
	Verdict     string    // optional, inline error text on collaborator failure
	GeneratedAt time.Time
}

// VerdictInput is everything the verdict collaborator needs.
type VerdictInput struct {
	Symbol    string
	Price     float64
	Pivots    PivotSnapshot
	Trend     SignalResult
	Sentiment SignalResult
}

// ChatInput is a follow-up question with the analysis it refers to.
type ChatInput struct {
	Symbol   string
	Question string
	Context  map[string]interface{}
}
