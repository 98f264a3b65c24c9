package analytics

import (
	"context"
	"fmt"

	domsvc "TradeSentry/internal/domain/service"
)

type HTTPTrendScorer struct{ base *HTTPServiceBase }

func NewHTTPTrendScorer(base *HTTPServiceBase) *HTTPTrendScorer {
	return &HTTPTrendScorer{base: base}
}

type trendRequest struct {
	Closes   []float64    `json:"closes"`
	Features [][2]float64 `json:"features,omitempty"`
}

type trendResponse struct {
	Trend *struct {
		Signal     string  `json:"signal"`
		Confidence float64 `json:"confidence"`
	} `json:"trend"`
	Error string `json:"error"`
}

func (s *HTTPTrendScorer) ScoreTrend(ctx context.Context, req domsvc.TrendRequest) (domsvc.TrendScore, error) {
	var tr trendResponse
	err := s.base.PostJSON(ctx, "", trendRequest{Closes: req.Closes, Features: req.Features}, &tr)
	if err != nil {
		return domsvc.TrendScore{}, fmt.Errorf("post trend: %w", err)
	}
	if tr.Trend == nil || tr.Trend.Signal == "" {
		if tr.Error != "" {
			return domsvc.TrendScore{}, fmt.Errorf("trend model: %s", tr.Error)
		}
		return domsvc.TrendScore{}, fmt.Errorf("trend model: empty response")
	}
	return domsvc.TrendScore{Signal: tr.Trend.Signal, Confidence: tr.Trend.Confidence}, nil
}

var _ domsvc.TrendScorer = (*HTTPTrendScorer)(nil)
