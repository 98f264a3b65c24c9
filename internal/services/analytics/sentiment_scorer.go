package analytics

import (
	"context"
	"fmt"

	domsvc "TradeSentry/internal/domain/service"
)

type HTTPSentimentScorer struct{ base *HTTPServiceBase }

func NewHTTPSentimentScorer(base *HTTPServiceBase) *HTTPSentimentScorer {
	return &HTTPSentimentScorer{base: base}
}

type sentimentRequest struct {
	Headlines []string `json:"headlines"`
}

type sentimentResponse struct {
	Sentiment string `json:"sentiment"`
	Error     string `json:"error"`
}

func (s *HTTPSentimentScorer) ScoreSentiment(ctx context.Context, headlines []string) (string, error) {
	var sr sentimentResponse
	if err := s.base.PostJSON(ctx, "", sentimentRequest{Headlines: headlines}, &sr); err != nil {
		return "", fmt.Errorf("post sentiment: %w", err)
	}
	if sr.Sentiment == "" {
		if sr.Error != "" {
			return "", fmt.Errorf("sentiment model: %s", sr.Error)
		}
		return "", fmt.Errorf("sentiment model: empty response")
	}
	return sr.Sentiment, nil
}

var _ domsvc.SentimentScorer = (*HTTPSentimentScorer)(nil)
