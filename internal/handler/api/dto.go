package api

import (
	"sort"
	"time"

	"TradeSentry/internal/domain/models"
	"TradeSentry/pkg/util"
)

// SignalDTO is the trend result on the wire.
type SignalDTO struct {
	Signal     string  `json:"signal" example:"BULLISH"`
	Confidence float64 `json:"confidence" example:"72.5"`
	Status     string  `json:"status" example:"computed"`
}

type ResistanceDTO struct {
	Target1 float64 `json:"target_1"`
	Target2 float64 `json:"target_2"`
}

type SupportDTO struct {
	Stop1 float64 `json:"stop_1"`
	Stop2 float64 `json:"stop_2"`
}

// SupportResistanceDTO mirrors the pivot snapshot.
type SupportResistanceDTO struct {
	Symbol       string        `json:"symbol"`
	CurrentPrice float64       `json:"current_price"`
	PivotPoint   float64       `json:"pivot_point"`
	Resistance   ResistanceDTO `json:"resistance"`
	Support      SupportDTO    `json:"support"`
}

// ChartPointDTO is one bar; time is RFC3339 in the exchange location.
type ChartPointDTO struct {
	Time  string  `json:"time" example:"2024-03-04T09:15:00+05:30"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// AnalysisResponse is the body of GET /api/analyze/{ticker}.
type AnalysisResponse struct {
	Symbol            string                     `json:"symbol"`
	Price             float64                    `json:"price"`
	TrendSignal       SignalDTO                  `json:"trend_signal"`
	SentimentSignal   string                     `json:"sentiment_signal"`
	SentimentStatus   string                     `json:"sentiment_status"`
	SupportResistance SupportResistanceDTO       `json:"support_resistance"`
	AIAnalysis        string                     `json:"ai_analysis"`
	ChartData         map[string][]ChartPointDTO `json:"chart_data,omitempty"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

// PriceFrame is one live stream message.
type PriceFrame struct {
	Price  float64 `json:"price"`
	Symbol string  `json:"symbol"`
}

func newSignalDTO(r models.SignalResult) SignalDTO {
	return SignalDTO{
		Signal:     r.Label,
		Confidence: util.Round2(r.Confidence),
		Status:     string(r.Status),
	}
}

func newSupportResistanceDTO(p models.PivotSnapshot) SupportResistanceDTO {
	return SupportResistanceDTO{
		Symbol:       p.Symbol,
		CurrentPrice: p.CurrentPrice,
		PivotPoint:   p.PivotPoint,
		Resistance:   ResistanceDTO{Target1: p.Resistance1, Target2: p.Resistance2},
		Support:      SupportDTO{Stop1: p.Support1, Stop2: p.Support2},
	}
}

func newChartDTO(chart models.ChartData) map[string][]ChartPointDTO {
	if len(chart) == 0 {
		return nil
	}
	out := make(map[string][]ChartPointDTO, len(chart))
	for label, series := range chart {
		candles := append([]models.Candle(nil), series.Candles...)
		sort.SliceStable(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })

		points := make([]ChartPointDTO, 0, len(candles))
		for _, c := range candles {
			points = append(points, ChartPointDTO{
				Time:  c.Time.Format(time.RFC3339),
				Open:  util.Round2(c.Open),
				High:  util.Round2(c.High),
				Low:   util.Round2(c.Low),
				Close: util.Round2(c.Close),
			})
		}
		out[label] = points
	}
	return out
}

// NewAnalysisResponse renders a report for the dashboard.
func NewAnalysisResponse(r *models.AggregateReport) AnalysisResponse {
	return AnalysisResponse{
		Symbol:            r.Symbol,
		Price:             r.Price,
		TrendSignal:       newSignalDTO(r.Trend),
		SentimentSignal:   r.Sentiment.Label,
		SentimentStatus:   string(r.Sentiment.Status),
		SupportResistance: newSupportResistanceDTO(r.Pivots),
		AIAnalysis:        r.Verdict,
		ChartData:         newChartDTO(r.Chart),
	}
}
