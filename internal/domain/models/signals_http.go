package models

// Requests for the analysis HTTP endpoints. Defined in domain for consistency and reuse.

type AnalyzeRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required,max=32"`
}

type ChatRequest struct {
	Ticker      string                 `json:"ticker" validate:"required,max=32"`
	Question    string                 `json:"question" validate:"required,max=2000"`
	ContextData map[string]interface{} `json:"context_data" validate:"required"`
}

type PriceStreamRequest struct {
	Ticker string `param:"ticker" validate:"required,max=32"`
}
