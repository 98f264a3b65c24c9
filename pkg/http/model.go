package http

// ErrorBody is the error payload returned by every endpoint.
type ErrorBody struct {
	Error   string            `json:"error" example:"invalid ticker or data unavailable"`
	Details []ValidationError `json:"details,omitempty"`
}

// StatusBody is the liveness payload.
type StatusBody struct {
	Status string `json:"status" example:"TradeSentry System Online"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"question"`
	Message string                 `json:"message,omitempty" example:"question is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
