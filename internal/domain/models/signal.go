package models

// SignalKind identifies which remote model produced a result.
type SignalKind string

const (
	SignalTrend     SignalKind = "trend"
	SignalSentiment SignalKind = "sentiment"
)

// SignalStatus tags the variant of a SignalResult.
type SignalStatus string

const (
	StatusComputed  SignalStatus = "computed"   // the remote model answered
	StatusNoService SignalStatus = "no_service" // no inference endpoint configured
	StatusNoData    SignalStatus = "no_data"    // not enough input to ask the model
	StatusError     SignalStatus = "error"      // timeout, transport failure or non-2xx
)

// SignalResult is exactly one of computed(label, confidence), no-service,
// no-data or error. Build it with the constructors below.
type SignalResult struct {
	Kind       SignalKind
	Status     SignalStatus
	Label      string
	Confidence float64 // percentage in [0,100]; zero for neutral variants
}

var neutralLabels = map[SignalKind]map[SignalStatus]string{
	SignalTrend: {
		StatusNoService: "NEUTRAL",
		StatusNoData:    "INSUFFICIENT_DATA",
		StatusError:     "ERROR",
	},
	SignalSentiment: {
		StatusNoService: "Neutral (Model Missing)",
		StatusNoData:    "Neutral (No News)",
		StatusError:     "Neutral",
	},
}

// Computed returns the computed variant. Confidence is clamped to [0,100].
func Computed(kind SignalKind, label string, confidence float64) SignalResult {
	switch {
	case confidence < 0:
		confidence = 0
	case confidence > 100:
		confidence = 100
	}
	return SignalResult{Kind: kind, Status: StatusComputed, Label: label, Confidence: confidence}
}

// Neutral returns the labeled fallback for a non-computed status.
func Neutral(kind SignalKind, status SignalStatus) SignalResult {
	return SignalResult{Kind: kind, Status: status, Label: neutralLabels[kind][status]}
}

// NoService is the fallback when inference is not configured.
func NoService(kind SignalKind) SignalResult { return Neutral(kind, StatusNoService) }

// NoData is the fallback when there is not enough input to call the model.
func NoData(kind SignalKind) SignalResult { return Neutral(kind, StatusNoData) }

// Failed is the fallback when the remote call errored.
func Failed(kind SignalKind) SignalResult { return Neutral(kind, StatusError) }

// IsComputed reports whether the model actually produced the result.
func (r SignalResult) IsComputed() bool { return r.Status == StatusComputed }
