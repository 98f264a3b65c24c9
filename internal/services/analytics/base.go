package analytics

import (
	"context"
	"fmt"
	"time"

	"TradeSentry/pkg/config"
	xhttp "TradeSentry/pkg/http"
)

// HTTPServiceBase provides a DRY foundation for inference HTTP clients.
// It centralizes client construction and JSON POST request handling.
type HTTPServiceBase struct {
	baseURL string
	timeout time.Duration
	client  *xhttp.Client
}

// NewHTTPServiceBase builds an HTTP client with timeout and endpoint URL from config.
// An empty inference URL yields a base that reports itself as not configured.
func NewHTTPServiceBase(cfg *config.Config) *HTTPServiceBase {
	timeout := cfg.Inference.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &HTTPServiceBase{
		baseURL: cfg.Inference.URL,
		timeout: timeout,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Configured reports whether an inference endpoint is set.
func (b *HTTPServiceBase) Configured() bool {
	return b != nil && b.baseURL != ""
}

// PostJSON posts the given payload to `path` under baseURL and decodes JSON into dest.
// Each call is attempted once and bounded by the configured timeout.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if !b.Configured() || b.client == nil {
		return fmt.Errorf("inference http client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    b.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", b.baseURL+path, err)
	}
	return nil
}
