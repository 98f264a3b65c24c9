package cache

import (
	"context"
	"time"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AnalysisKey is the cache key for a symbol's analysis response.
func AnalysisKey(symbol string) string {
	return "analysis:" + symbol
}
