package cache

import (
	"context"
	"time"
)

// LayeredCache implements a two-level cache (L1: memory, L2: remote).
// L1 entries live at most l1TTL so other replicas' writes become visible.
type LayeredCache struct {
	mem    *TTLCache
	remote BytesCache
	l1TTL  time.Duration
}

// NewLayeredCache fronts remote with an in-process cache.
func NewLayeredCache(remote BytesCache, l1TTL time.Duration) *LayeredCache {
	if l1TTL <= 0 {
		l1TTL = 5 * time.Second
	}
	return &LayeredCache{mem: NewTTLCache(), remote: remote, l1TTL: l1TTL}
}

func (lc *LayeredCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	// L1: Try memory first
	if b, ok, _ := lc.mem.GetBytes(ctx, key); ok {
		return b, true, nil
	}

	// L2: Try remote
	b, ok, err := lc.remote.GetBytes(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	// Store in memory for next time
	_ = lc.mem.SetBytes(ctx, key, b, lc.l1TTL)
	return b, true, nil
}

func (lc *LayeredCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// Write-through: remote first, then memory
	if err := lc.remote.SetBytes(ctx, key, value, ttl); err != nil {
		return err
	}
	l1 := lc.l1TTL
	if ttl > 0 && ttl < l1 {
		l1 = ttl
	}
	_ = lc.mem.SetBytes(ctx, key, value, l1)
	return nil
}
