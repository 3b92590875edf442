package services

import (
	"context"
	"fmt"
	"time"
)

// TieredCache reads through a local ResponseCache before a shared cache and
// writes to both.
type TieredCache struct {
	L1 *ResponseCache
	L2 Cache
}

var _ Cache = (*TieredCache)(nil)

// ttlReader is implemented by shared caches that can report how long an
// entry has left to live.
type ttlReader interface {
	GetWithTTL(ctx context.Context, key string) (string, time.Duration, bool)
}

var _ ttlReader = (*RedisCache)(nil)

func NewTieredCache(l1 *ResponseCache, l2 Cache) *TieredCache {
	return &TieredCache{L1: l1, L2: l2}
}

// Get checks L1 first. L2 hits are copied into L1.
func (t *TieredCache) Get(ctx context.Context, key string) (string, bool) {
	if value, ok := t.L1.Get(ctx, key); ok {
		return value, true
	}
	if t.L2 == nil {
		return "", false
	}

	// Entries copied from L2 keep their remaining lifetime so L1 never
	// outlives the original TTL.
	if tr, ok := t.L2.(ttlReader); ok {
		value, remaining, found := tr.GetWithTTL(ctx, key)
		if found {
			t.L1.setExpiringIn(key, value, remaining)
		}
		return value, found
	}

	value, ok := t.L2.Get(ctx, key)
	if ok {
		t.L1.Set(ctx, key, value)
	}
	return value, ok
}

func (t *TieredCache) Set(ctx context.Context, key, value string) {
	t.L1.Set(ctx, key, value)
	if t.L2 != nil {
		t.L2.Set(ctx, key, value)
	}
}

func (t *TieredCache) Clear(ctx context.Context) {
	t.L1.Clear(ctx)
	if t.L2 != nil {
		t.L2.Clear(ctx)
	}
}

// Ping reports the shared tier's health; L1 is always available.
func (t *TieredCache) Ping(ctx context.Context) error {
	if t.L2 == nil {
		return nil
	}
	if err := t.L2.Ping(ctx); err != nil {
		return fmt.Errorf("shared cache: %w", err)
	}
	return nil
}

// Stats reports the local tier only.
func (t *TieredCache) Stats() CacheStats {
	return t.L1.Stats()
}
