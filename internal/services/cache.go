package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/jwebster45206/career-rpg/pkg/engine"
)

const (
	DefaultCacheTTL        = 5 * time.Minute
	DefaultCacheMaxEntries = 100

	// contextDayBucket groups game days so a response survives small day changes
	contextDayBucket = 10
)

// Cache stores generated NPC text. Implementations never fail the caller:
// backend problems are reported as misses.
type Cache interface {
	// Get returns the cached value and whether it was found
	Get(ctx context.Context, key string) (string, bool)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string)

	// Clear removes every entry owned by this cache
	Clear(ctx context.Context)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}

// MakeCacheKey derives a deterministic key from the activity, the input and
// the parts of the game context that influence generated text. activity and
// inputID are hashed as well so a '|' inside either cannot alias another key.
func MakeCacheKey(activity, inputID string, gc engine.GameContext) string {
	h := xxhash.New()
	_, _ = h.WriteString(activity)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(inputID)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(gc.PlayerName)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strings.Join(gc.SkillNames(), "\x1f"))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.FormatBool(gc.Employed))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.Itoa(gc.Day / contextDayBucket))

	return fmt.Sprintf("%s|%s|%016x", activity, inputID, h.Sum64())
}

type cacheEntry struct {
	value    string
	storedAt time.Time
}

// CacheStats is a point-in-time view of cache usage.
type CacheStats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// ResponseCache is an in-memory LRU cache whose entries expire after a TTL.
// Expired entries are dropped when they are next read.
type ResponseCache struct {
	mu      sync.Mutex
	lru     *simplelru.LRU[string, cacheEntry]
	ttl     time.Duration
	maxSize int
	hits    uint64
	misses  uint64

	now func() time.Time
}

var _ Cache = (*ResponseCache)(nil)

// NewResponseCache creates a cache with a five minute TTL and 100 entries.
func NewResponseCache() *ResponseCache {
	return NewResponseCacheWithSettings(DefaultCacheTTL, DefaultCacheMaxEntries)
}

// NewResponseCacheWithSettings creates a cache with custom limits.
// Non-positive values fall back to the defaults.
func NewResponseCacheWithSettings(ttl time.Duration, maxEntries int) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}

	// NewLRU only fails on a non-positive size
	lru, _ := simplelru.NewLRU[string, cacheEntry](maxEntries, nil)

	return &ResponseCache{
		lru:     lru,
		ttl:     ttl,
		maxSize: maxEntries,
		now:     time.Now,
	}
}

func (c *ResponseCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(key)
	if !ok {
		c.misses++
		return "", false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		c.lru.Remove(key)
		c.misses++
		return "", false
	}

	c.hits++
	return entry.value, true
}

// Set inserts or overwrites key. Adding a new key to a full cache evicts
// the least recently used entry.
func (c *ResponseCache) Set(_ context.Context, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, cacheEntry{value: value, storedAt: c.now()})
}

// setExpiringIn stores value so that it expires after remaining instead of
// a full TTL. Used when copying an entry that already aged in another tier.
func (c *ResponseCache) setExpiringIn(key, value string, remaining time.Duration) {
	if remaining > c.ttl {
		remaining = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, cacheEntry{value: value, storedAt: c.now().Add(remaining - c.ttl)})
}

func (c *ResponseCache) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Purge()
}

// Ping always succeeds for the in-memory cache
func (c *ResponseCache) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of stored entries, including expired ones not yet read.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// MaxEntries returns the configured capacity
func (c *ResponseCache) MaxEntries() int {
	return c.maxSize
}

// TTL returns the configured entry lifetime
func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}

func (c *ResponseCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Entries: c.lru.Len(),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
