package collector

import (
	"sort"
	"strings"
	"sync"
	"time"

	"NiftySentinel/internal/metrics"
	"NiftySentinel/internal/model"
)

// DefaultCacheTTL is the time box for memoized provider results.
const DefaultCacheTTL = 5 * time.Minute

// TTLCache is an expiring key-value cache. Entries are never returned past
// their deadline; a miss is always safe for the caller.
type TTLCache[K comparable, V any] struct {
	mu      sync.Mutex
	name    string
	ttl     time.Duration
	now     func() time.Time
	entries map[K]ttlEntry[V]
}

type ttlEntry[V any] struct {
	value   V
	expires time.Time
}

// NewTTLCache creates a cache whose entries live for ttl. A non-positive ttl disables caching.
func NewTTLCache[K comparable, V any](name string, ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		name:    name,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[K]ttlEntry[V]),
	}
}

// WithClock replaces the time source, for tests.
func (c *TTLCache[K, V]) WithClock(now func() time.Time) *TTLCache[K, V] {
	c.now = now
	return c
}

// Get returns the live value for key.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		metrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()
		return zero, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		metrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()
		return zero, false
	}
	metrics.CacheLookups.WithLabelValues(c.name, "hit").Inc()
	return e.value, true
}

// Set stores value under key for the cache TTL.
func (c *TTLCache[K, V]) Set(key K, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = ttlEntry[V]{value: value, expires: now.Add(c.ttl)}
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CacheKey builds an order-independent key for a symbol set requested under a rule set.
func CacheKey(ruleSet string, symbols []model.Symbol, lookback model.Lookback) string {
	sorted := make([]string, len(symbols))
	for i, s := range symbols {
		sorted[i] = string(s)
	}
	sort.Strings(sorted)
	return ruleSet + "|" + string(lookback) + "|" + strings.Join(sorted, ",")
}
