package datasource

import (
	"strings"
	"sync"
	"time"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// DefaultTTL is how long a cached datasource, or a recorded miss, is trusted.
const DefaultTTL = 5 * time.Minute

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// Cache is a time-expiring key/value memoizer. Entries older than the ttl
// read as absent and are dropped on access; there is no background sweep.
// Safe for concurrent use.
type Cache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[T]
	nowFunc func() time.Time
}

// NewCache creates a cache with the given ttl. A nil now uses time.Now.
func NewCache[T any](ttl time.Duration, now func() time.Time) *Cache[T] {
	if now == nil {
		now = time.Now
	}
	return &Cache[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
		nowFunc: now,
	}
}

// Get returns the value stored under key if it has not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.nowFunc().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, stamped with the current time.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{value: value, storedAt: c.nowFunc()}
}

// Len returns the number of stored entries, including expired entries that
// have not been read since they expired.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// BuildKey returns the cache key of a selector: kind[-name][-project].
// Missing segments are omitted, so a kind-only lookup and a named lookup
// land in different slots.
func BuildKey(sel domain.DatasourceSelector, project string) string {
	parts := make([]string, 0, 3)
	parts = append(parts, sel.Kind)
	if sel.Name != "" {
		parts = append(parts, sel.Name)
	}
	if project != "" {
		parts = append(parts, project)
	}
	return strings.Join(parts, "-")
}
