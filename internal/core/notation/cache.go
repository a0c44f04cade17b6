package notation

import "sync"

// Cache stores compiled expressions by normalized key. Implementations must
// be safe for concurrent use. Two expressions stored under the same key are
// interchangeable, so a racing Put may simply overwrite.
type Cache interface {
	Get(key string) (*Expression, bool)
	Put(key string, expr *Expression)
	Len() int
}

// MapCache is an unbounded Cache. Entries are never evicted.
type MapCache struct {
	mu      sync.RWMutex
	entries map[string]*Expression
}

// NewMapCache returns an empty unbounded cache.
func NewMapCache() *MapCache {
	return &MapCache{entries: make(map[string]*Expression)}
}

// Get returns the expression stored under key.
func (c *MapCache) Get(key string) (*Expression, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	expr, ok := c.entries[key]
	return expr, ok
}

// Put stores expr under key, replacing any previous entry.
func (c *MapCache) Put(key string, expr *Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = expr
}

// Len returns the number of cached expressions.
func (c *MapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
