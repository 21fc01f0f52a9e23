package schema

import (
	"sync"

	"github.com/tabflow/tabflow/internal/model"
)

// Cache holds schema snapshots keyed by fingerprint so repeated
// ingestion of same-shaped files reuses earlier inference work.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Schema
}

// NewCache creates an empty schema cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Schema)}
}

// Get returns the cached schema for a fingerprint, if any.
func (c *Cache) Get(fingerprint string) (*Schema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[fingerprint]
	return s, ok
}

// Put stores a schema under its own fingerprint.
func (c *Cache) Put(s *Schema) {
	if s == nil || s.Fingerprint == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[s.Fingerprint] = s
}

// Snapshot returns the cached schema for the table's column shape, or
// takes a fresh snapshot and caches it. The bool reports a cache hit.
func (c *Cache) Snapshot(t *model.Table, sourceFile string) (*Schema, bool) {
	if s, ok := c.Get(FingerprintNames(t.Columns)); ok {
		return s, true
	}
	s := FromTable(t, sourceFile)
	c.Put(s)
	return s, false
}

// Len returns the number of cached schemas.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
