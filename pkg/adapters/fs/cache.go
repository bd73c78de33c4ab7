package fs

import (
	"sync"
	"time"

	"github.com/aretw0/uwuw/pkg/core"
)

// cacheEntry is a library as it was loaded from one file state.
type cacheEntry struct {
	Library      *core.Library
	LastModified time.Time
	Size         int64
}

// cache keeps loaded libraries keyed by path and datapath.
type cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

func newCache() *cache {
	return &cache{entries: make(map[string]*cacheEntry)}
}

func cacheKey(path, datapath string) string {
	return path + "#" + datapath
}

// Get retrieves an entry if it exists and is fresh.
// Returns nil and false on a miss or when the file changed since it was cached.
func (c *cache) Get(path, datapath string, mtime time.Time, size int64) (*cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[cacheKey(path, datapath)]
	if !ok {
		return nil, false
	}
	if !entry.LastModified.Equal(mtime) || entry.Size != size {
		return nil, false
	}
	return entry, true
}

// Set updates an entry in the cache.
func (c *cache) Set(path, datapath string, entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(path, datapath)] = entry
}

// Invalidate drops every datapath cached for path.
func (c *cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := path + "#"
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
