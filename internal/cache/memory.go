package cache

import (
	"bytes"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-process layer in front of the disk cache. It answers the
// translation batcher when the same claims come up again in a run, and it serves
// disk hits promoted by LayeredCache without touching the file system twice.
//
// Values are copied in both directions: the resolver and the batcher share one
// store, and neither may see bytes the other mutated after the fact.
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache keeps entries for ttl; expired entries are purged every sweep
func NewMemoryCache(ttl time.Duration, sweep time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(ttl, sweep)}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.items.Get(key)
	if !found {
		return nil, false
	}
	body, ok := val.([]byte)
	if !ok {
		return nil, false
	}
	return bytes.Clone(body), true
}

// Set stores a copy of value. A ttl of 0 falls back to the cache-wide ttl.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.items.Set(key, bytes.Clone(value), ttl)
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.items.Delete(key)
	return nil
}

func (c *MemoryCache) Clear() error {
	c.items.Flush()
	return nil
}

// Len counts live entries; expired ones awaiting the next sweep are skipped
func (c *MemoryCache) Len() int {
	return len(c.items.Items())
}
