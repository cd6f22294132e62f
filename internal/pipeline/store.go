package pipeline

import (
	"github.com/ppiankov/fevercs/internal/cache"
	"github.com/ppiankov/fevercs/internal/model"
)

// NewStore opens the response cache described by cfg. With the default disk_ttl of 0
// disk entries never expire and the cache directory is the durable record of every lookup.
func NewStore(cfg model.CacheConfig) cache.Cache {
	if !cfg.Enabled {
		return cache.Nop{}
	}
	return cache.NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
