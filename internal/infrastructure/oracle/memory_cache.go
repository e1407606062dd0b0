package oracle

import (
	"context"

	"yonexus/internal/domain"

	"github.com/puzpuzpuz/xsync"
)

// MemoryCache keeps the last good registry snapshot per character for the
// lifetime of the process. With a positive limit, names beyond the limit are
// not cached; known names are still refreshed.
type MemoryCache struct {
	entries *xsync.MapOf[string, domain.ExternalInfo]
	limit   int
}

func NewMemoryCache(limit int) *MemoryCache {
	return &MemoryCache{
		entries: xsync.NewMapOf[domain.ExternalInfo](),
		limit:   limit,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (domain.ExternalInfo, bool) {
	return c.entries.Load(key)
}

func (c *MemoryCache) Put(_ context.Context, key string, info domain.ExternalInfo) {
	if c.limit > 0 && c.entries.Size() >= c.limit {
		if _, ok := c.entries.Load(key); !ok {
			return
		}
	}
	c.entries.Store(key, info)
}

func (c *MemoryCache) Len() int {
	return c.entries.Size()
}
