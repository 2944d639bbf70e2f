package catalog

import (
	"context"

	"github.com/hupe1980/contentbridge/internal/cache"
)

// Cached memoizes successful lookups of another catalog in an LRU.
// Misses and errors are not cached, so entries added later become visible.
type Cached struct {
	inner Catalog
	lru   *cache.LRU[string, Entry]
}

// NewCached wraps inner with an LRU of the given capacity.
func NewCached(inner Catalog, capacity int) *Cached {
	return &Cached{
		inner: inner,
		lru:   cache.NewLRU[string, Entry](capacity),
	}
}

// Lookup returns the cached entry or asks the wrapped catalog.
func (c *Cached) Lookup(ctx context.Context, uri string) (Entry, error) {
	if e, ok := c.lru.Get(uri); ok {
		return e, nil
	}

	e, err := c.inner.Lookup(ctx, uri)
	if err != nil {
		return Entry{}, err
	}
	c.lru.Set(uri, e)
	return e, nil
}

// Invalidate drops uri from the cache.
func (c *Cached) Invalidate(uri string) {
	c.lru.Delete(uri)
}

// Stats returns cache hits and misses.
func (c *Cached) Stats() (hits, misses int64) {
	return c.lru.Stats()
}
