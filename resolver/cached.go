package resolver

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/retrieval/model"
	"github.com/hupe1980/retrieval/query"
)

// DefaultCacheSize is the number of items a Cached resolver keeps when no
// size is given.
const DefaultCacheSize = 1024

// Cached wraps a resolver with an LRU cache. Concurrent lookups of the
// same uncached UID share one call to the inner resolver. Misses (nil or
// typed nil items) and errors are not cached.
type Cached struct {
	inner model.Resolver
	cache *lru.Cache[model.UID, any]
	group singleflight.Group
}

// NewCached creates a cached resolver holding up to size items.
func NewCached(inner model.Resolver, size int) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[model.UID, any](size)
	return &Cached{
		inner: inner,
		cache: cache,
	}
}

// Resolve implements model.Resolver.
func (c *Cached) Resolve(uid model.UID) (any, error) {
	if item, ok := c.cache.Get(uid); ok {
		return item, nil
	}

	item, err, _ := c.group.Do(string(uid), func() (any, error) {
		item, err := c.inner.Resolve(uid)
		if err != nil || query.IsNil(item) {
			return nil, err
		}
		c.cache.Add(uid, item)
		return item, nil
	})
	return item, err
}

// Forget drops uid from the cache.
func (c *Cached) Forget(uid model.UID) { c.cache.Remove(uid) }

// Purge empties the cache.
func (c *Cached) Purge() { c.cache.Purge() }

// Len returns the number of cached items.
func (c *Cached) Len() int { return c.cache.Len() }

// Inner returns the wrapped resolver.
func (c *Cached) Inner() model.Resolver { return c.inner }
