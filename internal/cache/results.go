// Package cache provides caching utilities for search backends.
package cache

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/usestring/filterkit/pkg/query"
	"github.com/usestring/filterkit/pkg/types"
)

// Searcher is the backend a ResultCache fronts.
type Searcher interface {
	Search(ctx context.Context, q query.Query) (*query.Result, error)
}

// generational is implemented by backends whose contents change over time.
// The generation is part of the cache key, so a write invalidates every entry.
type generational interface {
	Generation() uint64
}

// ResultCache provides thread-safe LRU caching of search results.
// Concurrent identical queries that miss are collapsed into one backend call.
type ResultCache struct {
	next  Searcher
	cache *lru.Cache[string, *query.Result]
	group singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// NewResultCache creates a cache holding at most maxItems results in front of next.
func NewResultCache(next Searcher, maxItems int) (*ResultCache, error) {
	c, err := lru.New[string, *query.Result](maxItems)
	if err != nil {
		return nil, err
	}
	return &ResultCache{next: next, cache: c}, nil
}

// Search returns a cached result for q or runs it against the backend.
// Failed searches are not cached.
func (c *ResultCache) Search(ctx context.Context, q query.Query) (*query.Result, error) {
	key := c.key(q)

	if res, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return clone(res), nil
	}
	c.misses.Add(1)

	v, err, shared := c.group.Do(key, func() (any, error) {
		res, err := c.next.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, res)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("search result shared with concurrent caller")
	}
	return clone(v.(*query.Result)), nil
}

// Len returns the current number of cached results.
func (c *ResultCache) Len() int {
	return c.cache.Len()
}

// Stats returns the hit and miss counters.
func (c *ResultCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *ResultCache) key(q query.Query) string {
	if g, ok := c.next.(generational); ok {
		return strconv.FormatUint(g.Generation(), 10) + "|" + q.Key()
	}
	return q.Key()
}

// clone copies the result header and document slice so callers cannot
// reorder the cached hits. Document sources and buckets are shared read-only.
func clone(r *query.Result) *query.Result {
	out := *r
	out.Documents = append([]types.Document(nil), r.Documents...)
	return &out
}
