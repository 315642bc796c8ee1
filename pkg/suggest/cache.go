package suggest

import (
	"sync/atomic"

	"github.com/bastiangx/rhymeserve/pkg/rhyme"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// ResultCache keeps recent rhyme results. Concurrent misses on one key run the fill once.
// Cached results are shared: callers must not modify them.
type ResultCache struct {
	lru    *lru.Cache[string, rhyme.SearchResult]
	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// NewResultCache creates a cache holding up to size results. A size <= 0 disables caching.
func NewResultCache(size int) (*ResultCache, error) {
	c := &ResultCache{}
	if size <= 0 {
		return c, nil
	}
	cache, err := lru.New[string, rhyme.SearchResult](size)
	if err != nil {
		return nil, err
	}
	c.lru = cache
	return c, nil
}

// Get returns the result cached under key, calling fill on a miss.
func (c *ResultCache) Get(key string, fill func() rhyme.SearchResult) rhyme.SearchResult {
	if c.lru == nil {
		c.misses.Add(1)
		return fill()
	}
	if res, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return res
	}
	v, _, _ := c.group.Do(key, func() (any, error) {
		c.misses.Add(1)
		res := fill()
		c.lru.Add(key, res)
		return res, nil
	})
	return v.(rhyme.SearchResult)
}

// Purge drops every cached result.
func (c *ResultCache) Purge() {
	if c.lru != nil {
		c.lru.Purge()
	}
}

func (c *ResultCache) Stats() map[string]int {
	size := 0
	if c.lru != nil {
		size = c.lru.Len()
	}
	return map[string]int{
		"cacheSize":   size,
		"cacheHits":   int(c.hits.Load()),
		"cacheMisses": int(c.misses.Load()),
	}
}
