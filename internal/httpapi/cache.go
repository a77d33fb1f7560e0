package httpapi

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// responseCache is a tiny TTL cache for expensive read-model responses
// (the leaderboard). Manual refreshes purge it so users see their sync
// immediately.
type responseCache struct {
	cache *lru.Cache
	ttl   time.Duration
}

type cacheEntry struct {
	value   any
	expires time.Time
}

func newResponseCache(size int, ttl time.Duration) (*responseCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &responseCache{cache: c, ttl: ttl}, nil
}

func (c *responseCache) Get(key string) (any, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	entry := v.(cacheEntry)
	if time.Now().After(entry.expires) {
		c.cache.Remove(key)
		return nil, false
	}
	return entry.value, true
}

func (c *responseCache) Set(key string, value any) {
	c.cache.Add(key, cacheEntry{value: value, expires: time.Now().Add(c.ttl)})
}

func (c *responseCache) Purge() {
	c.cache.Purge()
}
