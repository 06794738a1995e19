package fetch

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/angryss/idp-config/pkg/schema"
)

type (
	// Source is what form orchestrators consume: cached reads plus an
	// explicit cache-bypassing refresh for retries.
	Source interface {
		Schema(ctx context.Context, key schema.FetchKey) (*schema.Schema, error)
		Refresh(ctx context.Context, key schema.FetchKey) (*schema.Schema, error)
	}

	// Cache memoizes successful fetches per key until ClearCache. Concurrent
	// calls for an identical key coalesce into a single in-flight fetch.
	// Failures are never cached.
	Cache struct {
		fetcher Fetcher

		group   singleflight.Group
		mu      sync.RWMutex
		entries map[schema.FetchKey]*schema.Schema
	}
)

func NewCache(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		entries: make(map[schema.FetchKey]*schema.Schema),
	}
}

// Schema returns the cached result for the key, fetching on a miss.
func (c *Cache) Schema(ctx context.Context, key schema.FetchKey) (*schema.Schema, error) {
	c.mu.RLock()
	cached, hit := c.entries[key]
	c.mu.RUnlock()
	if hit {
		return cached, nil
	}
	return c.fetch(ctx, key)
}

// Refresh fetches the key's schema unconditionally, replacing any cached
// result on success. Used by form retries so a previously cached failure
// mode (or stale schema) cannot satisfy the attempt. Refreshes fly under
// their own flight key: joining a cached read's flight could serve the
// retry a cached result without a fresh request.
func (c *Cache) Refresh(ctx context.Context, key schema.FetchKey) (*schema.Schema, error) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	result, err, _ := c.group.Do("refresh:"+key.String(), func() (any, error) {
		return c.fetchAndStore(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return result.(*schema.Schema), nil
}

func (c *Cache) fetch(ctx context.Context, key schema.FetchKey) (*schema.Schema, error) {
	result, err, shared := c.group.Do(key.String(), func() (any, error) {
		// Re-check under the flight: a concurrent caller may have populated
		// the cache between the miss and the flight starting.
		c.mu.RLock()
		cached, hit := c.entries[key]
		c.mu.RUnlock()
		if hit {
			return cached, nil
		}
		return c.fetchAndStore(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		zap.L().Debug("coalesced schema fetch", zap.String("key", key.String()))
	}
	return result.(*schema.Schema), nil
}

func (c *Cache) fetchAndStore(ctx context.Context, key schema.FetchKey) (*schema.Schema, error) {
	fetched, err := c.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = fetched
	c.mu.Unlock()
	return fetched, nil
}

// ClearCache drops every cached schema. It is the only invalidation the
// cache supports.
func (c *Cache) ClearCache() {
	c.mu.Lock()
	c.entries = make(map[schema.FetchKey]*schema.Schema)
	c.mu.Unlock()
}

// Len reports how many keys are currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
