package media

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/VantageDataChat/GoDeck/model"
)

// Cache de-duplicates fetches of the same reference within one deck. It is
// created per render and never shared between decks.
type Cache struct {
	fetcher Fetcher
	timeout time.Duration

	group singleflight.Group
	mu    sync.Mutex
	done  map[string]entry
}

type entry struct {
	asset *Asset
	err   error
}

// NewCache wraps fetcher. Each fetch runs under its own timeout; zero means
// only the caller's context applies.
func NewCache(fetcher Fetcher, timeout time.Duration) *Cache {
	return &Cache{fetcher: fetcher, timeout: timeout, done: map[string]entry{}}
}

// Get returns the resolved asset for ref. Failures are *model.MediaFetchError
// and are remembered like successes, so every slide naming ref sees the same
// outcome.
func (c *Cache) Get(ctx context.Context, ref string) (*Asset, error) {
	c.mu.Lock()
	if e, ok := c.done[ref]; ok {
		c.mu.Unlock()
		return e.asset, e.err
	}
	c.mu.Unlock()

	v, _, _ := c.group.Do(ref, func() (interface{}, error) {
		c.mu.Lock()
		if e, ok := c.done[ref]; ok {
			c.mu.Unlock()
			return e, nil
		}
		c.mu.Unlock()

		e := c.load(ctx, ref)
		if ctx.Err() == nil {
			c.mu.Lock()
			c.done[ref] = e
			c.mu.Unlock()
		}
		return e, nil
	})
	e := v.(entry)
	return e.asset, e.err
}

func (c *Cache) load(ctx context.Context, ref string) entry {
	if c.fetcher == nil {
		return entry{err: &model.MediaFetchError{Ref: ref, Err: ErrNoFetcher}}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	data, err := c.fetcher.Fetch(ctx, ref)
	if err != nil {
		log.Debugf("fetch %s failed: %v", ref, err)
		return entry{err: &model.MediaFetchError{Ref: ref, Err: err}}
	}
	asset, err := Resolve(ref, data)
	if err != nil {
		return entry{err: &model.MediaFetchError{Ref: ref, Err: err}}
	}
	return entry{asset: asset}
}

// Len returns the number of references resolved so far.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.done)
}
