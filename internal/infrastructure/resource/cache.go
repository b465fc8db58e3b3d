// Package resource provides a reference-counted asset cache.
//
// Assets are keyed by a logical name (usually a slash-separated path) and
// loaded at most once per key while resident. Callers receive Handles that
// share ownership of the asset with the cache: evicting an entry only drops
// the cache's own reference, so handles issued earlier keep working until
// they are released.
package resource

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/younwookim/stagekit/internal/infrastructure/logging"
)

// DefaultPreloadLimit is the number of concurrent loads used by Preload.
const DefaultPreloadLimit = 4

// Loader performs the physical load of an asset.
// Returning a *LoadError selects the error kind; any other error is
// reported as an I/O failure.
type Loader interface {
	Load(ctx context.Context, key string) (any, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, key string) (any, error)

// Load calls f(ctx, key).
func (f LoaderFunc) Load(ctx context.Context, key string) (any, error) {
	return f(ctx, key)
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Loads     uint64
	Failures  uint64
	Evictions uint64
	HitRate   float64
}

// Cache maps logical keys to loaded assets.
// It is safe for concurrent use.
type Cache struct {
	loader Loader
	group  singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry

	preloadLimit int

	hits      atomic.Uint64
	misses    atomic.Uint64
	loads     atomic.Uint64
	failures  atomic.Uint64
	evictions atomic.Uint64

	log *slog.Logger
}

// New creates an empty cache backed by loader.
func New(loader Loader) *Cache {
	return &Cache{
		loader:       loader,
		entries:      make(map[string]*entry),
		preloadLimit: DefaultPreloadLimit,
		log:          logging.For("resource"),
	}
}

// SetPreloadLimit sets how many loads Preload runs at once.
// Values below 1 restore DefaultPreloadLimit.
func (c *Cache) SetPreloadLimit(n int) {
	if n < 1 {
		n = DefaultPreloadLimit
	}
	c.preloadLimit = n
}

// GetOrLoad returns a handle to the asset cached under key, loading it on
// a miss. Concurrent calls for the same key share a single load.
//
// On failure a *LoadError is returned and nothing is cached. If ctx is
// cancelled while waiting for another caller's load, ctx.Err() is returned
// and the load keeps running for the remaining callers.
func (c *Cache) GetOrLoad(ctx context.Context, key string) (*Handle, error) {
	for {
		if h := c.lookup(key); h != nil {
			c.hits.Add(1)
			return h, nil
		}
		c.misses.Add(1)

		e, err := c.load(ctx, key)
		if err != nil {
			return nil, err
		}
		if e.acquire() {
			return newHandle(e), nil
		}
		// The entry was evicted and fully released before we could take a
		// reference. Start over.
	}
}

func (c *Cache) lookup(key string) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !e.acquire() {
		return nil
	}
	return newHandle(e)
}

func (c *Cache) load(ctx context.Context, key string) (*entry, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		c.mu.Lock()
		if e, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return e, nil
		}
		c.mu.Unlock()

		asset, err := c.loader.Load(context.WithoutCancel(ctx), key)
		if err != nil {
			c.failures.Add(1)
			le := asLoadError(key, err)
			c.log.Debug("load failed", "key", key, "kind", le.Kind.String(), "err", le.Err)
			return nil, le
		}

		e := newEntry(key, asset)
		c.mu.Lock()
		c.entries[key] = e
		c.mu.Unlock()
		c.loads.Add(1)
		c.log.Debug("loaded", "key", key)
		return e, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*entry), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Evict removes key from the cache and reports whether it was present.
// Handles already issued for key remain valid.
func (c *Cache) Evict(key string) bool {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	c.mu.Unlock()

	if !ok {
		return false
	}
	c.evictions.Add(1)
	c.log.Debug("evicted", "key", key)
	e.release()
	return true
}

// Clear drops the cache's references to every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	old := c.entries
	c.entries = make(map[string]*entry)
	c.mu.Unlock()

	for _, e := range old {
		c.evictions.Add(1)
		e.release()
	}
	c.log.Debug("cleared", "entries", len(old))
}

// Contains reports whether key is resident.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of resident entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the resident keys in sorted order.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.Unlock()

	sort.Strings(keys)
	return keys
}

// Preload loads keys concurrently and leaves them resident.
// Every key is attempted; the first error encountered is returned.
func (c *Cache) Preload(ctx context.Context, keys ...string) error {
	var g errgroup.Group
	g.SetLimit(c.preloadLimit)

	for _, key := range keys {
		key := key
		g.Go(func() error {
			h, err := c.GetOrLoad(ctx, key)
			if err != nil {
				c.log.Warn("preload failed", "key", key, "err", err)
				return err
			}
			h.Release()
			return nil
		})
	}
	return g.Wait()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:       c.Len(),
		Hits:      hits,
		Misses:    misses,
		Loads:     c.loads.Load(),
		Failures:  c.failures.Load(),
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}
