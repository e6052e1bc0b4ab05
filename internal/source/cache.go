package source

import (
	"fmt"
	"path"

	"github.com/dgraph-io/ristretto"
)

// DefaultCacheCost is the cache budget in bytes of template text.
const DefaultCacheCost = 32 << 20

// Cached keeps recently read template text in memory. Misses and
// not-found results go to the wrapped source every time.
type Cached struct {
	src   Source
	cache *ristretto.Cache
}

// NewCached wraps src with a cache holding up to maxCost bytes of text.
// A maxCost of zero or less uses DefaultCacheCost.
func NewCached(src Source, maxCost int64) (*Cached, error) {
	if maxCost <= 0 {
		maxCost = DefaultCacheCost
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating template cache: %w", err)
	}
	return &Cached{src: src, cache: cache}, nil
}

// Name implements Namer.
func (c *Cached) Name() string { return NameOf(c.src) }

// Read implements Source.
func (c *Cached) Read(name string) (string, error) {
	name = path.Clean(name)
	if v, ok := c.cache.Get(name); ok {
		if text, ok := v.(string); ok {
			return text, nil
		}
		c.cache.Del(name)
	}
	text, err := c.src.Read(name)
	if err != nil {
		return "", err
	}
	c.cache.Set(name, text, int64(len(text))+1)
	return text, nil
}

// Exists implements Source.
func (c *Cached) Exists(name string) bool {
	if _, ok := c.cache.Get(path.Clean(name)); ok {
		return true
	}
	return c.src.Exists(name)
}

// List implements Lister when the wrapped source does.
func (c *Cached) List(dir string) ([]string, error) {
	l, ok := c.src.(Lister)
	if !ok {
		return nil, NotFound(dir)
	}
	return l.List(dir)
}

// Invalidate drops name from the cache.
func (c *Cached) Invalidate(name string) {
	c.cache.Del(path.Clean(name))
}

// Purge drops every cached entry.
func (c *Cached) Purge() {
	c.cache.Clear()
}

// Wait blocks until pending cache writes are applied.
func (c *Cached) Wait() {
	c.cache.Wait()
}

// Close releases the cache.
func (c *Cached) Close() {
	c.cache.Close()
}
