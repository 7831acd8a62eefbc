// Package sprites manages the generated-texture key cache and the cheap
// per-frame pre-filters (distance culling, drift detection) that keep frame
// cost proportional to nearby dungeons rather than total world size.
package sprites

import (
	"fmt"
	"sync"

	"github.com/questforge/questmap/internal/errors"
)

// Key is a stable handle for the generated visual resources of one dungeon
// category. All dungeons of a category share one key.
type Key string

// GenerateFunc produces the visual resources for a category and returns their
// key. The cache guarantees it runs at most once per distinct category until
// the next Clear.
type GenerateFunc func(category string) Key

// Metrics is read-only cache introspection for diagnostics and tests.
type Metrics struct {
	CachedCount int `json:"cached_count"`
	QueuedCount int `json:"queued_count"`
}

// Config holds the dependencies for a sprite cache.
type Config struct {
	// Generate may be nil, in which case a deterministic default key
	// format is used.
	Generate GenerateFunc
}

// Cache memoizes generated sprite keys per dungeon category. It is an owned
// instance handed to the rendering subsystem, not a hidden singleton.
// Check-then-insert is guarded so idempotence holds even when callers evaluate
// frames across goroutines.
type Cache struct {
	generate GenerateFunc

	mu     sync.Mutex
	keys   map[string]Key
	queued []string
}

// NewCache creates a sprite cache.
func NewCache(cfg *Config) *Cache {
	generate := defaultGenerate
	if cfg != nil && cfg.Generate != nil {
		generate = cfg.Generate
	}
	return &Cache{
		generate: generate,
		keys:     make(map[string]Key),
	}
}

func defaultGenerate(category string) Key {
	return Key(fmt.Sprintf("sprite_%s", category))
}

// GetOrCreateKey returns the stable key for category, generating the
// underlying resources exactly once per distinct category for the lifetime of
// the cache. A second call with the same category performs no generation work.
func (c *Cache) GetOrCreateKey(category string) (Key, error) {
	if category == "" {
		return "", errors.InvalidArgument("category is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if key, ok := c.keys[category]; ok {
		return key, nil
	}

	key := c.generate(category)
	c.keys[category] = key
	return key, nil
}

// Enqueue records a generation request to be satisfied by the next
// ProcessQueue call. Categories already cached or already queued are ignored.
func (c *Cache) Enqueue(category string) error {
	if category == "" {
		return errors.InvalidArgument("category is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.keys[category]; ok {
		return nil
	}
	for _, queued := range c.queued {
		if queued == category {
			return nil
		}
	}
	c.queued = append(c.queued, category)
	return nil
}

// ProcessQueue generates keys for all queued categories and drains the queue.
func (c *Cache) ProcessQueue() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, category := range c.queued {
		if _, ok := c.keys[category]; ok {
			continue
		}
		c.keys[category] = c.generate(category)
	}
	c.queued = nil
}

// Clear empties the cache and any queued-but-unconsumed generation requests.
// Subsequent lookups regenerate. Partial invalidation is deliberately not
// offered.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.keys = make(map[string]Key)
	c.queued = nil
}

// Metrics returns current cache occupancy.
func (c *Cache) Metrics() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Metrics{
		CachedCount: len(c.keys),
		QueuedCount: len(c.queued),
	}
}
