package geocode

import (
	"context"
	"sync"

	"portfoliobim_backend/platform/logger"
)

// Cache is the durable place-name -> coordinate cache. Lookups are served
// from memory; every new entry is flushed to the backing store before the
// write is reported complete, so a completed resolution survives a crash.
// Entries are never evicted: a geocoded place name is treated as static.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Coordinate
	store   Store
	log     *logger.Logger
}

// NewCache loads the persisted map from the store, or starts empty when
// the store holds nothing or cannot be read (load-or-empty init).
func NewCache(ctx context.Context, store Store, log *logger.Logger) *Cache {
	entries, err := store.Load(ctx)
	if err != nil {
		log.Warn("geocode cache load failed, starting empty", "error", err)
		entries = map[string]Coordinate{}
	}

	log.Info("geocode cache initialized", "entries", len(entries))

	return &Cache{
		entries: entries,
		store:   store,
		log:     log,
	}
}

// Get returns the cached coordinate for a normalized place name.
func (c *Cache) Get(place string) (Coordinate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coord, ok := c.entries[place]
	return coord, ok
}

// Set stores a resolved coordinate and synchronously flushes the full map
// to the durable store. The in-memory entry is kept even when the flush
// fails, so the resolution stays usable for the rest of the session.
func (c *Cache) Set(ctx context.Context, place string, coord Coordinate) error {
	c.mu.Lock()
	c.entries[place] = coord
	snapshot := make(map[string]Coordinate, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.mu.Unlock()

	if err := c.store.Flush(ctx, snapshot); err != nil {
		c.log.Warn("geocode cache flush failed", "place", place, "error", err)
		return err
	}

	c.log.CacheEvent("stored", place)
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops all entries, in memory and in the durable store.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = map[string]Coordinate{}
	c.mu.Unlock()

	return c.store.Clear(ctx)
}
