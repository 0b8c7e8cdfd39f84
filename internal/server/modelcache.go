package server

import (
	"sync"
	"time"

	"github.com/ahrav/go-blueprint/infrastructure/llm"
)

type cacheEntry struct {
	models   []llm.ModelDescriptor
	cachedAt time.Time
}

// ModelCache is a process-wide TTL cache of model lists, keyed by provider
// name. It is shared across users; the model catalog is not user-specific.
type ModelCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewModelCache creates a cache with the given TTL.
func NewModelCache(ttl time.Duration) *ModelCache {
	return &ModelCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached model list for the provider and when it was
// cached. Expired entries are treated as absent.
func (c *ModelCache) Get(provider string) ([]llm.ModelDescriptor, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[provider]
	if !ok || c.now().Sub(entry.cachedAt) >= c.ttl {
		return nil, time.Time{}, false
	}
	return entry.models, entry.cachedAt, true
}

// Set stores the model list for the provider, replacing any prior entry.
func (c *ModelCache) Set(provider string, models []llm.ModelDescriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[provider] = cacheEntry{models: models, cachedAt: c.now()}
}
