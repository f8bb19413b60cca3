package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appcart "github.com/storefront/backend/internal/application/cart"
)

// InMemoryProductViewCache is a process-local product view cache. Suitable
// for single-instance deployments and tests; entries expire lazily on read.
type InMemoryProductViewCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]inMemoryEntry
	ttl     time.Duration
}

type inMemoryEntry struct {
	view      appcart.ProductView
	expiresAt time.Time
}

// NewInMemoryProductViewCache creates an in-memory cache with the given TTL
func NewInMemoryProductViewCache(ttl time.Duration) *InMemoryProductViewCache {
	return &InMemoryProductViewCache{
		entries: make(map[uuid.UUID]inMemoryEntry),
		ttl:     ttl,
	}
}

// Get returns the cached view for a product, or a miss
func (c *InMemoryProductViewCache) Get(_ context.Context, productID uuid.UUID) (*appcart.ProductView, bool) {
	c.mu.RLock()
	entry, ok := c.entries[productID]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, productID)
		c.mu.Unlock()
		return nil, false
	}

	view := entry.view
	return &view, true
}

// Set stores a product view
func (c *InMemoryProductViewCache) Set(_ context.Context, view appcart.ProductView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[view.ID] = inMemoryEntry{
		view:      view,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops the cached view for a product
func (c *InMemoryProductViewCache) Invalidate(_ context.Context, productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, productID)
}

var _ appcart.ProductViewCache = (*InMemoryProductViewCache)(nil)
