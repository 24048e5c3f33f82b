package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/course"
)

// MemoryCache is the single-process fallback used when no Redis address is
// configured.
type MemoryCache struct {
	mu  sync.RWMutex
	ttl time.Duration

	available    []course.CatalogEntry
	availableExp time.Time

	unassigned    []course.UnassignedCourse
	unassignedExp time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &MemoryCache{ttl: ttl}
}

func (c *MemoryCache) GetAvailable(_ context.Context) ([]course.CatalogEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.available == nil || time.Now().After(c.availableExp) {
		return nil, false
	}
	return c.available, true
}

func (c *MemoryCache) SetAvailable(_ context.Context, entries []course.CatalogEntry) {
	c.mu.Lock()
	c.available = entries
	c.availableExp = time.Now().Add(c.ttl)
	c.mu.Unlock()
}

func (c *MemoryCache) GetUnassigned(_ context.Context) ([]course.UnassignedCourse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.unassigned == nil || time.Now().After(c.unassignedExp) {
		return nil, false
	}
	return c.unassigned, true
}

func (c *MemoryCache) SetUnassigned(_ context.Context, courses []course.UnassignedCourse) {
	c.mu.Lock()
	c.unassigned = courses
	c.unassignedExp = time.Now().Add(c.ttl)
	c.mu.Unlock()
}

func (c *MemoryCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	c.available = nil
	c.unassigned = nil
	c.mu.Unlock()
}
