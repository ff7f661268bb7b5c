package coordinator

import (
	"sync"

	"github.com/bnema/webdock/internal/domain/entity"
)

// MetaCache holds the ephemeral per-workspace runtime state.
// A missing entry reads as the zero value.
type MetaCache struct {
	mu      sync.RWMutex
	entries map[entity.WorkspaceID]entity.WorkspaceMeta
}

func NewMetaCache() *MetaCache {
	return &MetaCache{entries: make(map[entity.WorkspaceID]entity.WorkspaceMeta)}
}

func (c *MetaCache) Get(id entity.WorkspaceID) entity.WorkspaceMeta {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[id]
}

// Update applies fn to the entry, creating it on first write, and reports
// whether anything changed.
func (c *MetaCache) Update(id entity.WorkspaceID, fn func(*entity.WorkspaceMeta)) (entity.WorkspaceMeta, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.entries[id]
	after := before
	fn(&after)
	if after.BadgeCount < 0 {
		after.BadgeCount = 0
	}
	c.entries[id] = after
	return after, after != before
}

// Delete drops the entry of a removed workspace.
func (c *MetaCache) Delete(id entity.WorkspaceID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// All returns a copy of every entry.
func (c *MetaCache) All() map[entity.WorkspaceID]entity.WorkspaceMeta {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[entity.WorkspaceID]entity.WorkspaceMeta, len(c.entries))
	for id, m := range c.entries {
		out[id] = m
	}
	return out
}
