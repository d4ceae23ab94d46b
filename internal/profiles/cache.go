package profiles

import (
	"sync"
	"time"
)

type cachedProfile struct {
	profile   Profile
	fetchedAt time.Time
}

// ProfileCache keeps recently fetched profiles per user.
type ProfileCache struct {
	mu      sync.RWMutex
	entries map[string]cachedProfile
	ttl     time.Duration
}

func NewProfileCache(ttl time.Duration) *ProfileCache {
	return &ProfileCache{ttl: ttl, entries: make(map[string]cachedProfile)}
}

func (c *ProfileCache) Get(userID string) *Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[userID]
	if !ok || c.ttl <= 0 || time.Since(e.fetchedAt) > c.ttl {
		return nil
	}
	p := e.profile
	return &p
}

func (c *ProfileCache) Set(p Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[p.ID] = cachedProfile{profile: p, fetchedAt: time.Now()}
}

func (c *ProfileCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
}
