package token

import (
	"sync"
	"time"
)

// RevokedTokenCache remembers the jti of access tokens logged out before they
// expired. An entry only has to outlive its token: once exp has passed,
// Validate rejects the token on expiry alone.
type RevokedTokenCache interface {
	Add(jti string, exp time.Time) error
	IsRevoked(jti string) bool
	// Cleanup drops entries whose token expired before now and reports how many.
	Cleanup(now time.Time) int
}

type InMemoryRevokedTokenCache struct {
	mu      sync.RWMutex
	expires map[string]time.Time
}

func NewInMemoryRevokedTokenCache() *InMemoryRevokedTokenCache {
	return &InMemoryRevokedTokenCache{
		expires: make(map[string]time.Time),
	}
}

func (c *InMemoryRevokedTokenCache) Add(jti string, exp time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.expires[jti]; ok && prev.After(exp) {
		return nil
	}
	c.expires[jti] = exp
	return nil
}

func (c *InMemoryRevokedTokenCache) IsRevoked(jti string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.expires[jti]
	return ok
}

func (c *InMemoryRevokedTokenCache) Cleanup(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for jti, exp := range c.expires {
		if exp.Before(now) {
			delete(c.expires, jti)
			removed++
		}
	}
	return removed
}

func (c *InMemoryRevokedTokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.expires)
}
