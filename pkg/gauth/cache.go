package gauth

import (
	"sync"
	"time"
)

// Token is an OAuth access token and the instant it stops being valid.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Cache stores access tokens keyed by OAuth scope.
type Cache interface {
	Get(scope string) (Token, bool)
	Set(scope string, token Token)
}

// MemoryCache is a process-local Cache safe for concurrent use.
type MemoryCache struct {
	mu     sync.RWMutex
	tokens map[string]Token
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{tokens: make(map[string]Token)}
}

func (c *MemoryCache) Get(scope string) (Token, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tokens[scope]
	return t, ok
}

func (c *MemoryCache) Set(scope string, token Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[scope] = token
}
