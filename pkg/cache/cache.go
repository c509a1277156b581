// Package cache provides a small response cache used to avoid
// re-fetching identical source queries during repeated runs.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is the contract the sources depend on.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
}

type entry struct {
	val     string
	expires time.Time
}

// Memory is an in-process cache safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key if present and not expired.
func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if time.Now().After(e.expires) {
		delete(m.entries, key)
		return "", false
	}
	return e.val, true
}

// Set stores val under key for ttl.
func (m *Memory) Set(_ context.Context, key, val string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{
		val:     val,
		expires: time.Now().Add(ttl),
	}
	return nil
}
