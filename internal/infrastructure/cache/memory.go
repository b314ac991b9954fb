package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value  []byte
	expiry time.Time
}

// Memory is the default in-process store. Expired entries are evicted
// lazily on lookup; there is no background sweep and no capacity bound.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewMemoryWithClock injects a time source for tests.
func NewMemoryWithClock(ttl time.Duration, now func() time.Time) *Memory {
	m := NewMemory(ttl)
	m.now = now
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiry) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiry: m.now().Add(m.ttl)}
	m.mu.Unlock()
}
