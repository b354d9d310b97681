package cache

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = 30 * time.Minute

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-process Store with TTL expiry.
type MemoryStore struct {
	mu          sync.Mutex
	entries     map[string]entry
	stopCleanup chan struct{}
}

func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		entries:     make(map[string]entry),
		stopCleanup: make(chan struct{}),
	}
	go store.cleanupLoop()
	return store
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cached, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if !cached.expiresAt.IsZero() && time.Now().After(cached.expiresAt) {
		delete(m.entries, key)
		return "", false
	}
	return cached.value, true
}

// Set stores a value. A non-positive ttl means the entry never expires.
func (m *MemoryStore) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cached := entry{value: value}
	if ttl > 0 {
		cached.expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = cached
	return nil
}

func (m *MemoryStore) Stop() {
	close(m.stopCleanup)
}

func (m *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *MemoryStore) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, cached := range m.entries {
		if !cached.expiresAt.IsZero() && now.After(cached.expiresAt) {
			delete(m.entries, key)
		}
	}
}
