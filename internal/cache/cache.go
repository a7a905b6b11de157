package cache

import (
	"context"
	"sync"
	"time"
)

// Store is the narrow expiring key-value capability the ranking engine
// depends on. Get reports absence (expired or never set) without error;
// backend failures surface as errors so callers can distinguish "miss" from
// "cache broken".
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

func (i *memoryItem) expired() bool {
	return time.Now().After(i.expiresAt)
}

// Memory is a thread-safe in-process Store with per-entry TTL. Used when no
// Redis address is configured.
type Memory struct {
	mu    sync.RWMutex
	items map[string]*memoryItem
}

// NewMemory creates an in-process cache and starts its cleanup goroutine.
func NewMemory() *Memory {
	m := &Memory{items: make(map[string]*memoryItem)}
	go m.cleanup()
	return m
}

// cleanup removes expired items periodically.
func (m *Memory) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		for key, item := range m.items {
			if item.expired() {
				delete(m.items, key)
			}
		}
		m.mu.Unlock()
	}
}

// Get retrieves an item; expired entries count as absent.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	item, exists := m.items[key]
	m.mu.RUnlock()

	if !exists || item.expired() {
		return nil, false, nil
	}
	return item.data, true, nil
}

// Set stores an item with its own TTL. Overwriting is always safe.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = &memoryItem{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Size returns the number of items in the cache, expired included.
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.items)
}
