package adapter

import (
	"context"
	"sync"
	"time"

	"lecture-quiz/internal/domain"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCacheAdapter is a process-local domain.Cache used when no Redis
// address is configured. Expired entries are dropped lazily on read.
type MemoryCacheAdapter struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCacheAdapter() *MemoryCacheAdapter {
	return &MemoryCacheAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryCacheAdapter) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return "", domain.ErrCacheMiss
	}
	return e.value, nil
}

func (m *MemoryCacheAdapter) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: value}
	if expiration > 0 {
		e.expiresAt = m.now().Add(expiration)
	}
	m.entries[key] = e
	return nil
}

func (m *MemoryCacheAdapter) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryCacheAdapter) Ping(context.Context) error {
	return nil
}

var _ domain.Cache = (*MemoryCacheAdapter)(nil)
