package cache

import (
	"context"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is a process-local TTL cache. It is deliberately unsynchronized
// between instances: losing an entry only costs an extra remote call.
type Memory struct {
	entries cmap.ConcurrentMap[string, memoryEntry]
}

func NewMemory() *Memory {
	return &Memory{
		entries: cmap.New[memoryEntry](),
	}
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return "", nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.entries.Remove(key)
		return "", nil
	}
	return entry.value, nil
}

func (m *Memory) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	entry := memoryEntry{value: value}
	if expiresAt > 0 {
		entry.expiresAt = time.Now().Add(expiresAt)
	}
	m.entries.Set(key, entry)
	return nil
}

func (m *Memory) Expire(ctx context.Context, key string, expiration time.Duration) error {
	entry, ok := m.entries.Get(key)
	if !ok {
		return nil
	}
	entry.expiresAt = time.Now().Add(expiration)
	m.entries.Set(key, entry)
	return nil
}
