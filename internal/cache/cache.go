// Package cache is a read-through TTL cache for upstream fetches. It is
// ephemeral mirroring only; the upstream API stays the system of record.
package cache

import (
    "context"
    "sync"
    "time"
)

// Cache is the lookup interface used by the API server. Implementations are
// tolerant: any backend failure reads as a miss.
type Cache interface {
    Get(ctx context.Context, key string) ([]byte, bool)
    Set(ctx context.Context, key string, val []byte, ttl time.Duration)
    Delete(ctx context.Context, key string)
}

// Memory is a mutex-guarded map with lazy expiry, used when no REDIS_URL is
// configured.
type Memory struct {
    mu      sync.Mutex
    entries map[string]memEntry
}

type memEntry struct {
    val     []byte
    expires time.Time
}

func NewMemory() *Memory {
    return &Memory{entries: map[string]memEntry{}}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool) {
    m.mu.Lock(); defer m.mu.Unlock()
    e, ok := m.entries[key]
    if !ok { return nil, false }
    if time.Now().After(e.expires) {
        delete(m.entries, key)
        return nil, false
    }
    return e.val, true
}

func (m *Memory) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
    if ttl <= 0 { return }
    m.mu.Lock(); defer m.mu.Unlock()
    m.entries[key] = memEntry{val: val, expires: time.Now().Add(ttl)}
    // Opportunistic sweep so abandoned keys do not pile up.
    if len(m.entries) > 4096 {
        now := time.Now()
        for k, e := range m.entries {
            if now.After(e.expires) { delete(m.entries, k) }
        }
    }
}

func (m *Memory) Delete(ctx context.Context, key string) {
    m.mu.Lock(); defer m.mu.Unlock()
    delete(m.entries, key)
}
