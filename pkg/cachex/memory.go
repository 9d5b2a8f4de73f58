package cachex

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Memory is an in-process Store. Expired entries are dropped lazily on read
// and by Sweep.
type Memory struct {
	mu    sync.Mutex
	items map[string]memEntry
	locks map[string]memEntry

	// Now is overridable for tests.
	Now func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]memEntry),
		locks: make(map[string]memEntry),
		Now:   time.Now,
	}
}

func (m *Memory) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.Now().Add(ttl)
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return nil, ErrMiss
	}
	if e.expired(m.Now()) {
		delete(m.items, key)
		return nil, ErrMiss
	}
	return append([]byte(nil), e.value...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = memEntry{value: append([]byte(nil), value...), expiresAt: m.expiry(ttl)}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

func (m *Memory) AcquireLock(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.locks[key]; ok && !e.expired(m.Now()) {
		return false, nil
	}
	m.locks[key] = memEntry{value: []byte(token), expiresAt: m.expiry(ttl)}
	return true, nil
}

func (m *Memory) ReleaseLock(_ context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.locks[key]; ok && string(e.value) == token {
		delete(m.locks, key)
	}
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	n := 0
	for k, e := range m.items {
		if e.expired(now) {
			delete(m.items, k)
			n++
		}
	}
	for k, e := range m.locks {
		if e.expired(now) {
			delete(m.locks, k)
		}
	}
	return n
}

func (m *Memory) Ping(context.Context) error { return nil }
func (m *Memory) Close() error               { return nil }
