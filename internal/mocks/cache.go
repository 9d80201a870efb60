package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
)

type mockEntry struct {
	value     string
	expiresAt time.Time
}

// MockCache is an in-memory, TTL-aware Cache implementation. NowFunc lets
// tests advance a simulated clock past entry expiry.
type MockCache struct {
	mu      sync.Mutex
	data    map[string]mockEntry
	NowFunc func() time.Time

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data:    make(map[string]mockEntry),
		NowFunc: time.Now,
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.data[key]
	if !ok {
		return "", ports.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !m.NowFunc().Before(entry.expiresAt) {
		delete(m.data, key)
		return "", ports.ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("mock cache: marshal value: %w", err)
		}
		strVal = string(data)
	}

	entry := mockEntry{value: strVal}
	if expiration > 0 {
		entry.expiresAt = m.NowFunc().Add(expiration)
	}

	m.mu.Lock()
	m.data[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MockCache) Ping() error { return nil }

func (m *MockCache) Close() error { return nil }
