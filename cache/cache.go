package cache

import (
	"context"
	"sync"
)

// Cache is the minimal key-value interface session state persists
// through. Get reports absence via the bool, never via an error.
type Cache[S any] interface {
	Set(ctx context.Context, key string, val S) error
	Get(ctx context.Context, key string) (S, bool, error)
	Del(ctx context.Context, key string) error
}

type Memory[S any] struct {
	mu sync.RWMutex
	m  map[string]S
}

func NewMemory[S any]() *Memory[S] {
	return &Memory[S]{m: map[string]S{}}
}

func (m *Memory[S]) Set(ctx context.Context, key string, val S) error {
	m.mu.Lock()
	m.m[key] = val
	m.mu.Unlock()
	return nil
}

func (m *Memory[S]) Get(ctx context.Context, key string) (S, bool, error) {
	m.mu.RLock()
	val, ok := m.m[key]
	m.mu.RUnlock()
	return val, ok, nil
}

func (m *Memory[S]) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.m, key)
	m.mu.Unlock()
	return nil
}
