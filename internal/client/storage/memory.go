package storage

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore implements Store with a map. The zero value is not usable;
// call NewMemoryStore.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Update works on a copy of the map and swaps it in only when fn succeeds.
func (m *MemoryStore) Update(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := memoryTx{data: maps.Clone(m.data)}
	if err := fn(ctx, work); err != nil {
		return err
	}
	m.data = work.data
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Snapshot returns a copy of the stored data.
func (m *MemoryStore) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.data)
}

type memoryTx struct {
	data map[string]string
}

func (t memoryTx) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := t.data[key]
	return v, ok, nil
}

func (t memoryTx) Set(_ context.Context, key, value string) error {
	t.data[key] = value
	return nil
}

func (t memoryTx) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(t.data, k)
	}
	return nil
}
