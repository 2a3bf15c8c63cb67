package keystore

import (
	"context"
	"sync"
)

// MemStore keeps shared keys in memory. Used in tests and wherever
// persistence across restarts is not wanted.
type MemStore struct {
	namespace string

	mu   sync.Mutex
	keys map[string]string
}

// NewMemStore returns an empty in-memory store bound to namespace.
func NewMemStore(namespace string) *MemStore {
	return &MemStore{namespace: namespace, keys: make(map[string]string)}
}

func (m *MemStore) Get(_ context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.keys[m.namespace]
	if !present(v) {
		return "", false, nil
	}
	return v, true, nil
}

func (m *MemStore) Set(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[m.namespace] = key
	return nil
}

func (m *MemStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, m.namespace)
	return nil
}
