package storage

import (
	"context"
	"errors"
	"sync"
)

var errForcedWrite = errors.New("storage: simulated write failure")

// MemStore is an in-process blob store used by tests and ephemeral sessions.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte

	// FailWrites forces Store to error, for exercising persistence-failure paths.
	FailWrites bool
}

func NewMemStore() *MemStore {
	return &MemStore{data: map[string][]byte{}}
}

func (m *MemStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (m *MemStore) Store(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return errForcedWrite
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *MemStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}
