// Package storage provides the key-value slot the collection is persisted in,
// and the load/save adapter on top of it.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Slot.Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Slot is a synchronous byte-string key-value store.
type Slot interface {
	// Get returns the bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the bytes stored under key in a single write.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the underlying resources.
	Close() error
}

// MemorySlot is an in-process Slot, mainly for tests.
type MemorySlot struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{data: map[string][]byte{}}
}

func (m *MemorySlot) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemorySlot) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemorySlot) Close() error { return nil }
