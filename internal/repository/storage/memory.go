package storage

import (
	"context"
	"sync"
)

// MemoryStorage - process-local storage, nothing survives a restart.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

func (that *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	value, ok := that.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (that *MemoryStorage) Save(_ context.Context, key string, value []byte) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.values[key] = append([]byte(nil), value...)
	return nil
}

func (that *MemoryStorage) Remove(_ context.Context, key string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.values, key)
	return nil
}

func (that *MemoryStorage) Close() error {
	return nil
}
