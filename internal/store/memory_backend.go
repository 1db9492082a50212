package store

import (
	"context"
	"sync"
)

// MemoryBackend keeps each collection as its serialized form, so reads hand
// out fresh copies just like the durable backends.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string][]byte)}
}

func (b *MemoryBackend) Load(_ context.Context, collection string) ([]Record, error) {
	b.mu.RLock()
	data := b.collections[collection]
	b.mu.RUnlock()
	return decodeRecords(data)
}

func (b *MemoryBackend) Save(_ context.Context, collection string, records []Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.collections[collection] = data
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Close() error { return nil }
