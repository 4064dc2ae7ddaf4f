// Package memory provides an in-memory archiver for testing and
// development.
package memory

import (
	"context"
	"sync"
)

// Archiver stores exports in a map keyed by storage key.
type Archiver struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory archiver
func New() *Archiver {
	return &Archiver{objects: make(map[string][]byte)}
}

// Store keeps a copy of the data under the given key
func (a *Archiver) Store(ctx context.Context, key string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)
	a.objects[key] = dataCopy

	return nil
}

// Get returns the stored data for a key, or false when absent
func (a *Archiver) Get(key string) ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	data, exists := a.objects[key]
	return data, exists
}
