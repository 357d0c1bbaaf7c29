package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryBackend is an in-process Backend. Documents are kept JSON-encoded so
// callers never share mutable values with it.
type MemoryBackend struct {
	mu      sync.Mutex
	staged  map[string][]byte
	durable map[string][]byte
	flushes int
	failSet error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		staged:  map[string][]byte{},
		durable: map[string][]byte{},
	}
}

// Seed stores a document as if it had already been flushed.
func (b *MemoryBackend) Seed(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.durable[key] = raw
	b.mu.Unlock()
	return nil
}

// Durable decodes the last flushed copy of key into out.
func (b *MemoryBackend) Durable(key string, out any) (bool, error) {
	b.mu.Lock()
	raw, ok := b.durable[key]
	b.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (b *MemoryBackend) Flushes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushes
}

// FailSets makes every following Set return err; nil restores normal behavior.
func (b *MemoryBackend) FailSets(err error) {
	b.mu.Lock()
	b.failSet = err
	b.mu.Unlock()
}

func (b *MemoryBackend) Get(key string, out any) (bool, error) {
	b.mu.Lock()
	raw, ok := b.staged[key]
	if !ok {
		raw, ok = b.durable[key]
	}
	b.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (b *MemoryBackend) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failSet != nil {
		return b.failSet
	}
	b.staged[key] = raw
	return nil
}

func (b *MemoryBackend) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, raw := range b.staged {
		b.durable[k] = raw
		delete(b.staged, k)
	}
	b.flushes++
	return nil
}
