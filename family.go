package reacton

import (
	"fmt"
	"sync"
)

// Family is a parameterized node factory with an identity cache keyed by a
// comparable argument (spec's "Family"): the same key always returns the
// same Computed, created lazily on first access.
type Family[K comparable, T any] struct {
	mu    sync.Mutex
	store *Store
	name  string
	make  func(key K) func(*Store) (T, error)
	cache map[K]*Computed[T]
}

// NewFamily creates a Family. factory, given a key, returns the compute
// function for that key's node.
func NewFamily[K comparable, T any](store *Store, name string, factory func(key K) func(*Store) (T, error)) *Family[K, T] {
	return &Family[K, T]{
		store: store,
		name:  name,
		make:  factory,
		cache: make(map[K]*Computed[T]),
	}
}

// Get returns the cached Computed for key, creating it on first access.
func (f *Family[K, T]) Get(key K) *Computed[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.cache[key]; ok {
		return c
	}
	c := NewComputed(f.store, fmt.Sprintf("%s[%v]", f.name, key), f.make(key))
	f.cache[key] = c
	return c
}

// Evict removes key's cached node, tearing down its graph edges. A
// subsequent Get with the same key builds a fresh node.
func (f *Family[K, T]) Evict(key K) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cache[key]
	if !ok {
		return
	}
	f.store.removeEntry(c.ref)
	delete(f.cache, key)
}

// Clear evicts every cached node in the family.
func (f *Family[K, T]) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, c := range f.cache {
		f.store.removeEntry(c.ref)
		delete(f.cache, key)
	}
}

// CachedArgs returns the keys currently holding a cached node.
func (f *Family[K, T]) CachedArgs() []K {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]K, 0, len(f.cache))
	for key := range f.cache {
		keys = append(keys, key)
	}
	return keys
}
