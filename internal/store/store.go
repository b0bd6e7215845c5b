package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrStorage  = errors.New("storage error")
)

// KV is the key-value persistence a Store writes whole collections to.
// Get returns ErrNotFound when the key has never been written.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Normalizer is implemented by records that carry derived or legacy fields
// which must be fixed up when read from storage.
type Normalizer interface {
	Normalize()
}

// Listener receives the serialized collection after every successful save.
type Listener func(key string, data []byte)

// Store reads and writes named collections as JSON arrays.
type Store struct {
	kv KV

	mu        sync.RWMutex
	listeners map[string]map[int]Listener
	nextID    int
}

func New(kv KV) *Store {
	return &Store{
		kv:        kv,
		listeners: make(map[string]map[int]Listener),
	}
}

// Subscribe registers fn for saves of key. The returned func removes it.
func (s *Store) Subscribe(key string, fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if s.listeners[key] == nil {
		s.listeners[key] = make(map[int]Listener)
	}
	s.listeners[key][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners[key], id)
	}
}

func (s *Store) publish(key string, data []byte) {
	s.mu.RLock()
	fns := make([]Listener, 0, len(s.listeners[key]))
	for _, fn := range s.listeners[key] {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(key, data)
	}
}

// Load returns the collection stored under key. When the key is absent or
// its document cannot be decoded into []T, seed is persisted and returned
// instead.
func Load[T any](ctx context.Context, s *Store, key string, seed []T) ([]T, error) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		log.Printf("store: %q not found, seeding %d records", key, len(seed))
		return reseed(ctx, s, key, seed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %q: %v", ErrStorage, key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("store: %q is malformed, reverting to seed: %v", key, err)
		return reseed(ctx, s, key, seed)
	}
	if items == nil {
		items = []T{}
	}
	normalize(items)
	return items, nil
}

// Save writes the full collection back under key. Records are normalized
// on a copy before encoding, so derived fields are always stored current.
func Save[T any](ctx context.Context, s *Store, key string, items []T) error {
	out := make([]T, len(items))
	copy(out, items)
	normalize(out)

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %v", ErrStorage, key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("%w: save %q: %v", ErrStorage, key, err)
	}
	s.publish(key, data)
	return nil
}

func reseed[T any](ctx context.Context, s *Store, key string, seed []T) ([]T, error) {
	items := make([]T, len(seed))
	copy(items, seed)
	normalize(items)

	if err := Save(ctx, s, key, items); err != nil {
		log.Printf("store: failed to persist seed for %q: %v", key, err)
		return items, nil
	}

	// Decode what was written so callers never share memory with seed.
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		return items, nil
	}
	var fresh []T
	if err := json.Unmarshal(data, &fresh); err != nil {
		return items, nil
	}
	if fresh == nil {
		fresh = []T{}
	}
	return fresh, nil
}

func normalize[T any](items []T) {
	for i := range items {
		if n, ok := any(&items[i]).(Normalizer); ok {
			n.Normalize()
		}
	}
}
