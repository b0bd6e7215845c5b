package repository

import (
	"context"
	"errors"
	"sync"

	"backoffice/internal/store"
)

var ErrNotFound = errors.New("record not found")

// Storage keys of the back-office collections.
const (
	ProductsKey = "products"
	OrdersKey   = "orders"
	UsersKey    = "users"
)

// collectionRepository keeps one collection in a store.Store. Every write
// is a full load-modify-save under the repository lock, so writers within
// this process never interleave; across processes the last save wins.
type collectionRepository[T any] struct {
	store *store.Store
	key   string
	seed  []T
	id    func(T) int64

	mu sync.Mutex
}

func newCollectionRepository[T any](s *store.Store, key string, seed []T, id func(T) int64) *collectionRepository[T] {
	return &collectionRepository[T]{store: s, key: key, seed: seed, id: id}
}

func (r *collectionRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	return store.Load(ctx, r.store, r.key, r.seed)
}

func (r *collectionRepository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	items, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if r.id(items[i]) == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

// Mutate loads the collection, applies fn and saves what fn returns. When
// fn fails nothing is written.
func (r *collectionRepository[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return store.Save(ctx, r.store, r.key, next)
}

func (r *collectionRepository[T]) Create(ctx context.Context, item *T) error {
	return r.Mutate(ctx, func(items []T) ([]T, error) {
		return append(items, *item), nil
	})
}

func (r *collectionRepository[T]) Update(ctx context.Context, item *T) error {
	return r.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if r.id(items[i]) == r.id(*item) {
				items[i] = *item
				return items, nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *collectionRepository[T]) Delete(ctx context.Context, id int64) error {
	return r.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if r.id(items[i]) == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}
