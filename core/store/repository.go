package store

import (
	"context"

	"course-manager/core/catalog"
)

// Repository runs collection reads and serialized read-modify-write cycles.
type Repository struct {
	store  Store
	locker Locker
}

// NewRepository combines a store and a writer lock. A nil locker uses a MemoryLocker.
func NewRepository(s Store, l Locker) *Repository {
	if l == nil {
		l = NewMemoryLocker()
	}
	return &Repository{store: s, locker: l}
}

// Read loads the current collection without taking the writer lock.
func (r *Repository) Read(ctx context.Context) (*catalog.Collection, error) {
	return r.store.Load(ctx)
}

// Update loads the collection under the writer lock, applies fn and saves the
// result. Nothing is saved when fn returns an error.
func (r *Repository) Update(ctx context.Context, fn func(c *catalog.Collection) error) error {
	return r.UpdateThen(ctx, fn, nil)
}

// UpdateThen is Update with committed run after a successful save, while the
// writer lock is still held.
func (r *Repository) UpdateThen(ctx context.Context, fn func(c *catalog.Collection) error, committed func(c *catalog.Collection)) error {
	unlock, err := r.locker.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	c, err := r.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	if err := r.store.Save(ctx, c); err != nil {
		return err
	}
	if committed != nil {
		committed(c)
	}
	return nil
}
