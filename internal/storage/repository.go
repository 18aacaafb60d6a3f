package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"dreamlog/internal/dream"
	"dreamlog/internal/logging"
)

// Repository is the writable cache of dreams. Every mutation is written
// through to the backend: the fast path first when the backend offers one,
// then a load/modify/save of the whole collection.
type Repository struct {
	base Backend
	fast FastPath
	log  logging.Logger

	mu     sync.Mutex
	dreams []dream.Dream
}

func NewRepository(base Backend, log logging.Logger) *Repository {
	r := &Repository{base: base, log: log}
	if fp, ok := base.(FastPath); ok {
		r.fast = fp
	}
	return r
}

// IsPrimaryStoreAvailable reports whether per-record operations are usable.
func (r *Repository) IsPrimaryStoreAvailable() bool {
	return r.fast != nil && r.fast.Available()
}

// Load refreshes the cache from the backend and returns a copy.
func (r *Repository) Load(ctx context.Context) ([]dream.Dream, error) {
	dreams, err := r.base.LoadDreams(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dreams: %w", err)
	}
	r.mu.Lock()
	r.dreams = cloneAll(dreams)
	r.mu.Unlock()
	return dreams, nil
}

// Cached returns the last loaded collection without touching the backend.
func (r *Repository) Cached() []dream.Dream {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAll(r.dreams)
}

func (r *Repository) Get(ctx context.Context, id string) (dream.Dream, error) {
	dreams, err := r.Load(ctx)
	if err != nil {
		return dream.Dream{}, err
	}
	for _, d := range dreams {
		if d.ID == id {
			return d, nil
		}
	}
	return dream.Dream{}, fmt.Errorf("%w: %s", dream.ErrNotFound, id)
}

func (r *Repository) Add(ctx context.Context, d dream.Dream) error {
	if r.tryFast(ctx, "add", d.ID, func() error { return r.fast.AddDream(ctx, d) }) {
		r.mu.Lock()
		r.dreams = append(r.dreams, d.Clone())
		r.mu.Unlock()
		return nil
	}
	return r.fallback(ctx, "add", func(all []dream.Dream) ([]dream.Dream, error) {
		return append(all, d), nil
	})
}

func (r *Repository) Update(ctx context.Context, d dream.Dream) error {
	var notFound error
	ok := r.tryFast(ctx, "update", d.ID, func() error {
		err := r.fast.UpdateDream(ctx, d)
		if errors.Is(err, dream.ErrNotFound) {
			notFound = err
			return nil
		}
		return err
	})
	if notFound != nil {
		return notFound
	}
	if ok {
		r.mu.Lock()
		for i := range r.dreams {
			if r.dreams[i].ID == d.ID {
				r.dreams[i] = d.Clone()
			}
		}
		r.mu.Unlock()
		return nil
	}
	return r.fallback(ctx, "update", func(all []dream.Dream) ([]dream.Dream, error) {
		for i := range all {
			if all[i].ID == d.ID {
				all[i] = d
				return all, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", dream.ErrNotFound, d.ID)
	})
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	var notFound error
	ok := r.tryFast(ctx, "delete", id, func() error {
		err := r.fast.DeleteDream(ctx, id)
		if errors.Is(err, dream.ErrNotFound) {
			notFound = err
			return nil
		}
		return err
	})
	if notFound != nil {
		return notFound
	}
	if ok {
		r.mu.Lock()
		r.dreams = removeID(r.dreams, id)
		r.mu.Unlock()
		return nil
	}
	return r.fallback(ctx, "delete", func(all []dream.Dream) ([]dream.Dream, error) {
		kept := removeID(all, id)
		if len(kept) == len(all) {
			return nil, fmt.Errorf("%w: %s", dream.ErrNotFound, id)
		}
		return kept, nil
	})
}

// tryFast reports whether op succeeded on the fast path.
func (r *Repository) tryFast(ctx context.Context, op, id string, fn func() error) bool {
	if !r.IsPrimaryStoreAvailable() {
		return false
	}
	if err := fn(); err != nil {
		r.log.Warn(ctx, "fast path failed, falling back", "op", op, "id", id, "err", err)
		return false
	}
	return true
}

func (r *Repository) fallback(ctx context.Context, op string, modify func([]dream.Dream) ([]dream.Dream, error)) error {
	all, err := r.base.LoadDreams(ctx)
	if err != nil {
		return fmt.Errorf("%s dream: load: %w", op, err)
	}
	next, err := modify(all)
	if err != nil {
		return err
	}
	if err := r.base.SaveDreams(ctx, next); err != nil {
		return fmt.Errorf("%s dream: save: %w", op, err)
	}
	r.mu.Lock()
	r.dreams = cloneAll(next)
	r.mu.Unlock()
	return nil
}

func removeID(in []dream.Dream, id string) []dream.Dream {
	out := make([]dream.Dream, 0, len(in))
	for _, d := range in {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}
