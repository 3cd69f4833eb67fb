package tiers

import (
	"context"

	"tiercache/internal/circuitbreaker"
	"tiercache/internal/layered"
)

// store is the backend behind a caching tier
type store[T any] interface {
	load(ctx context.Context, key string) (T, bool, error)
	save(ctx context.Context, key string, value T) error
	remove(ctx context.Context, key string) error
}

// cacheTier implements the read-through, write-through and delete-through
// handlers on top of a store. When guard is set every backend call runs
// through it.
type cacheTier[T any] struct {
	name  string
	store store[T]
	guard *circuitbreaker.Breaker
}

// Name returns the name recorded as the read source
func (t *cacheTier[T]) Name() string {
	return t.name
}

func (t *cacheTier[T]) run(ctx context.Context, fn func() error) error {
	if t.guard == nil {
		return fn()
	}
	return t.guard.Execute(ctx, fn)
}

// Get implements layered.Tier
func (t *cacheTier[T]) Get(ctx context.Context, c *layered.Context[T], next layered.Next) error {
	var (
		value T
		found bool
	)
	err := t.run(ctx, func() error {
		var err error
		value, found, err = t.store.load(ctx, c.Key())
		return err
	})
	if err != nil {
		c.SetErr(err)
	} else if found {
		c.SetBody(value)
		c.SetSource(t.name)
		return nil
	}

	if err := next(); err != nil {
		return err
	}

	body, ok := c.Body()
	if !ok {
		return nil
	}
	if err := t.run(ctx, func() error {
		return t.store.save(ctx, c.Key(), body)
	}); err != nil {
		c.SetErr(err)
	}
	return nil
}

// Set implements layered.Setter. A context without a body stores nothing.
func (t *cacheTier[T]) Set(ctx context.Context, c *layered.Context[T], next layered.Next) error {
	if body, ok := c.Body(); ok {
		if err := t.run(ctx, func() error {
			return t.store.save(ctx, c.Key(), body)
		}); err != nil {
			c.SetErr(err)
		}
	}
	return next()
}

// Del implements layered.Deleter
func (t *cacheTier[T]) Del(ctx context.Context, c *layered.Context[T], next layered.Next) error {
	if err := t.run(ctx, func() error {
		return t.store.remove(ctx, c.Key())
	}); err != nil {
		c.SetErr(err)
	}
	return next()
}
