package layered

import (
	"context"
	"slices"
)

// chainFunc runs one composed direction against a context
type chainFunc[T any] func(ctx context.Context, c *Context[T]) error

// chains is an immutable snapshot of the tier list and the chains derived
// from it. A new snapshot is built for every registration.
type chains[T any] struct {
	tiers []Tier[T]
	get   chainFunc[T]
	set   chainFunc[T]
	del   chainFunc[T]
}

// compose folds handlers so that handlers[0] is outermost. Each handler is
// given a continuation that dispatches the next index; the continuation of
// the last handler completes immediately.
func compose[T any](handlers []HandlerFunc[T]) chainFunc[T] {
	if len(handlers) == 0 {
		return func(context.Context, *Context[T]) error { return nil }
	}

	return func(ctx context.Context, c *Context[T]) error {
		var dispatch func(i int) error
		dispatch = func(i int) error {
			if i == len(handlers) {
				return nil
			}
			return handlers[i](ctx, c, func() error {
				return dispatch(i + 1)
			})
		}
		return dispatch(0)
	}
}

// buildChains derives every direction from the tier list.
//
// Reads run in registration order, so the first tier registered (normally
// the fastest) is consulted first. Writes and deletes run in reverse over the
// tiers that support them: the last registered tier, normally the most
// authoritative, runs first and control unwinds back towards the faster
// tiers.
func buildChains[T any](tiers []Tier[T]) *chains[T] {
	gets := make([]HandlerFunc[T], 0, len(tiers))
	var sets, dels []HandlerFunc[T]

	for _, t := range tiers {
		gets = append(gets, t.Get)
		if h, ok := SetHandler(t); ok {
			sets = append(sets, h)
		}
		if h, ok := DelHandler(t); ok {
			dels = append(dels, h)
		}
	}

	slices.Reverse(sets)
	slices.Reverse(dels)

	return &chains[T]{
		tiers: tiers,
		get:   compose(gets),
		set:   compose(sets),
		del:   compose(dels),
	}
}
