package layered

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"tiercache/internal/common/errors"
	"tiercache/internal/common/logging"
)

// Option configures a Coordinator
type Option func(*options)

type options struct {
	logger logging.Logger
}

// WithLogger sets the logger used for registration events
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Coordinator routes Get, Set and Del calls through an ordered list of tiers.
//
// Use is a setup-phase operation. Each registration publishes a fresh,
// immutable chain snapshot, so a traversal already in flight finishes on the
// chains it started with; the coordinator makes no other promise about
// registrations racing with traffic.
type Coordinator[T any] struct {
	mu     sync.Mutex
	chains atomic.Pointer[chains[T]]
	logger logging.Logger
}

// New creates a coordinator with no tiers
func New[T any](opts ...Option) *Coordinator[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.GetGlobalLogger()
	}

	return &Coordinator[T]{
		logger: o.logger.WithFields(logging.String("component", "coordinator")),
	}
}

// Use appends tier and rebuilds every chain from the full tier list. The
// same tier may be registered more than once, in which case it runs once per
// registration. It returns the coordinator so calls can be chained.
func (co *Coordinator[T]) Use(tier Tier[T]) *Coordinator[T] {
	if !validTier(tier) {
		panic(errors.ValidationError("tier must implement Get"))
	}

	co.mu.Lock()
	defer co.mu.Unlock()

	var current []Tier[T]
	if ch := co.chains.Load(); ch != nil {
		current = ch.tiers
	}
	tiers := append(slices.Clip(current), tier)
	co.chains.Store(buildChains(tiers))

	if co.logger != nil {
		_, canSet := SetHandler(tier)
		_, canDel := DelHandler(tier)
		co.logger.Debug("Tier registered",
			logging.String("tier", fmt.Sprintf("%T", tier)),
			logging.Int("position", len(tiers)),
			logging.Bool("set", canSet),
			logging.Bool("del", canDel),
		)
	}

	return co
}

// Len returns the number of registered tiers
func (co *Coordinator[T]) Len() int {
	if ch := co.chains.Load(); ch != nil {
		return len(ch.tiers)
	}
	return 0
}

// GetWithContext runs the read chain against c and returns it once every
// tier has completed. The returned error is a fault raised by a tier, which
// aborts the traversal; failures recorded with SetErr are left on c.
//
// It panics if c is nil, has an empty key, or no tier has been registered.
func (co *Coordinator[T]) GetWithContext(ctx context.Context, c *Context[T]) (*Context[T], error) {
	ch := co.snapshot(c)
	if ch.get == nil {
		return c, nil
	}
	return c, ch.get(ctx, c)
}

// Get reads key through the tiers and returns the payload and whether any
// tier produced one.
func (co *Coordinator[T]) Get(ctx context.Context, key string) (T, bool, error) {
	c, err := co.GetWithContext(ctx, NewContext[T](key))
	if err != nil {
		var zero T
		return zero, false, err
	}
	v, ok := c.Body()
	return v, ok, nil
}

// SetWithContext runs the write chain against c. It has the same
// preconditions as GetWithContext. c is expected to carry a body; tiers
// decide for themselves what an absent body means.
func (co *Coordinator[T]) SetWithContext(ctx context.Context, c *Context[T]) (*Context[T], error) {
	ch := co.snapshot(c)
	if ch.set == nil {
		return c, nil
	}
	return c, ch.set(ctx, c)
}

// Set writes value under key. It returns a tier fault if the traversal was
// aborted, otherwise the error captured on the context, if any.
func (co *Coordinator[T]) Set(ctx context.Context, key string, value T) error {
	c, err := co.SetWithContext(ctx, NewContextWithBody(key, value))
	if err != nil {
		return err
	}
	return c.Err()
}

// DelWithContext runs the delete chain against c. It has the same
// preconditions as GetWithContext.
func (co *Coordinator[T]) DelWithContext(ctx context.Context, c *Context[T]) (*Context[T], error) {
	ch := co.snapshot(c)
	if ch.del == nil {
		return c, nil
	}
	return c, ch.del(ctx, c)
}

// Del removes key from every tier that supports deletion, with the same
// error semantics as Set.
func (co *Coordinator[T]) Del(ctx context.Context, key string) error {
	c, err := co.DelWithContext(ctx, NewContext[T](key))
	if err != nil {
		return err
	}
	return c.Err()
}

// snapshot enforces the entry-point preconditions and returns the chains to
// run. Violations are programming errors and panic.
func (co *Coordinator[T]) snapshot(c *Context[T]) *chains[T] {
	if c == nil {
		panic(errors.ValidationError("null context is not valid"))
	}
	if c.Key() == "" {
		panic(errors.ValidationError("context key is required"))
	}
	ch := co.chains.Load()
	if ch == nil || len(ch.tiers) == 0 {
		panic(errors.ValidationError("no tiers registered, forgot to call Use?"))
	}
	return ch
}
