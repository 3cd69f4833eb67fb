package layered

import "context"

// Next runs the remainder of the chain and returns once every downstream
// tier has completed.
type Next func() error

// HandlerFunc is the shape shared by every tier operation.
type HandlerFunc[T any] func(ctx context.Context, c *Context[T], next Next) error

// Tier is the mandatory capability of every registered cache tier.
//
// Get must set the body when it can satisfy the read. To delegate it calls
// next and waits for it; it may then inspect the body and backfill its own
// store. next must be called at most once. Calling it twice is a contract
// violation with undefined results; the engine does not guard against it.
//
// A non-nil error is an unhandled fault: it aborts the traversal and is
// returned to the caller unchanged. Recoverable failures belong in
// Context.SetErr instead.
type Tier[T any] interface {
	Get(ctx context.Context, c *Context[T], next Next) error
}

// Setter is the optional write capability. Tiers without it are left out of
// the write chain entirely.
type Setter[T any] interface {
	Set(ctx context.Context, c *Context[T], next Next) error
}

// Deleter is the optional delete capability. Tiers without it are left out of
// the delete chain entirely.
type Deleter[T any] interface {
	Del(ctx context.Context, c *Context[T], next Next) error
}

// TierFuncs adapts plain functions to a tier. GetFunc is required; SetFunc
// and DelFunc are optional and a nil one means the capability is absent.
type TierFuncs[T any] struct {
	GetFunc HandlerFunc[T]
	SetFunc HandlerFunc[T]
	DelFunc HandlerFunc[T]
}

// Get implements Tier
func (f TierFuncs[T]) Get(ctx context.Context, c *Context[T], next Next) error {
	return f.GetFunc(ctx, c, next)
}

// SetHandler returns the write handler of t, if it has one
func SetHandler[T any](t Tier[T]) (HandlerFunc[T], bool) {
	switch v := t.(type) {
	case TierFuncs[T]:
		return v.SetFunc, v.SetFunc != nil
	case *TierFuncs[T]:
		return v.SetFunc, v.SetFunc != nil
	case Setter[T]:
		return v.Set, true
	}
	return nil, false
}

// DelHandler returns the delete handler of t, if it has one
func DelHandler[T any](t Tier[T]) (HandlerFunc[T], bool) {
	switch v := t.(type) {
	case TierFuncs[T]:
		return v.DelFunc, v.DelFunc != nil
	case *TierFuncs[T]:
		return v.DelFunc, v.DelFunc != nil
	case Deleter[T]:
		return v.Del, true
	}
	return nil, false
}

func validTier[T any](t Tier[T]) bool {
	switch v := t.(type) {
	case nil:
		return false
	case TierFuncs[T]:
		return v.GetFunc != nil
	case *TierFuncs[T]:
		return v != nil && v.GetFunc != nil
	}
	return true
}
