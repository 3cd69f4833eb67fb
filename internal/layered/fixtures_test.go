package layered

import (
	"context"
	"sync"
)

// offsetTier is a map-backed tier that adds offset to every value it stores,
// which makes it visible in results which tier wrote what.
type offsetTier struct {
	name   string
	offset int

	mu   sync.Mutex
	data map[string]int
	gets int
	sets int
	dels int
}

func newOffsetTier(name string, offset int, seed map[string]int) *offsetTier {
	data := make(map[string]int, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &offsetTier{name: name, offset: offset, data: data}
}

func (o *offsetTier) load(key string) (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.data[key]
	return v, ok
}

func (o *offsetTier) store(key string, v int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.data[key] = v + o.offset
}

func (o *offsetTier) Get(ctx context.Context, c *Context[int], next Next) error {
	o.mu.Lock()
	o.gets++
	o.mu.Unlock()

	if v, ok := o.load(c.Key()); ok {
		c.SetBody(v)
		c.SetSource(o.name)
		return nil
	}

	if err := next(); err != nil {
		return err
	}

	if v, ok := c.Body(); ok {
		o.store(c.Key(), v)
	}
	return nil
}

func (o *offsetTier) Set(ctx context.Context, c *Context[int], next Next) error {
	o.mu.Lock()
	o.sets++
	o.mu.Unlock()

	if v, ok := c.Body(); ok {
		o.store(c.Key(), v)
	}
	return next()
}

func (o *offsetTier) Del(ctx context.Context, c *Context[int], next Next) error {
	o.mu.Lock()
	o.dels++
	delete(o.data, c.Key())
	o.mu.Unlock()
	return next()
}

func (o *offsetTier) counts() (gets, sets, dels int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gets, o.sets, o.dels
}

// readOnly exposes only the Get capability of a tier
type readOnly struct {
	inner *offsetTier
}

func (r readOnly) Get(ctx context.Context, c *Context[int], next Next) error {
	return r.inner.Get(ctx, c, next)
}

// recorder appends its name to a shared trace when each handler runs
type recorder struct {
	name  string
	trace *[]string
}

func (r recorder) Get(ctx context.Context, c *Context[int], next Next) error {
	*r.trace = append(*r.trace, "get:"+r.name)
	return next()
}

func (r recorder) Set(ctx context.Context, c *Context[int], next Next) error {
	*r.trace = append(*r.trace, "set:"+r.name)
	err := next()
	*r.trace = append(*r.trace, "set-done:"+r.name)
	return err
}

func (r recorder) Del(ctx context.Context, c *Context[int], next Next) error {
	*r.trace = append(*r.trace, "del:"+r.name)
	return next()
}
