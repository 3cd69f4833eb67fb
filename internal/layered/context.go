package layered

// SourceKey is the metadata entry tiers use to record which of them
// satisfied a read.
const SourceKey = "source"

// Context is the record threaded through a chain for a single Get, Set or
// Del call. The key is fixed at construction; body, error and metadata may
// be changed by any tier the chain visits.
type Context[T any] struct {
	key     string
	body    T
	hasBody bool
	err     error
	meta    map[string]interface{}
}

// NewContext creates a context carrying only a key
func NewContext[T any](key string) *Context[T] {
	return &Context[T]{key: key}
}

// NewContextWithBody creates a context carrying a key and a payload, as used
// by write traversals
func NewContextWithBody[T any](key string, body T) *Context[T] {
	return &Context[T]{key: key, body: body, hasBody: true}
}

// Key returns the cache key
func (c *Context[T]) Key() string {
	return c.key
}

// Body returns the payload and whether one is present
func (c *Context[T]) Body() (T, bool) {
	return c.body, c.hasBody
}

// SetBody stores the payload
func (c *Context[T]) SetBody(v T) {
	c.body = v
	c.hasBody = true
}

// ClearBody marks the payload as absent
func (c *Context[T]) ClearBody() {
	var zero T
	c.body = zero
	c.hasBody = false
}

// Err returns the failure captured by a tier, if any
func (c *Context[T]) Err() error {
	return c.err
}

// SetErr records a tier failure. The engine never inspects it.
func (c *Context[T]) SetErr(err error) {
	c.err = err
}

// Set attaches a metadata value
func (c *Context[T]) Set(name string, value interface{}) {
	if c.meta == nil {
		c.meta = make(map[string]interface{})
	}
	c.meta[name] = value
}

// Value retrieves a metadata value
func (c *Context[T]) Value(name string) (interface{}, bool) {
	v, ok := c.meta[name]
	return v, ok
}

// Metadata returns a copy of every metadata entry
func (c *Context[T]) Metadata() map[string]interface{} {
	out := make(map[string]interface{}, len(c.meta))
	for k, v := range c.meta {
		out[k] = v
	}
	return out
}

// SetSource records the name of the tier that produced the body
func (c *Context[T]) SetSource(name string) {
	c.Set(SourceKey, name)
}

// Source returns the name recorded by SetSource, or "" if no tier did
func (c *Context[T]) Source() string {
	s, _ := c.meta[SourceKey].(string)
	return s
}
