package tiers

import (
	"context"
	"sync"
	"testing"

	"tiercache/internal/common/logging"
	"tiercache/internal/layered"
)

// origin is a get-only tier that always answers and counts how often it was
// asked.
type origin struct {
	mu    sync.Mutex
	calls int
	value func(key string) string
}

func newOrigin() *origin {
	return &origin{value: func(key string) string { return "value-of-" + key }}
}

func (o *origin) Get(ctx context.Context, c *layered.Context[string], next layered.Next) error {
	o.mu.Lock()
	o.calls++
	o.mu.Unlock()

	c.SetBody(o.value(c.Key()))
	c.SetSource("origin")
	return nil
}

func (o *origin) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

func newCoordinator(t *testing.T, tiers ...layered.Tier[string]) *layered.Coordinator[string] {
	t.Helper()
	co := layered.New[string](layered.WithLogger(logging.NewNopLogger()))
	for _, tier := range tiers {
		co.Use(tier)
	}
	return co
}

// captureLogger records messages so tests can assert on them
type captureLogger struct {
	mu     *sync.Mutex
	fields []logging.Field
	lines  *[]capturedLine
}

type capturedLine struct {
	level  string
	msg    string
	fields map[string]interface{}
}

func newCaptureLogger() *captureLogger {
	return &captureLogger{mu: &sync.Mutex{}, lines: &[]capturedLine{}}
}

func (l *captureLogger) record(level, msg string, fields []logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := make(map[string]interface{}, len(l.fields)+len(fields))
	for _, f := range append(append([]logging.Field{}, l.fields...), fields...) {
		m[f.Key] = f.Value
	}
	*l.lines = append(*l.lines, capturedLine{level: level, msg: msg, fields: m})
}

func (l *captureLogger) Debug(msg string, fields ...logging.Field) { l.record("debug", msg, fields) }
func (l *captureLogger) Info(msg string, fields ...logging.Field)  { l.record("info", msg, fields) }
func (l *captureLogger) Warn(msg string, fields ...logging.Field)  { l.record("warn", msg, fields) }
func (l *captureLogger) Error(msg string, err error, fields ...logging.Field) {
	l.record("error", msg, append(fields, logging.Err(err)))
}

func (l *captureLogger) WithFields(fields ...logging.Field) logging.Logger {
	return &captureLogger{
		mu:     l.mu,
		fields: append(append([]logging.Field{}, l.fields...), fields...),
		lines:  l.lines,
	}
}

func (l *captureLogger) WithContext(ctx context.Context) logging.Logger {
	if id, ok := logging.RequestID(ctx); ok {
		return l.WithFields(logging.String("request_id", id))
	}
	return l
}

func (l *captureLogger) all() []capturedLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]capturedLine{}, *l.lines...)
}
