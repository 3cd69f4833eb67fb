package tiers

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process tier with a default expiration per entry
type Memory[T any] struct {
	*cacheTier[T]
	cache *gocache.Cache
}

// NewMemory creates an in-memory tier. Expired entries are purged every
// cleanupInterval; a non-positive ttl keeps entries until they are deleted.
func NewMemory[T any](name string, ttl, cleanupInterval time.Duration) *Memory[T] {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m := &Memory[T]{
		cache: gocache.New(ttl, cleanupInterval),
	}
	m.cacheTier = &cacheTier[T]{name: name, store: m}
	return m
}

func (m *Memory[T]) load(_ context.Context, key string) (T, bool, error) {
	v, found := m.cache.Get(key)
	if !found {
		var zero T
		return zero, false, nil
	}
	value, ok := v.(T)
	return value, ok, nil
}

func (m *Memory[T]) save(_ context.Context, key string, value T) error {
	m.cache.SetDefault(key, value)
	return nil
}

func (m *Memory[T]) remove(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

// Len returns the number of entries, including expired ones not yet purged
func (m *Memory[T]) Len() int {
	return m.cache.ItemCount()
}

// Flush removes every entry
func (m *Memory[T]) Flush() {
	m.cache.Flush()
}
