package tiers

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRU is a size-bounded in-process tier that evicts the least recently used
// entry once full.
type LRU[T any] struct {
	*cacheTier[T]
	cache *expirable.LRU[string, T]
}

// NewLRU creates an LRU tier holding at most size entries, each for at most
// ttl. A non-positive ttl disables expiration.
func NewLRU[T any](name string, size int, ttl time.Duration) *LRU[T] {
	if size <= 0 {
		size = 1024
	}
	if ttl < 0 {
		ttl = 0
	}
	l := &LRU[T]{
		cache: expirable.NewLRU[string, T](size, nil, ttl),
	}
	l.cacheTier = &cacheTier[T]{name: name, store: l}
	return l
}

func (l *LRU[T]) load(_ context.Context, key string) (T, bool, error) {
	v, ok := l.cache.Get(key)
	return v, ok, nil
}

func (l *LRU[T]) save(_ context.Context, key string, value T) error {
	l.cache.Add(key, value)
	return nil
}

func (l *LRU[T]) remove(_ context.Context, key string) error {
	l.cache.Remove(key)
	return nil
}

// Len returns the number of entries
func (l *LRU[T]) Len() int {
	return l.cache.Len()
}

// Purge removes every entry
func (l *LRU[T]) Purge() {
	l.cache.Purge()
}
