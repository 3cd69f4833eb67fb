package tiers

import (
	"context"
	"fmt"
	"time"

	"tiercache/internal/circuitbreaker"
	"tiercache/internal/codec"
	"tiercache/internal/common/errors"
	"tiercache/internal/redis"
)

// Redis is a remote tier storing encoded values in Redis
type Redis[T any] struct {
	*cacheTier[T]
	client *redis.Client
	codec  codec.Codec
	ttl    time.Duration
}

// RedisOption configures a Redis tier
type RedisOption func(*redisOptions)

type redisOptions struct {
	breaker *circuitbreaker.Breaker
}

// WithBreaker routes every Redis call through b. While b is open the tier is
// skipped and the read falls through to the next tier.
func WithBreaker(b *circuitbreaker.Breaker) RedisOption {
	return func(o *redisOptions) {
		o.breaker = b
	}
}

// NewRedis creates a Redis tier. A nil codec defaults to JSON and a
// non-positive ttl stores values without expiration.
func NewRedis[T any](name string, client *redis.Client, c codec.Codec, ttl time.Duration, opts ...RedisOption) *Redis[T] {
	o := redisOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if c == nil {
		c = codec.JSON{}
	}
	if ttl < 0 {
		ttl = 0
	}

	r := &Redis[T]{
		client: client,
		codec:  c,
		ttl:    ttl,
	}
	r.cacheTier = &cacheTier[T]{name: name, store: r, guard: o.breaker}
	return r
}

func (r *Redis[T]) load(ctx context.Context, key string) (T, bool, error) {
	var value T

	data, found, err := r.client.Get(ctx, key)
	if err != nil {
		return value, false, errors.ConnectionError(fmt.Sprintf("redis tier %s", r.name), err).WithContext("key", key)
	}
	if !found {
		return value, false, nil
	}

	if err := r.codec.Unmarshal(data, &value); err != nil {
		return value, false, errors.CodecError(fmt.Sprintf("failed to decode %s with %s", key, r.codec.Name()), err)
	}
	return value, true, nil
}

func (r *Redis[T]) save(ctx context.Context, key string, value T) error {
	data, err := r.codec.Marshal(value)
	if err != nil {
		return errors.CodecError(fmt.Sprintf("failed to encode %s with %s", key, r.codec.Name()), err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl); err != nil {
		return errors.ConnectionError(fmt.Sprintf("redis tier %s", r.name), err).WithContext("key", key)
	}
	return nil
}

func (r *Redis[T]) remove(ctx context.Context, key string) error {
	if err := r.client.Delete(ctx, key); err != nil {
		return errors.ConnectionError(fmt.Sprintf("redis tier %s", r.name), err).WithContext("key", key)
	}
	return nil
}
