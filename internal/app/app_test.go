package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiercache/internal/common/errors"
	"tiercache/internal/common/logging"
	"tiercache/internal/config"
)

func testConfig(tiers, redisAddr string) *config.Config {
	return &config.Config{
		LogLevel:              "info",
		CacheTiers:            tiers,
		CacheCodec:            "json",
		MemoryTTL:             "5m",
		MemoryCleanupInterval: "10m",
		LRUSize:               "16",
		LRUTTL:                "1m",
		RedisAddress:          redisAddr,
		RedisDB:               "0",
		RedisPoolSize:         "5",
		RedisKeyPrefix:        "app:",
		RedisTTL:              "1h",
		BreakerEnabled:        true,
		BreakerMaxFailures:    "3",
		BreakerTimeout:        "30s",
	}
}

func TestNew(t *testing.T) {
	logging.SetGlobalLogger(logging.NewNopLogger())
	ctx := context.Background()

	t.Run("registers tiers in configured order", func(t *testing.T) {
		mr := miniredis.RunT(t)

		app, err := New(testConfig("lru,memory,redis", mr.Addr()))
		require.NoError(t, err)
		defer app.Cleanup()

		assert.Equal(t, []string{"lru", "memory", "redis"}, app.Tiers)
		assert.Equal(t, 3, app.Cache.Len())
		assert.NotNil(t, app.RedisClient)
		assert.NotNil(t, app.Breaker)

		require.NoError(t, app.Cache.Set(ctx, "greeting", "hello"))
		stored, err := mr.Get("app:greeting")
		require.NoError(t, err)
		assert.Equal(t, `"hello"`, stored)

		v, ok, err := app.Cache.Get(ctx, "greeting")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "hello", v)
	})

	t.Run("reads fall through to redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		require.NoError(t, mr.Set("app:k", `"from-redis"`))

		app, err := New(testConfig("memory,redis", mr.Addr()))
		require.NoError(t, err)
		defer app.Cleanup()

		v, ok, err := app.Cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "from-redis", v)

		mr.Del("app:k")
		v, ok, err = app.Cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "from-redis", v)
	})

	t.Run("msgpack codec", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig("redis", mr.Addr())
		cfg.CacheCodec = "MSGPACK"
		cfg.BreakerEnabled = false

		app, err := New(cfg)
		require.NoError(t, err)
		defer app.Cleanup()
		assert.Nil(t, app.Breaker)

		require.NoError(t, app.Cache.Set(ctx, "k", "v"))
		v, ok, err := app.Cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v", v)
	})

	t.Run("unreachable redis is skipped", func(t *testing.T) {
		app, err := New(testConfig("memory,redis", "127.0.0.1:1"))
		require.NoError(t, err)
		defer app.Cleanup()

		assert.Equal(t, []string{"memory"}, app.Tiers)
		assert.Nil(t, app.RedisClient)

		err = app.Health()
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeConnection))
		assert.Contains(t, err.Error(), "127.0.0.1:1")

		err = app.Clear(ctx)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeConnection))
	})

	t.Run("no usable tier", func(t *testing.T) {
		_, err := New(testConfig("redis", "127.0.0.1:1"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := New(testConfig("memory,disk", ""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk")
	})

	t.Run("debug level wraps tiers with logging", func(t *testing.T) {
		cfg := testConfig("memory", "")
		cfg.LogLevel = "debug"

		app, err := New(cfg)
		require.NoError(t, err)
		defer app.Cleanup()

		require.NoError(t, app.Cache.Set(ctx, "k", "v"))
		v, ok, err := app.Cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v", v)
	})
}

func TestCleanup(t *testing.T) {
	logging.SetGlobalLogger(logging.NewNopLogger())
	mr := miniredis.RunT(t)

	app, err := New(testConfig("redis", mr.Addr()))
	require.NoError(t, err)

	app.Cleanup()
	assert.Nil(t, app.RedisClient)
	app.Cleanup()
}

func TestHealthAndClear(t *testing.T) {
	logging.SetGlobalLogger(logging.NewNopLogger())
	ctx := context.Background()

	t.Run("without redis", func(t *testing.T) {
		app, err := New(testConfig("memory", ""))
		require.NoError(t, err)
		defer app.Cleanup()

		assert.NoError(t, app.Health())
		assert.NoError(t, app.Clear(ctx))
	})

	t.Run("with redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		require.NoError(t, mr.Set("other:k", "keep"))

		app, err := New(testConfig("redis", mr.Addr()))
		require.NoError(t, err)
		defer app.Cleanup()

		assert.NoError(t, app.Health())

		require.NoError(t, app.Cache.Set(ctx, "a", "1"))
		require.NoError(t, app.Cache.Set(ctx, "b", "2"))
		require.NoError(t, app.Clear(ctx))

		assert.False(t, mr.Exists("app:a"))
		assert.False(t, mr.Exists("app:b"))
		assert.True(t, mr.Exists("other:k"))

		mr.Close()
		err = app.Health()
		assert.True(t, errors.IsType(err, errors.ErrTypeConnection))
	})
}
