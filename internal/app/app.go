package app

import (
	"context"
	"fmt"
	"strings"

	"tiercache/internal/circuitbreaker"
	"tiercache/internal/codec"
	"tiercache/internal/common/errors"
	"tiercache/internal/common/logging"
	"tiercache/internal/config"
	"tiercache/internal/layered"
	"tiercache/internal/redis"
	"tiercache/internal/tiers"
)

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	Cache       *layered.Coordinator[string]
	RedisClient *redis.Client
	Breaker     *circuitbreaker.Breaker
	Logger      logging.Logger

	// Tiers lists the tiers actually registered, in order
	Tiers []string

	// redisErr is set when the redis tier was configured but skipped
	redisErr error
}

// New creates a new application instance and registers the configured tiers
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		Logger: logging.WithFields(logging.String("component", "app")),
	}
	app.Cache = layered.New[string](layered.WithLogger(app.Logger))

	if err := app.initializeTiers(); err != nil {
		app.Cleanup()
		return nil, err
	}

	app.Logger.Info("Cache ready", logging.String("tiers", strings.Join(app.Tiers, ",")))
	return app, nil
}

func (app *App) initializeTiers() error {
	c, err := codec.ByName(app.Config.CacheCodec)
	if err != nil {
		return errors.ConfigError(err.Error())
	}
	verbose := logging.ParseLevel(app.Config.LogLevel) == logging.DebugLevel

	for _, name := range app.Config.Tiers() {
		tier, err := app.buildTier(name, c)
		if err != nil {
			return err
		}
		if tier == nil {
			continue
		}
		if verbose {
			tier = tiers.Logged(name, tier, app.Logger)
		}
		app.Cache.Use(tier)
		app.Tiers = append(app.Tiers, name)
	}

	if len(app.Tiers) == 0 {
		return errors.ConfigError(fmt.Sprintf("no usable tier in CACHE_TIERS '%s'", app.Config.CacheTiers))
	}
	return nil
}

// Health reports whether the remote tier is reachable. It is nil only when
// no remote tier is configured; a configured tier that was skipped at
// startup reports its connection error.
func (app *App) Health() error {
	if app.redisErr != nil {
		return app.redisErr
	}
	if app.RedisClient == nil {
		return nil
	}
	if err := app.RedisClient.Health(); err != nil {
		return errors.ConnectionError("redis health check failed", err)
	}
	return nil
}

// Clear removes every key the remote tier owns. In-process tiers are left
// alone.
func (app *App) Clear(ctx context.Context) error {
	if app.redisErr != nil {
		return app.redisErr
	}
	if app.RedisClient == nil {
		return nil
	}
	return app.RedisClient.Clear(ctx)
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if app.RedisClient != nil {
		app.RedisClient.Close()
		app.RedisClient = nil
	}
}
