package app

import (
	"tiercache/internal/circuitbreaker"
	"tiercache/internal/common/logging"
	"tiercache/internal/redis"
)

func (app *App) initializeRedis() error {
	redisConfig := &redis.Config{
		Address:   app.Config.RedisAddress,
		Password:  app.Config.RedisPassword,
		DB:        app.Config.RedisDBInt(),
		PoolSize:  app.Config.RedisPoolSizeInt(),
		KeyPrefix: app.Config.RedisKeyPrefix,
	}

	redisClient, err := redis.NewClient(redisConfig)
	if err != nil {
		return err
	}

	app.RedisClient = redisClient
	app.Logger.Info("Redis: Connected", logging.String("address", app.Config.RedisAddress))

	if app.Config.BreakerEnabled {
		cbConfig := circuitbreaker.DefaultConfig()
		cbConfig.MaxFailures = app.Config.BreakerMaxFailuresInt()
		cbConfig.Timeout = app.Config.BreakerTimeoutDuration()

		app.Breaker = circuitbreaker.New("redis", cbConfig, app.Logger)
		app.Logger.Info("Circuit Breaker: Enabled",
			logging.Int("max_failures", cbConfig.MaxFailures),
			logging.Duration("timeout", cbConfig.Timeout),
		)
	}

	return nil
}
