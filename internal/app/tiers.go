package app

import (
	"fmt"

	"tiercache/internal/codec"
	"tiercache/internal/common/errors"
	"tiercache/internal/common/logging"
	"tiercache/internal/config"
	"tiercache/internal/layered"
	"tiercache/internal/tiers"
)

// buildTier creates the tier for name. A nil tier with a nil error means the
// tier is unavailable and should be left out.
func (app *App) buildTier(name string, c codec.Codec) (layered.Tier[string], error) {
	cfg := app.Config

	switch name {
	case config.TierMemory:
		return tiers.NewMemory[string](name, cfg.MemoryTTLDuration(), cfg.MemoryCleanupDuration()), nil
	case config.TierLRU:
		return tiers.NewLRU[string](name, cfg.LRUSizeInt(), cfg.LRUTTLDuration()), nil
	case config.TierRedis:
		if err := app.initializeRedis(); err != nil {
			app.Logger.Warn("Redis initialization failed, continuing without the redis tier",
				logging.Err(err))
			app.redisErr = errors.ConnectionError(
				fmt.Sprintf("redis tier at %s is unavailable", cfg.RedisAddress), err)
			return nil, nil
		}
		var opts []tiers.RedisOption
		if app.Breaker != nil {
			opts = append(opts, tiers.WithBreaker(app.Breaker))
		}
		return tiers.NewRedis[string](name, app.RedisClient, c, cfg.RedisTTLDuration(), opts...), nil
	}
	return nil, errors.ConfigError("unknown tier '" + name + "'")
}
