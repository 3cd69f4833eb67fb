package tiers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tiercache/internal/common/logging"
	"tiercache/internal/layered"
)

// Logged wraps tier so every handler it takes part in is logged at debug
// level. The returned tier keeps exactly the capabilities of tier, so a
// read-only tier stays out of the write and delete chains.
//
// Each step is tagged with the request id carried by ctx. When ctx has none
// a fresh one is generated and passed on to tier.
func Logged[T any](name string, tier layered.Tier[T], logger logging.Logger) layered.Tier[T] {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	logger = logger.WithFields(logging.String("tier", name))

	funcs := layered.TierFuncs[T]{
		GetFunc: logGet[T](tier.Get, logger),
	}
	if set, ok := layered.SetHandler(tier); ok {
		funcs.SetFunc = logStep("set", set, logger)
	}
	if del, ok := layered.DelHandler(tier); ok {
		funcs.DelFunc = logStep("del", del, logger)
	}
	return funcs
}

func withRequestID(ctx context.Context) context.Context {
	if _, ok := logging.RequestID(ctx); ok {
		return ctx
	}
	return logging.ContextWithRequestID(ctx, uuid.NewString())
}

func logGet[T any](get layered.HandlerFunc[T], logger logging.Logger) layered.HandlerFunc[T] {
	return func(ctx context.Context, c *layered.Context[T], next layered.Next) error {
		ctx = withRequestID(ctx)
		log := logger.WithContext(ctx)
		prevErr := c.Err()

		delegated := false
		start := time.Now()
		err := get(ctx, c, func() error {
			delegated = true
			return next()
		})
		fields := []logging.Field{
			logging.String("key", c.Key()),
			logging.Duration("duration", time.Since(start)),
		}

		if err != nil {
			log.Error("Tier get failed", err, fields...)
			return err
		}
		if errChanged(c.Err(), prevErr) {
			log.Warn("Tier get degraded", append(fields, logging.Err(c.Err()))...)
		}

		_, found := c.Body()
		switch {
		case !delegated && found:
			log.Debug("Cache hit", fields...)
		case found:
			log.Debug("Cache miss, filled from downstream",
				append(fields, logging.String("source", c.Source()))...)
		default:
			log.Debug("Cache miss", fields...)
		}
		return nil
	}
}

func logStep[T any](op string, h layered.HandlerFunc[T], logger logging.Logger) layered.HandlerFunc[T] {
	return func(ctx context.Context, c *layered.Context[T], next layered.Next) error {
		ctx = withRequestID(ctx)
		log := logger.WithContext(ctx)
		prevErr := c.Err()

		start := time.Now()
		err := h(ctx, c, next)
		fields := []logging.Field{
			logging.String("op", op),
			logging.String("key", c.Key()),
			logging.Duration("duration", time.Since(start)),
		}

		if err != nil {
			log.Error("Tier "+op+" failed", err, fields...)
			return err
		}
		if errChanged(c.Err(), prevErr) {
			log.Warn("Tier "+op+" degraded", append(fields, logging.Err(c.Err()))...)
			return nil
		}
		log.Debug("Tier "+op+" done", fields...)
		return nil
	}
}

// errChanged reports whether a new error was recorded during a step. Error
// values are not always comparable, so identity goes through errors.Is.
func errChanged(current, previous error) bool {
	return current != nil && !errors.Is(current, previous)
}
