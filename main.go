package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"tiercache/internal/app"
	"tiercache/internal/common/logging"
	"tiercache/internal/config"
)

func main() {
	cliApp := cli.App{
		Name:  "tiercache",
		Usage: "read and write keys through a layered cache",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "tiers",
				Usage:   "comma-separated tier order, fastest first (memory, lru, redis)",
				EnvVars: []string{"CACHE_TIERS"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(cctx *cli.Context) error {
			// A missing .env file is fine, the environment may already be set
			_ = godotenv.Load()
			return nil
		},
	}
	cliApp.Commands = []*cli.Command{
		{
			Name:      "get",
			Usage:     "read a key through every tier",
			ArgsUsage: "<key>",
			Action:    runGet,
		},
		{
			Name:      "set",
			Usage:     "write a key to every writable tier",
			ArgsUsage: "<key> <value>",
			Action:    runSet,
		},
		{
			Name:      "del",
			Usage:     "delete a key from every tier",
			ArgsUsage: "<key>",
			Action:    runDel,
		},
		{
			Name:   "tiers",
			Usage:  "print the registered tier order",
			Action: runTiers,
		},
		{
			Name:   "health",
			Usage:  "check that the remote tier is reachable",
			Action: runHealth,
		},
		{
			Name:   "clear",
			Usage:  "remove every key from the remote tier",
			Action: runClear,
		},
	}
	cliApp.RunAndExitOnError()
}

// withApp loads configuration, builds the cache and runs fn against it
func withApp(cctx *cli.Context, fn func(*app.App) error) error {
	cfg := config.Load()
	if v := cctx.String("tiers"); v != "" {
		cfg.CacheTiers = v
	}
	if v := cctx.String("log-level"); v != "" {
		cfg.LogLevel = v
	}

	if err := logging.InitGlobalLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.MustSync()

	logging.Debug("Configuration loaded",
		logging.String("tiers", cfg.CacheTiers),
		logging.String("codec", cfg.CacheCodec),
	)

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Cleanup()

	return fn(a)
}

func requireArgs(cctx *cli.Context, n int) error {
	if cctx.Args().Len() != n {
		return cli.Exit(fmt.Sprintf("usage: %s %s %s", cctx.App.Name, cctx.Command.Name, cctx.Command.ArgsUsage), 2)
	}
	return nil
}

func runGet(cctx *cli.Context) error {
	if err := requireArgs(cctx, 1); err != nil {
		return err
	}
	key := cctx.Args().First()

	return withApp(cctx, func(a *app.App) error {
		ctx := logging.ContextWithRequestID(cctx.Context, uuid.NewString())
		value, found, err := a.Cache.Get(ctx, key)
		if err != nil {
			return err
		}
		if !found {
			return cli.Exit(fmt.Sprintf("%s: not found", key), 1)
		}
		fmt.Println(value)
		return nil
	})
}

func runSet(cctx *cli.Context) error {
	if err := requireArgs(cctx, 2); err != nil {
		return err
	}
	key, value := cctx.Args().Get(0), cctx.Args().Get(1)

	return withApp(cctx, func(a *app.App) error {
		ctx := logging.ContextWithRequestID(cctx.Context, uuid.NewString())
		return a.Cache.Set(ctx, key, value)
	})
}

func runDel(cctx *cli.Context) error {
	if err := requireArgs(cctx, 1); err != nil {
		return err
	}
	key := cctx.Args().First()

	return withApp(cctx, func(a *app.App) error {
		ctx := logging.ContextWithRequestID(cctx.Context, uuid.NewString())
		return a.Cache.Del(ctx, key)
	})
}

func runTiers(cctx *cli.Context) error {
	return withApp(cctx, func(a *app.App) error {
		for i, name := range a.Tiers {
			fmt.Fprintf(os.Stdout, "%d\t%s\n", i+1, name)
		}
		if a.Breaker != nil {
			stats := a.Breaker.Stats()
			fmt.Fprintf(os.Stdout, "breaker\t%s\t%s\n", stats.Name, stats.State)
		}
		return nil
	})
}

func runHealth(cctx *cli.Context) error {
	return withApp(cctx, func(a *app.App) error {
		if err := a.Health(); err != nil {
			logging.Warn("Health check failed", logging.Err(err))
			return cli.Exit(fmt.Sprintf("unhealthy: %v", err), 1)
		}
		fmt.Println("ok")
		return nil
	})
}

func runClear(cctx *cli.Context) error {
	return withApp(cctx, func(a *app.App) error {
		if err := a.Clear(cctx.Context); err != nil {
			logging.Error("Failed to clear remote tier", err)
			return err
		}
		logging.Info("Remote tier cleared", logging.String("prefix", a.Config.RedisKeyPrefix))
		return nil
	})
}
