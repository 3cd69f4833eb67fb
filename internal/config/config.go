// Package config loads the tiercache configuration from environment variables
// with sensible defaults and validates it before the cache is built.
//
// Environment Variables:
//
// Logging:
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FILE: Log file path, empty logs to stderr
//
// Tiers:
//   - CACHE_TIERS: Comma-separated tier order, fastest first. Members are
//     "memory", "lru" and "redis" (default: memory,redis)
//   - CACHE_CODEC: Encoding for remote tiers, "json" or "msgpack" (default: json)
//   - MEMORY_TTL: In-memory entry lifetime (default: 5m)
//   - MEMORY_CLEANUP_INTERVAL: In-memory purge interval (default: 10m)
//   - LRU_SIZE: Maximum LRU entries (default: 1024)
//   - LRU_TTL: LRU entry lifetime (default: 1m)
//
// Redis:
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//   - REDIS_KEY_PREFIX: Prefix for every cached key (default: tiercache:)
//   - REDIS_TTL: Remote entry lifetime (default: 1h)
//
// Circuit Breaker:
//   - BREAKER_ENABLED: Guard the Redis tier with a circuit breaker (default: true)
//   - BREAKER_MAX_FAILURES: Consecutive failures that open the circuit (default: 5)
//   - BREAKER_TIMEOUT: How long the circuit stays open (default: 30s)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tiercache/internal/common/errors"
)

// Tier names accepted in CACHE_TIERS
const (
	TierMemory = "memory"
	TierLRU    = "lru"
	TierRedis  = "redis"
)

// Config holds all configuration values. Numeric and duration settings are
// kept as the raw strings from the environment; Validate checks them and the
// typed accessors convert them.
type Config struct {
	LogLevel string // Logging level (debug, info, warn, error)
	LogFile  string // Log file path, empty for stderr

	CacheTiers            string // Comma-separated tier order
	CacheCodec            string // json or msgpack
	MemoryTTL             string
	MemoryCleanupInterval string
	LRUSize               string
	LRUTTL                string

	RedisAddress   string // Redis server address (host:port)
	RedisPassword  string // Redis authentication password
	RedisDB        string // Redis database number (0-15)
	RedisPoolSize  string // Redis connection pool size
	RedisKeyPrefix string
	RedisTTL       string

	BreakerEnabled     bool
	BreakerMaxFailures string
	BreakerTimeout     string
}

// Load creates a Config from environment variables. It does not validate;
// call Validate on the result.
func Load() *Config {
	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		CacheTiers:            getEnv("CACHE_TIERS", "memory,redis"),
		CacheCodec:            getEnv("CACHE_CODEC", "json"),
		MemoryTTL:             getEnv("MEMORY_TTL", "5m"),
		MemoryCleanupInterval: getEnv("MEMORY_CLEANUP_INTERVAL", "10m"),
		LRUSize:               getEnv("LRU_SIZE", "1024"),
		LRUTTL:                getEnv("LRU_TTL", "1m"),

		RedisAddress:   getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnv("REDIS_DB", "0"),
		RedisPoolSize:  getEnv("REDIS_POOL_SIZE", "10"),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "tiercache:"),
		RedisTTL:       getEnv("REDIS_TTL", "1h"),

		BreakerEnabled:     getBoolEnv("BREAKER_ENABLED", true),
		BreakerMaxFailures: getEnv("BREAKER_MAX_FAILURES", "5"),
		BreakerTimeout:     getEnv("BREAKER_TIMEOUT", "30s"),
	}
}

// getEnv retrieves an environment variable or returns defaultValue if it is
// not set or empty
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv accepts the values understood by strconv.ParseBool and falls
// back to defaultValue for anything else
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate checks every field and returns a config error describing the
// first invalid one
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.ConfigError("LOG_LEVEL must be one of debug, info, warn or error")
	}

	tiers := c.Tiers()
	if len(tiers) == 0 {
		return errors.ConfigError("CACHE_TIERS must name at least one tier")
	}
	seen := make(map[string]bool, len(tiers))
	for _, tier := range tiers {
		switch tier {
		case TierMemory, TierLRU, TierRedis:
		default:
			return errors.ConfigError(fmt.Sprintf("CACHE_TIERS contains unknown tier '%s'", tier))
		}
		if seen[tier] {
			return errors.ConfigError(fmt.Sprintf("CACHE_TIERS lists '%s' more than once", tier))
		}
		seen[tier] = true
	}

	switch strings.ToLower(c.CacheCodec) {
	case "json", "msgpack":
	default:
		return errors.ConfigError("CACHE_CODEC must be 'json' or 'msgpack'")
	}

	if err := validDuration("MEMORY_TTL", c.MemoryTTL); err != nil {
		return err
	}
	if err := validDuration("MEMORY_CLEANUP_INTERVAL", c.MemoryCleanupInterval); err != nil {
		return err
	}
	if err := validDuration("LRU_TTL", c.LRUTTL); err != nil {
		return err
	}
	if size, err := strconv.Atoi(c.LRUSize); err != nil || size < 1 {
		return errors.ConfigError("LRU_SIZE must be a positive number")
	}

	if seen[TierRedis] {
		if c.RedisAddress == "" {
			return errors.ConfigError("REDIS_ADDRESS is required when the redis tier is enabled")
		}
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return errors.ConfigError("REDIS_DB must be a number between 0 and 15")
		}
		if poolSize, err := strconv.Atoi(c.RedisPoolSize); err != nil || poolSize < 1 {
			return errors.ConfigError("REDIS_POOL_SIZE must be a positive number")
		}
		if err := validDuration("REDIS_TTL", c.RedisTTL); err != nil {
			return err
		}
	}

	if c.BreakerEnabled {
		if n, err := strconv.Atoi(c.BreakerMaxFailures); err != nil || n < 1 {
			return errors.ConfigError("BREAKER_MAX_FAILURES must be a positive number")
		}
		if d, err := time.ParseDuration(c.BreakerTimeout); err != nil || d <= 0 {
			return errors.ConfigError("BREAKER_TIMEOUT must be a positive duration (e.g., '30s')")
		}
	}

	return nil
}

func validDuration(name, value string) error {
	if d, err := time.ParseDuration(value); err != nil || d < 0 {
		return errors.ConfigError(fmt.Sprintf("%s must be a valid duration (e.g., '60s', '1m')", name))
	}
	return nil
}

// Tiers returns the configured tier order with blanks removed
func (c *Config) Tiers() []string {
	var tiers []string
	for _, part := range strings.Split(c.CacheTiers, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			tiers = append(tiers, part)
		}
	}
	return tiers
}

// The accessors below assume Validate has passed and return zero values for
// unparseable input.

func (c *Config) MemoryTTLDuration() time.Duration { return parseDuration(c.MemoryTTL) }

func (c *Config) MemoryCleanupDuration() time.Duration {
	return parseDuration(c.MemoryCleanupInterval)
}

func (c *Config) LRUTTLDuration() time.Duration { return parseDuration(c.LRUTTL) }

func (c *Config) LRUSizeInt() int { return parseInt(c.LRUSize) }

func (c *Config) RedisDBInt() int { return parseInt(c.RedisDB) }

func (c *Config) RedisPoolSizeInt() int { return parseInt(c.RedisPoolSize) }

func (c *Config) RedisTTLDuration() time.Duration { return parseDuration(c.RedisTTL) }

func (c *Config) BreakerMaxFailuresInt() int { return parseInt(c.BreakerMaxFailures) }

func (c *Config) BreakerTimeoutDuration() time.Duration { return parseDuration(c.BreakerTimeout) }

func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
