// Package config reads typed configuration values from environment variables,
// with per-context overrides and optional YAML files.
//
// Example:
//
//	kind := config.String(ctx, "COLLECTION_SCHEDULER", config.Default("loop")).ValueOrElse("loop")
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Keys understood by this module.
const (
	KeyScheduler  = "COLLECTION_SCHEDULER"
	KeyPoolSize   = "COLLECTION_POOL_SIZE"
	KeyConfigFile = "COLLECTION_CONFIG_FILE"
	KeyLogJSON    = "LOG_JSON"
	KeyLogLevel   = "LOG_LEVEL"
)

// Scheduler kinds accepted by KeyScheduler.
const (
	SchedulerLoop = "loop"
	SchedulerPool = "pool"
)

const defaultPoolSize = 4

// ErrUnknownFileType is returned by LoadFile for files that are not YAML.
var ErrUnknownFileType = errors.New("config file doesn't have a known file suffix")

type overridesKey struct{}

// WithOverride returns a context in which key reads as value, regardless of the
// process environment. Mostly useful in tests.
func WithOverride(ctx context.Context, key, value string) context.Context {
	return WithOverrides(ctx, map[string]string{key: value})
}

// WithOverrides is like WithOverride for several keys at once. Later overrides
// win over earlier ones.
func WithOverrides(ctx context.Context, values map[string]string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	merged := make(map[string]string)

	if prev, ok := ctx.Value(overridesKey{}).(map[string]string); ok {
		for k, v := range prev {
			merged[k] = v
		}
	}

	for k, v := range values {
		merged[k] = v
	}

	return context.WithValue(ctx, overridesKey{}, merged)
}

func get(ctx context.Context, key string) Reader[string] {
	if ctx != nil {
		if overrides, ok := ctx.Value(overridesKey{}).(map[string]string); ok {
			if val, found := overrides[key]; found {
				return Reader[string]{key: key, present: true, value: val}
			}
		}
	}

	val, ok := os.LookupEnv(key)

	return Reader[string]{key: key, present: ok, value: val}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// String reads a string value.
func String(ctx context.Context, key string, opts ...Option[string]) Reader[string] {
	return apply(get(ctx, key), opts)
}

// Bool reads a boolean value (anything strconv.ParseBool accepts).
func Bool(ctx context.Context, key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(get(ctx, key), func(s string) (bool, error) {
		return strconv.ParseBool(strings.TrimSpace(s))
	}), opts)
}

// Int reads an integer value.
func Int(ctx context.Context, key string, opts ...Option[int]) Reader[int] {
	return apply(Map(get(ctx, key), func(s string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(s))
	}), opts)
}

// Duration reads a duration such as "5s" or "250ms".
func Duration(ctx context.Context, key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(get(ctx, key), func(s string) (time.Duration, error) {
		return time.ParseDuration(strings.TrimSpace(s))
	}), opts)
}

// SlogLevel reads a log level such as "debug", "INFO" or "warn+2".
func SlogLevel(ctx context.Context, key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	return apply(Map(get(ctx, key), func(s string) (slog.Level, error) {
		var level slog.Level

		err := level.UnmarshalText([]byte(strings.TrimSpace(s)))

		return level, err
	}), opts)
}

type fileContents struct {
	Env map[string]string `yaml:"env"`
}

// LoadFile reads a YAML file with an "env" mapping and returns its entries.
//
// Example file:
//
//	env:
//	  COLLECTION_SCHEDULER: pool
//	  COLLECTION_POOL_SIZE: "8"
func LoadFile(path string) (map[string]string, error) {
	name := strings.ToLower(path)
	if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFileType, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, err
	}

	var contents fileContents
	if err := yaml.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return contents.Env, nil
}

// Settings holds the module-wide runtime settings.
type Settings struct {
	// Scheduler is the kind of the default scheduler: SchedulerLoop or SchedulerPool.
	Scheduler string
	// PoolSize is the worker count of the pool scheduler.
	PoolSize int
}

// Load reads Settings. If COLLECTION_CONFIG_FILE names a YAML file, its entries
// win over the process environment, and context overrides win over both.
func Load(ctx context.Context) (Settings, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if path := String(ctx, KeyConfigFile); path.HasValue() && path.value != "" {
		fromFile, err := LoadFile(path.value)
		if err != nil {
			return Settings{}, err
		}

		// Context overrides take precedence over the file.
		if prev, ok := ctx.Value(overridesKey{}).(map[string]string); ok {
			ctx = WithOverrides(WithOverrides(ctx, fromFile), prev)
		} else {
			ctx = WithOverrides(ctx, fromFile)
		}
	}

	kind, err := String(ctx, KeyScheduler,
		Default(SchedulerLoop),
		OneOf(SchedulerLoop, SchedulerPool)).Value()
	if err != nil {
		return Settings{}, err
	}

	size, err := Int(ctx, KeyPoolSize, Default(defaultPoolSize)).Value()
	if err != nil {
		return Settings{}, err
	}

	if size < 1 {
		return Settings{}, fmt.Errorf("%w %s: must be positive, got %d", ErrBadValue, KeyPoolSize, size)
	}

	return Settings{Scheduler: kind, PoolSize: size}, nil
}
