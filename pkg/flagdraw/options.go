package flagdraw

import (
	"io"
	"time"

	"github.com/opd-ai/go-flagdraw/internal/config"
)

// Options configures a Sketch. The zero value is usable.
type Options struct {
	// ConfigFile is an optional Lua configuration file applied before the
	// script's own flags.config table.
	ConfigFile string

	// UseEnv reads FLAGDRAW_* environment variables on top of the script.
	UseEnv bool

	// Override runs after every configuration source and before
	// validation. Command-line flags are applied here.
	Override func(cfg *config.Config)

	// Watch reloads the script when it or its images change. It can also
	// be enabled from the script with flags.config.watch = true.
	Watch bool

	// WatchDebounce sets the debounce interval for file change events.
	// Zero means DefaultWatchDebounce.
	WatchDebounce time.Duration

	// LuaCPULimit overrides the Lua CPU instruction limit.
	// Zero means use the default (10 million instructions).
	LuaCPULimit uint64

	// LuaMemoryLimit overrides the Lua memory limit in bytes.
	// Zero means use the default (50 MB).
	LuaMemoryLimit uint64

	// Stdout receives the script's print output. Nil discards it.
	Stdout io.Writer

	// Logger receives debug and info messages. Nil means NopLogger.
	Logger Logger

	// Metrics collects counters for this sketch. Nil means DefaultMetrics.
	Metrics *Metrics
}

// Logger interface for custom logging.
// It follows the slog-style signature for compatibility with Go's structured logging.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = NopLogger()
	}
	if o.Metrics == nil {
		o.Metrics = DefaultMetrics()
	}
	if o.Stdout == nil {
		o.Stdout = io.Discard
	}
	if o.WatchDebounce <= 0 {
		o.WatchDebounce = DefaultWatchDebounce
	}
	return o
}
