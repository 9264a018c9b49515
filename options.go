package onshutdown

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

type config struct {
	logger Logger
	timing bool

	observers []Observer

	onError ErrorHandler

	onPanic     PanicHandler
	panicPolicy PanicPolicy

	now  func() time.Time
	exit func(code int)
}

// Option configures a single Run/RunErr/RunContext/Defer call.
type Option func(*config)

func defaultConfig() config {
	return config{
		logger:      slog.Default(),
		timing:      true,
		panicPolicy: Abort,
		now:         time.Now,
		exit:        os.Exit,
	}
}

func newConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// WithLogger sets the logger for timing and fault records.
//
// Default: slog.Default(). A nil logger discards all records.
func WithLogger(l Logger) Option {
	return func(c *config) {
		if l == nil {
			l = nopLogger{}
		}
		c.logger = l
	}
}

// WithTiming controls the debug records emitted around each callback.
//
// Default: true. Observers still receive a Report when timing is off.
func WithTiming(enabled bool) Option {
	return func(c *config) { c.timing = enabled }
}

// WithObserver appends an observer. Observers are called in the order they were added.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o == nil {
			return
		}
		c.observers = append(c.observers, o)
	}
}

// WithErrorHandler sets the handler for errors returned by OnShutdownErr callbacks.
//
// Errors are always logged; the handler is an additional hook. Panics in the
// handler are contained and reported to stderr.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) { c.onError = h }
}

// WithPanicHandler sets the panic handler.
//
// If not set, panics are logged at error level, and under Abort also written
// to stderr before exiting. Panics in the handler are contained and reported to stderr.
func WithPanicHandler(h PanicHandler) Option {
	return func(c *config) { c.onPanic = h }
}

// WithPanicPolicy sets the panic handling policy. Default: Abort.
func WithPanicPolicy(p PanicPolicy) Option {
	return func(c *config) { c.panicPolicy = p }
}

// WithClock overrides the clock used for timing. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithExit overrides the function used by Abort to terminate the process. Intended for tests.
//
// If the function returns, the remaining guards are still fired and the fault
// is treated as under RecoverAndReport.
func WithExit(exit func(code int)) Option {
	return func(c *config) {
		if exit != nil {
			c.exit = exit
		}
	}
}

type guardConfig struct {
	name string
}

// GuardOption configures a single guard.
type GuardOption func(*guardConfig)

// WithName labels a guard in log records, reports and metrics.
// The name is trimmed of surrounding whitespace.
func WithName(name string) GuardOption {
	return func(c *guardConfig) { c.name = strings.TrimSpace(name) }
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

