package onshutdown

import (
	"context"
	"time"
)

// Callback is the zero-argument, no-return function owned by a guard.
//
// Any func() value converts to Callback implicitly, so bare method values
// (wg.Wait), closures and named closure variables can all be passed directly.
type Callback func()

// Logger is the logging collaborator used for timing and fault records.
//
// *slog.Logger satisfies Logger. Args are alternating key/value pairs.
// See the shutdownlog package for zap and zerolog adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Report describes one completed guard invocation.
type Report struct {
	Name     string
	Start    time.Time
	Duration time.Duration

	// Panicked is true if the callback panicked.
	Panicked bool
	// Err is the error returned by an OnShutdownErr callback, if any.
	Err error
}

// Observer receives a Report after every guard invocation.
//
// Observers run synchronously on the goroutine exiting the scope; they should be fast.
type Observer interface {
	ObserveShutdown(r Report)
}

// ObserverFunc adapts an ordinary function to Observer.
type ObserverFunc func(r Report)

// ObserveShutdown calls f(r).
func (f ObserverFunc) ObserveShutdown(r Report) { f(r) }

// ErrorHandler is called when an OnShutdownErr callback returns a non-nil error.
type ErrorHandler func(ctx context.Context, info ErrorInfo)

// ErrorInfo describes an error returned from a callback.
type ErrorInfo struct {
	Name string
	Err  error
}

// PanicHandler is called when a callback panics, before the PanicPolicy is applied.
type PanicHandler func(ctx context.Context, info PanicInfo)

// PanicInfo describes a recovered callback panic.
type PanicInfo struct {
	Name  string
	Value any
	Stack []byte
}

// PanicPolicy controls what happens after a callback panic has been reported.
type PanicPolicy int

const (
	// Abort reports the panic and terminates the process with exit status 2.
	//
	// This is the default. A fault raised while a scope is being torn down
	// cannot be recovered safely by the code that owned the scope.
	Abort PanicPolicy = iota
	// RecoverAndReport reports the panic and keeps firing the remaining guards.
	// RunErr and RunContext return the fault as a *PanicError.
	RecoverAndReport
	// RepanicAfterReport reports the panic, fires the remaining guards, then
	// panics again with the first recovered value.
	RepanicAfterReport
)

func (p PanicPolicy) String() string {
	switch p {
	case Abort:
		return "abort"
	case RecoverAndReport:
		return "recover-and-report"
	case RepanicAfterReport:
		return "repanic-after-report"
	default:
		return "unknown"
	}
}
