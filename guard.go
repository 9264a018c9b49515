package onshutdown

import (
	"runtime/debug"
	"sync/atomic"
)

// Guard owns a single callback and runs it exactly once, when the Scope it is
// bound to ends.
//
// Guards are created by Scope.OnShutdown, Scope.OnShutdownErr and OnShutdownMove.
// There is no way to fire, re-arm or defuse a guard directly: invocation is
// solely a side effect of the owning scope exiting.
type Guard struct {
	name  string
	fn    func() error
	fired atomic.Bool
}

func newGuard(fn func() error, opts []GuardOption) *Guard {
	var c guardConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if fn == nil {
		fn = func() error { return nil }
	}
	return &Guard{name: c.name, fn: fn}
}

// Name returns the configured name (may be empty).
func (g *Guard) Name() string { return g.name }

// Fired reports whether the guard's callback has been taken for invocation.
func (g *Guard) Fired() bool { return g.fired.Load() }

// take empties the callback slot. A second take is a programming error.
func (g *Guard) take() func() error {
	if !g.fired.CompareAndSwap(false, true) {
		panic(ErrAlreadyFired)
	}
	fn := g.fn
	g.fn = nil
	return fn
}

type outcome struct {
	fault *PanicError
	err   error
}

// fire consumes the callback and runs it with timing and observers.
// Policy handling is left to the scope.
func (g *Guard) fire(c *config) outcome {
	fn := g.take()

	if c.timing {
		c.logger.Debug("on shutdown callback", nameAttrs(g.name)...)
	}
	start := c.now()
	fault, err := call(fn)
	took := c.now().Sub(start)
	if c.timing {
		us := took.Microseconds()
		c.logger.Debug("on shutdown callback finished",
			append(nameAttrs(g.name), "took_s", float64(us)/1_000_000, "took_us", us)...)
	}

	if fault != nil {
		fault.Name = g.name
	}
	r := Report{
		Name:     g.name,
		Start:    start,
		Duration: took,
		Panicked: fault != nil,
		Err:      err,
	}
	for _, o := range c.observers {
		observeNoPanic(o, r)
	}
	return outcome{fault: fault, err: err}
}

func call(fn func() error) (fault *PanicError, err error) {
	defer func() {
		if p := recover(); p != nil {
			fault = &PanicError{Value: p, Stack: debug.Stack()}
		}
	}()
	return nil, fn()
}

func nameAttrs(name string) []any {
	if name == "" {
		return nil
	}
	return []any{"name", name}
}
