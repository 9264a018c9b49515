package onshutdown

import (
	"context"
	"sync"

	"go.uber.org/multierr"
)

// Scope owns the guards bound to it and fires them when it ends.
//
// A Scope is created by Run, RunErr, RunContext or Defer and lives exactly as
// long as the body passed to them. When the body returns (normally, early,
// via runtime.Goexit or by panicking), the bound guards fire synchronously on
// that goroutine in reverse registration order.
//
// Binding is safe for concurrent use. Do not retain a *Scope beyond its body:
// a guard bound to a Scope that has already ended has no owner and fires
// immediately, inside the binding call.
type Scope struct {
	ctx context.Context
	cfg config

	mu     sync.Mutex
	guards []*Guard
	ended  bool
}

// Run opens a Scope, calls body, and fires the Scope's guards when body returns.
//
// Faults are handled according to the PanicPolicy (default: Abort). Under
// RecoverAndReport, contained faults are reported but not returned; use
// RunErr to observe them.
func Run(body func(s *Scope), opts ...Option) {
	_ = runScope(context.Background(), opts, func(_ context.Context, s *Scope) error {
		if body != nil {
			body(s)
		}
		return nil
	})
}

// RunErr is like Run for bodies that return an error.
//
// The returned error combines the body's error, errors returned by
// OnShutdownErr callbacks, and contained faults (*PanicError) in that order.
func RunErr(body func(s *Scope) error, opts ...Option) error {
	return runScope(context.Background(), opts, func(_ context.Context, s *Scope) error {
		if body == nil {
			return nil
		}
		return body(s)
	})
}

// RunContext is like RunErr, and also passes ctx to body and to the error
// and panic handlers.
//
// If ctx is nil, it is treated as context.Background(). Cancellation of ctx
// does not end the Scope early; only body returning does.
func RunContext(ctx context.Context, body func(ctx context.Context, s *Scope) error, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return runScope(ctx, opts, func(ctx context.Context, s *Scope) error {
		if body == nil {
			return nil
		}
		return body(ctx, s)
	})
}

// Defer runs body with a single guard holding cb, so cb runs after body returns.
func Defer(cb Callback, body func(), opts ...Option) {
	Run(func(s *Scope) {
		s.OnShutdown(cb)
		if body != nil {
			body()
		}
	}, opts...)
}

func runScope(ctx context.Context, opts []Option, body func(context.Context, *Scope) error) (err error) {
	s := &Scope{ctx: ctx, cfg: newConfig(opts)}
	defer func() {
		repanic, endErr := s.end()
		err = multierr.Append(err, endErr)
		if repanic != nil {
			panic(repanic.Value)
		}
	}()
	return body(ctx, s)
}

// Context returns the context the Scope was opened with.
func (s *Scope) Context() context.Context { return s.ctx }

// OnShutdown binds a guard owning cb to the Scope.
//
// cb may be any func() value: a method value such as wg.Wait, a closure, a
// named closure variable, or a Callback built with Block or Move. A nil cb
// binds a guard that does nothing when fired.
func (s *Scope) OnShutdown(cb Callback, opts ...GuardOption) *Guard {
	var fn func() error
	if cb != nil {
		fn = func() error {
			cb()
			return nil
		}
	}
	return s.bind(newGuard(fn, opts))
}

// OnShutdownErr binds a guard owning a callback that may fail, such as f.Close.
//
// A returned error is not a fault: it is logged, passed to the ErrorHandler,
// and returned from RunErr/RunContext.
func (s *Scope) OnShutdownErr(fn func() error, opts ...GuardOption) *Guard {
	return s.bind(newGuard(fn, opts))
}

func (s *Scope) bind(g *Guard) *Guard {
	s.mu.Lock()
	if !s.ended {
		s.guards = append(s.guards, g)
		s.mu.Unlock()
		return g
	}
	s.mu.Unlock()

	s.cfg.logger.Warn("on shutdown callback bound to an ended scope, firing now", nameAttrs(g.name)...)
	o := s.invoke(g)
	if o.fault != nil && s.cfg.panicPolicy == RepanicAfterReport {
		panic(o.fault.Value)
	}
	return g
}

// end marks the Scope as ended and fires its guards, last bound first.
// It returns, under RepanicAfterReport, the first fault, and the combined errors.
func (s *Scope) end() (*PanicError, error) {
	s.mu.Lock()
	s.ended = true
	guards := s.guards
	s.guards = nil
	s.mu.Unlock()

	var st endState
	s.fireFrom(guards, len(guards)-1, &st)

	if s.cfg.panicPolicy == RepanicAfterReport {
		return st.first, st.errs
	}
	return nil, st.errs
}

type endState struct {
	errs  error
	first *PanicError
}

// fireFrom fires guards[i] and then, from a deferred frame, the guards bound before it.
// A callback calling runtime.Goexit still lets the earlier guards fire.
func (s *Scope) fireFrom(guards []*Guard, i int, st *endState) {
	if i < 0 {
		return
	}
	defer s.fireFrom(guards, i-1, st)

	o := s.invoke(guards[i])
	st.errs = multierr.Append(st.errs, o.err)
	if o.fault != nil {
		st.errs = multierr.Append(st.errs, o.fault)
		if st.first == nil {
			st.first = o.fault
		}
	}
}

// invoke fires g, reports its error or fault, and applies Abort.
func (s *Scope) invoke(g *Guard) outcome {
	o := g.fire(&s.cfg)
	if o.err != nil {
		s.reportError(g.name, o.err)
	}
	if o.fault != nil {
		s.reportPanic(o.fault)
		if s.cfg.panicPolicy == Abort {
			s.cfg.exit(2)
		}
	}
	return o
}

func (s *Scope) reportError(name string, err error) {
	s.cfg.logger.Error("on shutdown callback failed", append(nameAttrs(name), "err", err)...)
	if s.cfg.onError != nil {
		callErrorHandlerNoPanic(s.ctx, s.cfg.onError, ErrorInfo{Name: name, Err: err})
	}
}

func (s *Scope) reportPanic(f *PanicError) {
	info := PanicInfo{Name: f.Name, Value: f.Value, Stack: f.Stack}
	if s.cfg.onPanic != nil {
		callPanicHandlerNoPanic(s.ctx, s.cfg.onPanic, info)
		return
	}
	s.cfg.logger.Error("on shutdown callback panicked",
		append(nameAttrs(f.Name), "panic", f.Value, "policy", s.cfg.panicPolicy.String())...)
	if s.cfg.panicPolicy == Abort {
		reportPanicToStderr(info)
	}
}
