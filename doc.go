// Package onshutdown runs a callback exactly once when the scope that owns it ends.
//
// It is meant for code that lives inside an entry point you do not fully
// control (a framework-generated main, a server bootstrap, a worker loop) and
// needs "run this when execution leaves here" without threading cleanup
// through every return path.
//
// Go has no deterministic destructors, so the owning scope is explicit: Run
// (or RunErr/RunContext/Defer) opens a Scope, calls your body, and fires every
// guard bound to the Scope when the body returns.
//
// # Quick start
//
//	onshutdown.Run(func(s *onshutdown.Scope) {
//		fmt.Println("start")
//		s.OnShutdown(func() { fmt.Println("end") })
//		fmt.Println("middle")
//	})
//	// start
//	// middle
//	// end
//
// # Guarantees
//
//   - Each guard's callback runs exactly once. It never runs at registration
//     and never runs before the body returns.
//   - Guards bound to the same Scope fire in reverse registration order
//     (last bound, first fired), like defer.
//   - Nested Run calls nest scopes: the inner Scope ends, and its guards fire,
//     before the outer body continues.
//   - Firing is synchronous on the goroutine leaving the Scope. A callback that
//     blocks (for example joining a worker) blocks the Scope exit. There is no
//     timeout and no way to defuse a guard.
//
// Guards also fire when the body returns early, calls runtime.Goexit, or
// panics. A callback that calls runtime.Goexit does not stop the guards
// bound before it from firing. Nothing fires on abrupt termination: os.Exit, a fatal runtime error,
// or the process being killed. Signal handling is up to the caller; the usual
// pattern is a signal handler that sets an atomic flag which the body's work
// loop observes before returning normally.
//
// # Registration forms
//
// OnShutdown accepts any func() value:
//
//	s.OnShutdown(wg.Wait)                           // bare expression
//	s.OnShutdown(onshutdown.Block(flush, closeLog)) // block of statements
//	s.OnShutdown(func() { log.Print("bye") })       // closure
//	s.OnShutdown(cleanup)                           // named closure
//
// Move and OnShutdownMove capture a value at registration time:
//
//	stop := new(atomic.Bool)
//	onshutdown.OnShutdownMove(s, stop, func(stop *atomic.Bool) { stop.Store(true) })
//
// OnShutdownErr binds callbacks that may fail (f.Close, srv.Close). Their
// errors are logged and returned from RunErr/RunContext.
//
// # Unbound guards
//
// A *Scope must not outlive its body. Binding a guard to a Scope that has
// already ended does not fail: the guard has no owner, so it fires immediately
// inside the binding call and a warning is logged.
//
// # Timing
//
// By default every invocation is wrapped with two debug records on the
// configured Logger (default slog.Default()):
//
//	"on shutdown callback"
//	"on shutdown callback finished" took_s=<seconds> took_us=<microseconds>
//
// took_us is the elapsed time at microsecond resolution and took_s is exactly
// took_us/1e6. Use WithTiming(false) to turn the records off, and WithObserver
// to receive a Report per invocation (see the shutdownprom package for a
// Prometheus observer).
//
// # Panic policy
//
// A panic inside a callback happens while a scope is being torn down, often
// during an unwind that is already in progress. By default (Abort) the panic
// is reported and the process exits with status 2. RecoverAndReport keeps
// firing the remaining guards and returns the faults as *PanicError from
// RunErr/RunContext. RepanicAfterReport fires the remaining guards and then
// panics again with the first value.
package onshutdown
