package onshutdown

// Block combines several statements into one Callback. They run in order.
// Nil entries are skipped.
func Block(fns ...func()) Callback {
	stmts := make([]func(), 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			stmts = append(stmts, fn)
		}
	}
	return func() {
		for _, fn := range stmts {
			fn()
		}
	}
}

// Move returns a Callback that owns a copy of v, taken now.
//
// It is the capture-by-move form: reassigning the caller's variable after
// Move returns does not change what fn receives, in the same way that
// arguments to a deferred call are evaluated at the defer statement.
// To share state with other goroutines, move a pointer (e.g. *atomic.Bool).
func Move[T any](v T, fn func(T)) Callback {
	if fn == nil {
		return func() {}
	}
	return func() { fn(v) }
}

// OnShutdownMove binds a capture-by-move guard to s. See Move.
func OnShutdownMove[T any](s *Scope, v T, fn func(T), opts ...GuardOption) *Guard {
	return s.OnShutdown(Move(v, fn), opts...)
}
