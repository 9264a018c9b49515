// Package sigflag turns OS signals into an atomic flag that a work loop can poll.
//
// It is the signal-handling side of a graceful exit: the handler only sets the
// flag, the loop notices and returns normally, and guards bound to the
// enclosing onshutdown.Scope fire as the scope ends.
package sigflag

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
)

// Flag is a one-way boolean shared between a signal handler and a work loop.
// The zero value is unset and ready to use.
type Flag struct {
	set atomic.Bool
}

// Set marks the flag.
func (f *Flag) Set() { f.set.Store(true) }

// IsSet reports whether the flag has been set.
func (f *Flag) IsSet() bool { return f.set.Load() }

// Notify sets f whenever one of sigs is received and then calls onSignal, if non-nil.
//
// If sigs is empty, DefaultSignals is used. The returned stop function
// unregisters the handler and waits for it to exit; it is idempotent.
func Notify(f *Flag, onSignal func(os.Signal), sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = DefaultSignals()
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case sig := <-ch:
				f.Set()
				if onSignal != nil {
					onSignal(sig)
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
			wg.Wait()
		})
	}
}
