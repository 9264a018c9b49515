//go:build !unix

package sigflag

import "os"

// DefaultSignals returns the signals that request a graceful exit on this platform.
func DefaultSignals() []os.Signal {
	// Best effort: at least support os.Interrupt.
	return []os.Signal{os.Interrupt}
}
