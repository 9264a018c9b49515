//go:build unix

package sigflag

import (
	"os"
	"syscall"
)

// DefaultSignals returns the signals that request a graceful exit on this platform.
func DefaultSignals() []os.Signal {
	return []os.Signal{
		os.Interrupt,    // SIGINT
		syscall.SIGTERM, // graceful termination
	}
}
