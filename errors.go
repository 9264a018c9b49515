package onshutdown

import (
	"errors"
	"fmt"
)

// ErrAlreadyFired is the panic value raised when a guard's callback is taken twice.
//
// Scopes never do this; seeing it means the guard's ownership was broken.
var ErrAlreadyFired = errors.New("onshutdown: guard already fired")

// PanicError is a callback panic contained under RecoverAndReport.
type PanicError struct {
	Name  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("onshutdown: callback %q panicked: %v", e.Name, e.Value)
	}
	return fmt.Sprintf("onshutdown: callback panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
