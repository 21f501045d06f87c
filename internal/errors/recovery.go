package errors

import (
	"runtime/debug"
)

// Recovered runs fn and converts a panic into an ordinary error carrying the
// panic value and stack. Trial evaluation uses it so a misbehaving provider
// takes down one trial, not the run.
func Recovered(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &Error{
				Message: "recovered from panic",
				Err:     Errorf("%v", rec),
				Stack:   []string{string(debug.Stack())},
			}
		}
	}()
	return fn()
}
