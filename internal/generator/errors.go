package generator

import (
	"errors"

	"github.com/sant0-9/pulse/internal/llm"
)

var (
	ErrServiceUnavailable = errors.New("generation service unavailable")
	ErrTimeout            = errors.New("generation timed out")
)

// Error wraps a failed generation call. Kind is ErrServiceUnavailable
// or ErrTimeout.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func classify(err error) *Error {
	if llm.IsTimeout(err) {
		return &Error{Kind: ErrTimeout, Err: err}
	}
	return &Error{Kind: ErrServiceUnavailable, Err: err}
}
