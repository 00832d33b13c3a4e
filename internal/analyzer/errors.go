package analyzer

import (
	"errors"

	"github.com/sant0-9/pulse/internal/llm"
)

var (
	ErrEmptyInput         = errors.New("no feedback entries to analyze")
	ErrEmptyInstruction   = errors.New("instruction is empty")
	ErrTooLarge           = errors.New("dataset too large to analyze")
	ErrServiceUnavailable = errors.New("analysis service unavailable")
	ErrTimeout            = errors.New("analysis timed out")
)

// Error is returned by Analyze. Kind is one of the Err* sentinels above
// and matches with errors.Is.
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

// IsInputError reports whether err was caused by the caller's input
// rather than the model service.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrEmptyInstruction) || errors.Is(err, ErrTooLarge)
}

func classify(err error) *Error {
	if llm.IsTimeout(err) {
		return &Error{Kind: ErrTimeout, Err: err}
	}
	return &Error{Kind: ErrServiceUnavailable, Err: err}
}
