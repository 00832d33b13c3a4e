package dataset

import "errors"

var (
	// ErrMissingColumn means the header row has no Content column
	ErrMissingColumn = errors.New("csv must contain a 'Content' column")

	// ErrMalformed means the input is not well-formed CSV
	ErrMalformed = errors.New("malformed csv")
)

// ImportError reports why a CSV could not be turned into a Dataset.
// Kind is one of ErrMissingColumn or ErrMalformed, so callers can use
// errors.Is(err, dataset.ErrMissingColumn).
type ImportError struct {
	Kind error
	Err  error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func (e *ImportError) Is(target error) bool {
	return target == e.Kind
}
