package errors

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the service layer. Match with errors.Is.
var (
	ErrConnection  = errors.New("store unavailable")
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("invalid input")
	ErrPersistence = errors.New("persistence failure")
	ErrConflict    = errors.New("conflict")
)

// OpError tags a failed operation with its kind and keeps the cause.
type OpError struct {
	Kind error
	Op   string
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap returns an *OpError for op. kind should be one of the Err* kinds above.
func Wrap(kind error, op string, cause error) error {
	return &OpError{Kind: kind, Op: op, Err: cause}
}

// Newf builds an error of the given kind with a formatted cause.
func Newf(kind error, op, format string, args ...interface{}) error {
	return Wrap(kind, op, fmt.Errorf(format, args...))
}

// KindOf reports which kind err carries, defaulting to ErrPersistence.
func KindOf(err error) error {
	for _, kind := range []error{ErrConnection, ErrNotFound, ErrValidation, ErrConflict, ErrPersistence} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrPersistence
}
