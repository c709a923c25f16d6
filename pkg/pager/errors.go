package pager

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks every configuration failure: bad page, bad page size, bad option.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrOutOfRange is returned by SetCurrentPage under OutOfRangeReject.
// It unwraps to ErrInvalidArgument so callers can treat both the same way.
var ErrOutOfRange = fmt.Errorf("%w: page out of range", ErrInvalidArgument)

// ArgumentError carries the offending field and value.
type ArgumentError struct {
	Field   string
	Value   any
	Message string
	err     error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s %s (got %v)", e.err, e.Field, e.Message, e.Value)
}

func (e *ArgumentError) Unwrap() error { return e.err }

func invalidArgument(field string, value any, msg string) error {
	return &ArgumentError{Field: field, Value: value, Message: msg, err: ErrInvalidArgument}
}

func outOfRange(page, last int) error {
	return &ArgumentError{
		Field:   "current_page",
		Value:   page,
		Message: fmt.Sprintf("must be <= %d", last),
		err:     ErrOutOfRange,
	}
}
