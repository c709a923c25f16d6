// Package service holds the browse use case: resolve a source, page through it, export the page.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/pager/pkg/pager"
)

// ErrInvalidInput is the marker error for aggregated validation failures.
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrUnknownSource is returned, wrapped in an invalid-input error, for a source name nobody registered.
var ErrUnknownSource = errors.New("unknown source")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
	causes []error
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() []error      { return append([]error{ErrInvalidInput}, e.causes...) }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

func newInvalidInput(fe []FieldError, causes ...error) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe, causes: causes}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var v *invalidInputError
	if errors.As(err, &v) {
		return v.Fields()
	}
	return nil
}

// BrowseRequest selects a page of a named source.
// A nil MaxPerPage keeps the configured default; Unbounded puts everything on page 1.
type BrowseRequest struct {
	Source     string
	Page       int
	MaxPerPage *int
	Unbounded  bool
}

// SourceInfo describes a registered source.
type SourceInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// BrowseService defines the paging use cases.
type BrowseService interface {
	Browse(ctx context.Context, req BrowseRequest) (pager.Page[any], error)
	Sources() []SourceInfo
}
