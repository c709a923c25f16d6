// Package pager pages through an arbitrary data source.
// A Pager holds two pieces of configuration, the current page and the page size,
// and derives everything else (counts, navigation, the page slice) from an Adapter.
package pager

import (
	"context"
	"iter"
)

// Adapter is the data source a pager reads from.
// Implementations decide how totals are computed and how slices are fetched.
type Adapter[T any] interface {
	// Count returns the number of items in the whole data set.
	Count(ctx context.Context) (int, error)
	// Slice returns up to length items starting at the zero-based offset.
	// Pagers never call it with length <= 0.
	Slice(ctx context.Context, offset, length int) ([]T, error)
}

// Countable reports the number of items on the current page.
type Countable interface {
	Len(ctx context.Context) (int, error)
}

// Iterable yields the current page's items in order.
// Each call to Items reads the page again, so the sequence can be restarted.
type Iterable[T any] interface {
	Items(ctx context.Context) iter.Seq2[T, error]
}

// Exporter produces a structured snapshot of the pager suitable for encoding.
type Exporter[T any] interface {
	Export(ctx context.Context) (Page[T], error)
}

// Pager is the operation set every pagination implementation exposes.
// Methods that may query the adapter take a context and return an error.
type Pager[T any] interface {
	Countable
	Iterable[T]
	Exporter[T]

	CurrentPageResults(ctx context.Context) ([]T, error)
	TotalResults(ctx context.Context) (int, error)
	TotalPages(ctx context.Context) (int, error)
	// HaveToPaginate is true when there are two or more pages.
	HaveToPaginate(ctx context.Context) (bool, error)

	HasPreviousPage() bool
	// PreviousPage returns nil on the first page.
	PreviousPage() *int
	HasNextPage(ctx context.Context) (bool, error)
	// NextPage returns nil on the last page.
	NextPage(ctx context.Context) (*int, error)

	// CurrentPage defaults to 1.
	CurrentPage() int
	// SetCurrentPage fails with ErrInvalidArgument when page < 1.
	SetCurrentPage(ctx context.Context, page int) error
	// MaxPerPage returns nil when the page size is unbounded.
	MaxPerPage() *int
	// SetMaxPerPage fails with ErrInvalidArgument when maxPerPage is non-nil and < 1.
	// A nil value puts every result on page 1.
	SetMaxPerPage(maxPerPage *int) error
}

// Int returns a pointer to n, handy for SetMaxPerPage.
func Int(n int) *int { return &n }
