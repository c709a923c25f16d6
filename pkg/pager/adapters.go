package pager

import (
	"context"
	"errors"
	"fmt"
)

// SliceAdapter pages over an in-memory slice. The slice is not copied.
type SliceAdapter[T any] struct {
	items []T
}

func NewSliceAdapter[T any](items []T) *SliceAdapter[T] {
	return &SliceAdapter[T]{items: items}
}

func (a *SliceAdapter[T]) Count(_ context.Context) (int, error) { return len(a.items), nil }

func (a *SliceAdapter[T]) Slice(_ context.Context, offset, length int) ([]T, error) {
	if offset < 0 || length < 0 {
		return nil, fmt.Errorf("slice adapter: negative window offset=%d length=%d", offset, length)
	}
	if offset >= len(a.items) {
		return []T{}, nil
	}
	end := len(a.items)
	if length < end-offset {
		end = offset + length
	}
	return a.items[offset:end:end], nil
}

// CountFunc reports the size of a data set.
type CountFunc func(ctx context.Context) (int, error)

// SliceFunc fetches a window of a data set.
type SliceFunc[T any] func(ctx context.Context, offset, length int) ([]T, error)

// CallbackAdapter turns a pair of functions into an Adapter.
type CallbackAdapter[T any] struct {
	count CountFunc
	slice SliceFunc[T]
}

func NewCallbackAdapter[T any](count CountFunc, slice SliceFunc[T]) (*CallbackAdapter[T], error) {
	if count == nil || slice == nil {
		return nil, errors.New("callback adapter: count and slice functions are required")
	}
	return &CallbackAdapter[T]{count: count, slice: slice}, nil
}

func (a *CallbackAdapter[T]) Count(ctx context.Context) (int, error) { return a.count(ctx) }

func (a *CallbackAdapter[T]) Slice(ctx context.Context, offset, length int) ([]T, error) {
	return a.slice(ctx, offset, length)
}

type transformAdapter[T, U any] struct {
	src Adapter[T]
	fn  func(T) (U, error)
}

// Transform maps every item of src through fn. Counts pass through untouched.
func Transform[T, U any](src Adapter[T], fn func(T) (U, error)) Adapter[U] {
	return &transformAdapter[T, U]{src: src, fn: fn}
}

func (a *transformAdapter[T, U]) Count(ctx context.Context) (int, error) { return a.src.Count(ctx) }

func (a *transformAdapter[T, U]) Slice(ctx context.Context, offset, length int) ([]U, error) {
	in, err := a.src.Slice(ctx, offset, length)
	if err != nil {
		return nil, err
	}
	out := make([]U, 0, len(in))
	for i, v := range in {
		u, err := a.fn(v)
		if err != nil {
			return nil, fmt.Errorf("transform item %d: %w", offset+i, err)
		}
		out = append(out, u)
	}
	return out, nil
}

var (
	_ Adapter[int] = (*SliceAdapter[int])(nil)
	_ Adapter[int] = (*CallbackAdapter[int])(nil)
)
