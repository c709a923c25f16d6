package pager

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/rs/zerolog"
)

// Paginator is the offset-based Pager over an Adapter.
// It is not safe for concurrent mutation; callers serialize access to one instance.
type Paginator[T any] struct {
	adapter     Adapter[T]
	currentPage int
	maxPerPage  *int // nil means unbounded
	policy      OutOfRangePolicy
	log         zerolog.Logger

	// total is read once from the adapter and reused until Refresh.
	total *int
}

// New builds a Paginator. Without options it starts on page 1 with DefaultMaxPerPage
// items per page and the OutOfRangeAllow policy.
func New[T any](adapter Adapter[T], opts ...Option) (*Paginator[T], error) {
	if adapter == nil {
		return nil, invalidArgument("adapter", nil, "is required")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.errs) > 0 {
		return nil, errors.Join(o.errs...)
	}
	return &Paginator[T]{
		adapter:     adapter,
		currentPage: o.currentPage,
		maxPerPage:  o.maxPerPage,
		policy:      o.policy,
		log:         o.logger,
	}, nil
}

// Refresh forgets the memoized total so the next read asks the adapter again.
func (p *Paginator[T]) Refresh() { p.total = nil }

func (p *Paginator[T]) TotalResults(ctx context.Context) (int, error) {
	if p.total != nil {
		return *p.total, nil
	}
	start := time.Now()
	n, err := p.adapter.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("count results: adapter reported negative total %d", n)
	}
	p.log.Debug().Int("total_results", n).Dur("took", time.Since(start)).Msg("adapter counted results")
	p.total = &n
	return n, nil
}

func (p *Paginator[T]) TotalPages(ctx context.Context) (int, error) {
	total, err := p.TotalResults(ctx)
	if err != nil {
		return 0, err
	}
	return pageCount(total, p.maxPerPage), nil
}

func (p *Paginator[T]) HaveToPaginate(ctx context.Context) (bool, error) {
	pages, err := p.TotalPages(ctx)
	if err != nil {
		return false, err
	}
	return pages >= 2, nil
}

func (p *Paginator[T]) CurrentPageResults(ctx context.Context) ([]T, error) {
	total, err := p.TotalResults(ctx)
	if err != nil {
		return nil, err
	}
	if p.currentPage > pageCount(total, p.maxPerPage) {
		// covers the empty data set too: zero pages
		return []T{}, nil
	}

	offset, length := 0, total
	if p.maxPerPage != nil {
		offset = (p.currentPage - 1) * *p.maxPerPage
		length = *p.maxPerPage
	}

	start := time.Now()
	items, err := p.adapter.Slice(ctx, offset, length)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", p.currentPage, err)
	}
	p.log.Debug().
		Int("page", p.currentPage).
		Int("offset", offset).
		Int("length", length).
		Int("items", len(items)).
		Dur("took", time.Since(start)).
		Msg("adapter fetched page")
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (p *Paginator[T]) HasPreviousPage() bool { return p.currentPage > 1 }

func (p *Paginator[T]) PreviousPage() *int {
	if !p.HasPreviousPage() {
		return nil
	}
	return Int(p.currentPage - 1)
}

func (p *Paginator[T]) HasNextPage(ctx context.Context) (bool, error) {
	pages, err := p.TotalPages(ctx)
	if err != nil {
		return false, err
	}
	return p.currentPage < pages, nil
}

func (p *Paginator[T]) NextPage(ctx context.Context) (*int, error) {
	ok, err := p.HasNextPage(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return Int(p.currentPage + 1), nil
}

func (p *Paginator[T]) CurrentPage() int { return p.currentPage }

// SetCurrentPage validates page and applies the out-of-range policy.
// Only the reject and clamp policies read the total from the adapter.
func (p *Paginator[T]) SetCurrentPage(ctx context.Context, page int) error {
	if page < 1 {
		return invalidArgument("current_page", page, "must be >= 1")
	}
	if p.policy == OutOfRangeAllow {
		p.currentPage = page
		return nil
	}

	pages, err := p.TotalPages(ctx)
	if err != nil {
		return err
	}
	last := max(pages, 1)
	if page > last {
		if p.policy == OutOfRangeReject {
			return outOfRange(page, last)
		}
		p.log.Debug().Int("requested", page).Int("clamped_to", last).Msg("current page clamped")
		page = last
	}
	p.currentPage = page
	return nil
}

func (p *Paginator[T]) MaxPerPage() *int {
	if p.maxPerPage == nil {
		return nil
	}
	return Int(*p.maxPerPage)
}

func (p *Paginator[T]) SetMaxPerPage(maxPerPage *int) error {
	if maxPerPage == nil {
		p.maxPerPage = nil
		return nil
	}
	if *maxPerPage < 1 {
		return invalidArgument("max_per_page", *maxPerPage, "must be >= 1")
	}
	p.maxPerPage = Int(*maxPerPage)
	return nil
}

// Len is the number of items on the current page, not the total.
func (p *Paginator[T]) Len(ctx context.Context) (int, error) {
	items, err := p.CurrentPageResults(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Items yields the current page in order. A failed read yields a single zero item with the error.
func (p *Paginator[T]) Items(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		items, err := p.CurrentPageResults(ctx)
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		for _, it := range items {
			if !yield(it, nil) {
				return
			}
		}
	}
}

func (p *Paginator[T]) Export(ctx context.Context) (Page[T], error) {
	total, err := p.TotalResults(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	pages, err := p.TotalPages(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	next, err := p.NextPage(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	items, err := p.CurrentPageResults(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{
		CurrentPage:  p.CurrentPage(),
		MaxPerPage:   p.MaxPerPage(),
		TotalPages:   pages,
		TotalResults: total,
		PreviousPage: p.PreviousPage(),
		NextPage:     next,
		Items:        items,
	}, nil
}

// pageCount is ceil(total/maxPerPage); an unbounded size gives one page, no results give zero.
// Any maxPerPage >= 1 is valid, up to math.MaxInt, so the rounding must not add to total.
func pageCount(total int, maxPerPage *int) int {
	if total <= 0 {
		return 0
	}
	if maxPerPage == nil {
		return 1
	}
	pages := total / *maxPerPage
	if total%*maxPerPage != 0 {
		pages++
	}
	return pages
}

var _ Pager[any] = (*Paginator[any])(nil)
