// Package contract holds behavior suites every pager.Adapter must pass.
// Storage-specific tests supply a factory that seeds the given items, in order,
// and the suites check counting, windowing and paging end to end.
package contract

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/maxviazov/pager/pkg/pager"
)

// AdapterFactory seeds items into a fresh data source and returns an adapter over it
// plus a cleanup func.
type AdapterFactory func(t *testing.T, items []string) (pager.Adapter[string], func())

func seed(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item-%03d", i+1)
	}
	return out
}

func RunAdapterContract(t *testing.T, makeAdapter AdapterFactory) {
	t.Helper()

	t.Run("count_empty", func(t *testing.T) {
		a, cleanup := makeAdapter(t, nil)
		t.Cleanup(cleanup)
		n, err := a.Count(context.Background())
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if n != 0 {
			t.Fatalf("expected 0, got %d", n)
		}
	})

	t.Run("count_and_windows", func(t *testing.T) {
		items := seed(7)
		a, cleanup := makeAdapter(t, items)
		t.Cleanup(cleanup)
		ctx := context.Background()

		n, err := a.Count(ctx)
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if n != 7 {
			t.Fatalf("expected 7, got %d", n)
		}

		windows := []struct{ offset, length int }{{0, 3}, {3, 3}, {6, 3}, {0, 7}, {2, 1}}
		for _, w := range windows {
			got, err := a.Slice(ctx, w.offset, w.length)
			if err != nil {
				t.Fatalf("slice(%d,%d) failed: %v", w.offset, w.length, err)
			}
			want := items[w.offset:min(w.offset+w.length, len(items))]
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("slice(%d,%d) mismatch (-want +got):\n%s", w.offset, w.length, diff)
			}
		}
	})

	t.Run("slice_past_end", func(t *testing.T) {
		a, cleanup := makeAdapter(t, seed(3))
		t.Cleanup(cleanup)
		got, err := a.Slice(context.Background(), 3, 5)
		if err != nil {
			t.Fatalf("slice failed: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no items past the end, got %v", got)
		}
	})

	t.Run("pager_walks_every_page", func(t *testing.T) {
		items := seed(23)
		a, cleanup := makeAdapter(t, items)
		t.Cleanup(cleanup)
		ctx := context.Background()

		p, err := pager.New(a, pager.WithMaxPerPage(5), pager.WithOutOfRangePolicy(pager.OutOfRangeReject))
		if err != nil {
			t.Fatalf("new pager: %v", err)
		}
		pages, err := p.TotalPages(ctx)
		if err != nil {
			t.Fatalf("total pages: %v", err)
		}
		if pages != 5 {
			t.Fatalf("expected 5 pages, got %d", pages)
		}

		var all []string
		for {
			res, err := p.CurrentPageResults(ctx)
			if err != nil {
				t.Fatalf("page %d: %v", p.CurrentPage(), err)
			}
			all = append(all, res...)
			next, err := p.NextPage(ctx)
			if err != nil {
				t.Fatalf("next page: %v", err)
			}
			if next == nil {
				break
			}
			if err := p.SetCurrentPage(ctx, *next); err != nil {
				t.Fatalf("set page %d: %v", *next, err)
			}
		}
		if diff := cmp.Diff(items, all); diff != "" {
			t.Fatalf("walked items mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("pager_unbounded", func(t *testing.T) {
		items := seed(12)
		a, cleanup := makeAdapter(t, items)
		t.Cleanup(cleanup)

		p, err := pager.New(a, pager.WithUnboundedMaxPerPage())
		if err != nil {
			t.Fatalf("new pager: %v", err)
		}
		page, err := p.Export(context.Background())
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		if page.TotalPages != 1 || page.NextPage != nil {
			t.Fatalf("unexpected navigation: %+v", page)
		}
		if diff := cmp.Diff(items, page.Items); diff != "" {
			t.Fatalf("unbounded items mismatch (-want +got):\n%s", diff)
		}
	})
}
