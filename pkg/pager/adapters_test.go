package pager_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/pager/internal/repository/contract"
	"github.com/maxviazov/pager/pkg/pager"
)

func TestSliceAdapter_Contract(t *testing.T) {
	contract.RunAdapterContract(t, func(t *testing.T, items []string) (pager.Adapter[string], func()) {
		return pager.NewSliceAdapter(items), func() {}
	})
}

func TestSliceAdapter_Windows(t *testing.T) {
	a := pager.NewSliceAdapter([]int{1, 2, 3, 4, 5})
	ctx := context.Background()

	cases := []struct {
		name           string
		offset, length int
		want           []int
	}{
		{"head", 0, 2, []int{1, 2}},
		{"middle", 2, 2, []int{3, 4}},
		{"short tail", 4, 10, []int{5}},
		{"past end", 5, 3, []int{}},
		{"huge length", 0, math.MaxInt, []int{1, 2, 3, 4, 5}},
		{"huge length from middle", 3, math.MaxInt, []int{4, 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := a.Slice(ctx, tc.offset, tc.length)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := a.Slice(ctx, -1, 2)
	assert.Error(t, err)
}

func TestSliceAdapter_WindowDoesNotAliasTail(t *testing.T) {
	src := []int{1, 2, 3, 4}
	got, err := pager.NewSliceAdapter(src).Slice(context.Background(), 0, 2)
	require.NoError(t, err)
	got = append(got, 99)
	assert.Equal(t, []int{1, 2, 3, 4}, src)
	assert.Equal(t, []int{1, 2, 99}, got)
}

func TestCallbackAdapter(t *testing.T) {
	_, err := pager.NewCallbackAdapter[int](nil, nil)
	require.Error(t, err)

	a, err := pager.NewCallbackAdapter(
		func(context.Context) (int, error) { return 100, nil },
		func(_ context.Context, offset, length int) ([]int, error) {
			out := make([]int, 0, length)
			for i := offset; i < offset+length && i < 100; i++ {
				out = append(out, i*i)
			}
			return out, nil
		},
	)
	require.NoError(t, err)

	p, err := pager.New[int](a, pager.WithMaxPerPage(3), pager.WithCurrentPage(2))
	require.NoError(t, err)
	items, err := p.CurrentPageResults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{9, 16, 25}, items)
}

func TestTransform(t *testing.T) {
	ctx := context.Background()
	src := pager.NewSliceAdapter([]int{1, 2, 3})

	a := pager.Transform(src, func(n int) (string, error) { return "#" + strconv.Itoa(n), nil })
	total, err := a.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	got, err := a.Slice(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"#2", "#3"}, got)

	bad := errors.New("odd")
	failing := pager.Transform(src, func(n int) (int, error) {
		if n%2 == 1 {
			return 0, bad
		}
		return n, nil
	})
	_, err = failing.Slice(ctx, 2, 1)
	assert.ErrorIs(t, err, bad)
	assert.Contains(t, err.Error(), "item 2")
}

func ExamplePaginator() {
	ctx := context.Background()
	items := make([]string, 25)
	for i := range items {
		items[i] = fmt.Sprintf("item-%02d", i+1)
	}

	p, _ := pager.New[string](pager.NewSliceAdapter(items), pager.WithMaxPerPage(10))
	_ = p.SetCurrentPage(ctx, 3)

	pages, _ := p.TotalPages(ctx)
	next, _ := p.NextPage(ctx)
	results, _ := p.CurrentPageResults(ctx)
	fmt.Println(pages, *p.PreviousPage(), next == nil)
	fmt.Println(results)
	// Output:
	// 3 2 true
	// [item-21 item-22 item-23 item-24 item-25]
}
