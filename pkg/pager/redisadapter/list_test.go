package redisadapter_test

import (
	"context"
	"math"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/pager/internal/repository/contract"
	"github.com/maxviazov/pager/pkg/pager"
	"github.com/maxviazov/pager/pkg/pager/redisadapter"
)

// setupMiniRedis starts an in-process Redis and a client pointed at it.
func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rc.Close()
		mr.Close()
	})
	return mr, rc
}

func TestListAdapter_Contract(t *testing.T) {
	contract.RunAdapterContract(t, func(t *testing.T, items []string) (pager.Adapter[string], func()) {
		mr, rc := setupMiniRedis(t)
		if len(items) > 0 {
			if _, err := mr.RPush("items", items...); err != nil {
				t.Fatalf("seed failed: %v", err)
			}
		}
		a, err := redisadapter.NewListAdapter(rc, "items", redisadapter.StringDecoder)
		if err != nil {
			t.Fatalf("new adapter: %v", err)
		}
		return a, func() {}
	})
}

type event struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"`
}

func TestListAdapter_JSONDecoder(t *testing.T) {
	mr, rc := setupMiniRedis(t)
	_, err := mr.RPush("events", `{"id":1,"kind":"a"}`, `{"id":2,"kind":"b"}`, `{"id":3,"kind":"c"}`)
	require.NoError(t, err)

	a, err := redisadapter.NewListAdapter(rc, "events", redisadapter.JSONDecoder[event]())
	require.NoError(t, err)

	p, err := pager.New[event](a, pager.WithMaxPerPage(2), pager.WithCurrentPage(2))
	require.NoError(t, err)
	page, err := p.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalResults)
	assert.Equal(t, []event{{ID: 3, Kind: "c"}}, page.Items)
}

func TestListAdapter_HugeWindow(t *testing.T) {
	mr, rc := setupMiniRedis(t)
	_, err := mr.RPush("items", "a", "b", "c")
	require.NoError(t, err)
	a, err := redisadapter.NewListAdapter(rc, "items", redisadapter.StringDecoder)
	require.NoError(t, err)

	got, err := a.Slice(context.Background(), 1, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, got)
}

func TestListAdapter_BadElement(t *testing.T) {
	mr, rc := setupMiniRedis(t)
	_, err := mr.RPush("events", `{"id":1}`, `not json`)
	require.NoError(t, err)

	a, err := redisadapter.NewListAdapter(rc, "events", redisadapter.JSONDecoder[event]())
	require.NoError(t, err)
	_, err = a.Slice(context.Background(), 0, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "events[1]")
}

func TestListAdapter_ServerDown(t *testing.T) {
	mr, rc := setupMiniRedis(t)
	a, err := redisadapter.NewListAdapter(rc, "items", redisadapter.StringDecoder)
	require.NoError(t, err)
	mr.Close()

	_, err = a.Count(context.Background())
	assert.Error(t, err)
}

func TestNewListAdapter_Validation(t *testing.T) {
	_, rc := setupMiniRedis(t)
	_, err := redisadapter.NewListAdapter[string](nil, "k", redisadapter.StringDecoder)
	assert.Error(t, err)
	_, err = redisadapter.NewListAdapter(rc, "", redisadapter.StringDecoder)
	assert.Error(t, err)
	_, err = redisadapter.NewListAdapter[string](rc, "k", nil)
	assert.Error(t, err)
}
