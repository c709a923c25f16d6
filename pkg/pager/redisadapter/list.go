// Package redisadapter pages over Redis lists with go-redis.
package redisadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/maxviazov/pager/pkg/pager"
)

// Decoder turns one raw list element into an item.
type Decoder[T any] func(raw string) (T, error)

// StringDecoder returns elements as they are stored.
func StringDecoder(raw string) (string, error) { return raw, nil }

// JSONDecoder unmarshals every element into T.
func JSONDecoder[T any]() Decoder[T] {
	return func(raw string) (T, error) {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return v, fmt.Errorf("decode list element: %w", err)
		}
		return v, nil
	}
}

// ListAdapter reads a Redis list: LLEN for the total, LRANGE for a window.
// A missing key is an empty list.
type ListAdapter[T any] struct {
	rc     redis.Cmdable
	key    string
	decode Decoder[T]
}

func NewListAdapter[T any](rc redis.Cmdable, key string, decode Decoder[T]) (*ListAdapter[T], error) {
	if rc == nil {
		return nil, errors.New("redis client is required")
	}
	if key == "" {
		return nil, errors.New("redis list key is required")
	}
	if decode == nil {
		return nil, errors.New("decoder is required")
	}
	return &ListAdapter[T]{rc: rc, key: key, decode: decode}, nil
}

func (a *ListAdapter[T]) Count(ctx context.Context) (int, error) {
	n, err := a.rc.LLen(ctx, a.key).Result()
	if err != nil {
		return 0, fmt.Errorf("llen %s: %w", a.key, err)
	}
	return int(n), nil
}

func (a *ListAdapter[T]) Slice(ctx context.Context, offset, length int) ([]T, error) {
	if offset < 0 || length <= 0 {
		return nil, fmt.Errorf("invalid window offset=%d length=%d", offset, length)
	}
	// LRANGE stop is inclusive; -1 reads to the end when the window would overflow
	stop := int64(offset) + int64(length) - 1
	if stop < int64(offset) {
		stop = -1
	}
	raw, err := a.rc.LRange(ctx, a.key, int64(offset), stop).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", a.key, err)
	}
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		v, err := a.decode(r)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", a.key, offset+i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

var _ pager.Adapter[string] = (*ListAdapter[string])(nil)
