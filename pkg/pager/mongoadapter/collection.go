// Package mongoadapter pages over a MongoDB collection.
package mongoadapter

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/maxviazov/pager/pkg/pager"
)

// CollectionAdapter counts with CountDocuments and reads windows with skip/limit.
// Without an explicit sort the natural order is not stable across pages, so _id
// ascending is used.
type CollectionAdapter[T any] struct {
	coll   *mongo.Collection
	filter any
	sort   any
}

// Option tunes a CollectionAdapter.
type Option func(*settings)

type settings struct {
	filter any
	sort   any
}

// WithFilter restricts both the count and the windows to matching documents.
func WithFilter(filter any) Option { return func(s *settings) { s.filter = filter } }

// WithSort orders documents; use a bson.D so key order is kept.
func WithSort(sort any) Option { return func(s *settings) { s.sort = sort } }

func NewCollectionAdapter[T any](coll *mongo.Collection, opts ...Option) (*CollectionAdapter[T], error) {
	if coll == nil {
		return nil, errors.New("mongo collection is required")
	}
	s := settings{filter: bson.D{}, sort: bson.D{{Key: "_id", Value: 1}}}
	for _, opt := range opts {
		opt(&s)
	}
	return &CollectionAdapter[T]{coll: coll, filter: s.filter, sort: s.sort}, nil
}

func (a *CollectionAdapter[T]) Count(ctx context.Context) (int, error) {
	n, err := a.coll.CountDocuments(ctx, a.filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", a.coll.Name(), err)
	}
	return int(n), nil
}

func (a *CollectionAdapter[T]) Slice(ctx context.Context, offset, length int) ([]T, error) {
	if offset < 0 || length <= 0 {
		return nil, fmt.Errorf("invalid window offset=%d length=%d", offset, length)
	}
	opts := options.Find().
		SetSort(a.sort).
		SetSkip(int64(offset)).
		SetLimit(int64(length))

	cur, err := a.coll.Find(ctx, a.filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", a.coll.Name(), err)
	}
	out := make([]T, 0, length)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.coll.Name(), err)
	}
	return out, nil
}

var _ pager.Adapter[bson.M] = (*CollectionAdapter[bson.M])(nil)
