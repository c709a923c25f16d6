// Package postgres implements pager adapters on top of pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/pager/internal/repository"
	"github.com/maxviazov/pager/pkg/pager"
)

// QueryAdapter pages over the rows of a SELECT.
// The query should carry its own ORDER BY; without one Postgres gives no stable
// order and pages may overlap.
type QueryAdapter[T any] struct {
	pool  *pgxpool.Pool
	query string
	args  []any
	scan  pgx.RowToFunc[T]
}

// NewQueryAdapter wraps query. args bind to $1..$n in query; the adapter appends
// its own LIMIT and OFFSET placeholders after them.
func NewQueryAdapter[T any](pool *pgxpool.Pool, query string, scan pgx.RowToFunc[T], args ...any) (*QueryAdapter[T], error) {
	if err := ensurePool(pool); err != nil {
		return nil, err
	}
	if scan == nil {
		return nil, errors.New("row scanner is required")
	}
	query = normalizeQuery(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", repository.ErrInvalidQuery)
	}
	return &QueryAdapter[T]{pool: pool, query: query, args: args, scan: scan}, nil
}

// NewMapQueryAdapter returns rows as column-name maps.
func NewMapQueryAdapter(pool *pgxpool.Pool, query string, args ...any) (*QueryAdapter[map[string]any], error) {
	return NewQueryAdapter(pool, query, pgx.RowToMap, args...)
}

func normalizeQuery(query string) string {
	return strings.TrimRight(strings.TrimSpace(query), "; \t\n")
}

func (a *QueryAdapter[T]) countSQL() string {
	return "SELECT COUNT(*) FROM (" + a.query + ") AS paged"
}

func (a *QueryAdapter[T]) sliceSQL() string {
	n := len(a.args)
	return fmt.Sprintf("%s LIMIT $%d OFFSET $%d", a.query, n+1, n+2)
}

func (a *QueryAdapter[T]) Count(ctx context.Context) (int, error) {
	var total int64
	if err := getQ(ctx, a.pool).QueryRow(ctx, a.countSQL(), a.args...).Scan(&total); err != nil {
		return 0, repository.MapPgError(err)
	}
	return int(total), nil
}

func (a *QueryAdapter[T]) Slice(ctx context.Context, offset, length int) ([]T, error) {
	if offset < 0 || length <= 0 {
		return nil, fmt.Errorf("invalid window offset=%d length=%d", offset, length)
	}
	args := make([]any, 0, len(a.args)+2)
	args = append(args, a.args...)
	args = append(args, length, offset)

	rows, err := getQ(ctx, a.pool).Query(ctx, a.sliceSQL(), args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	items, err := pgx.CollectRows(rows, a.scan)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return items, nil
}

var _ pager.Adapter[map[string]any] = (*QueryAdapter[map[string]any])(nil)
