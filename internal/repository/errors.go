package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Errors surfaced by SQL-backed adapters.
var (
	// ErrInvalidQuery means the configured SELECT cannot run: bad syntax, unknown table or column.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrReadOnly means the query tried to write inside a read-only snapshot.
	ErrReadOnly = errors.New("query attempted a write")
)

// MapPgError translates the Postgres error codes a paged SELECT can hit to domain errors.
// I only map what callers handle explicitly; everything else passes through.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SyntaxError,
			pgerrcode.UndefinedTable,
			pgerrcode.UndefinedColumn,
			pgerrcode.UndefinedFunction,
			pgerrcode.AmbiguousColumn:
			return errors.Join(ErrInvalidQuery, err)
		case pgerrcode.ReadOnlySQLTransaction:
			return errors.Join(ErrReadOnly, err)
		}
	}
	return err
}
