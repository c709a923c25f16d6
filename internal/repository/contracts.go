package repository

import (
	"context"
)

// Pinger represents a minimal readiness probe capability.
// I use it to check every backend a source needs before paging through it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for adapters that support it.
// Running a pager's count and slice inside one transaction gives them a single snapshot.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}
