package repository

import (
	"context"
)

type Tx interface{}

// TransactionManager executes a function inside a database transaction,
// passing the underlying transaction handle via `qx`.
//
// Repository methods accept `qx any`; a nil qx means the non-transactional
// path. The concrete type of the handle is infra-defined (pgx.Tx for
// Postgres).
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
