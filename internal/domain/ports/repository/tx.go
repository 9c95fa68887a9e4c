package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle passed through use cases into
// repositories. The concrete type is infra-defined (pgx.Tx for Postgres).
// Repositories must gracefully accept nil (non-transactional path).
type Tx interface{}

// NoTX marks the non-transactional call path.
var NoTX Tx

// TransactionManager executes a function within a database transaction,
// passing the underlying handle via tx. Keeps use-case interfaces clean of
// storage types while still allowing SELECT ... FOR UPDATE and conditional
// updates to share one transaction.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
