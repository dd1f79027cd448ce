package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle threaded through repository calls.
// The concrete type is infra-defined (pgx.Tx for Postgres). Repositories
// accept nil for the non-transactional path.
type Tx interface{}

// NoTX is passed where a call intentionally runs outside any transaction.
var NoTX Tx

// TransactionManager executes a function within a database transaction,
// passing the transaction handle to repositories via tx. Keeps use-case
// signatures free of storage types while still allowing
// SELECT ... FOR UPDATE inside the callback.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
