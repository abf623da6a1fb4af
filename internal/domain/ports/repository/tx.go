package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle. The concrete type is infra-defined
// (pgx.Tx for Postgres); repositories accept nil for the non-transactional path.
type Tx interface{}

// TransactionManager executes a function inside a database transaction,
// passing the transaction handle through so repositories called inside the
// callback share one atomic unit. Use-case interfaces stay free of driver
// types; only the infra layer knows what Tx really is.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
