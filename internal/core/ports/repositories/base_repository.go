package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor runs a function inside a single database transaction,
// committing on nil return and rolling back otherwise. It is how the
// ledger SUCCESS update and the balance debit are made one logical unit.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}
