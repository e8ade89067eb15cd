package repositories

import (
	"context"
	"time"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountTransactionSupport defines balance operations that must run
// inside an enclosing database transaction.
type AccountTransactionSupport interface {
	// DebitBalanceTx decrements the account balance by amount within the
	// given transaction. Returns apperrors.ErrInsufficientBalance if the
	// balance would go negative.
	DebitBalanceTx(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, now time.Time) error
}

// AccountRepository combines all account-related repository interfaces.
type AccountRepository interface {
	AccountReader
	AccountTransactionSupport
}
