package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finkit/bulk_payout_app/internal/apperrors"
	"github.com/finkit/bulk_payout_app/internal/core/domain"
	portsrepo "github.com/finkit/bulk_payout_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &accountRepository{pool: pool}
}

// FindAccountByID retrieves an account by its ID.
func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, name, balance, is_active, created_at, last_updated_at
		FROM accounts
		WHERE account_id = $1;
	`
	var acc domain.Account
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&acc.AccountID,
		&acc.Name,
		&acc.Balance,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

// DebitBalanceTx decrements the balance within the given transaction.
// The guard in the WHERE clause keeps the balance from going negative
// even under concurrent executors for different tasks on one account.
func (r *accountRepository) DebitBalanceTx(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = balance - $2, last_updated_at = $3
		WHERE account_id = $1 AND balance >= $2;
	`
	tag, err := tx.Exec(ctx, query, accountID, amount, now)
	if err != nil {
		return fmt.Errorf("failed to debit account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1)`, accountID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check account %s: %w", accountID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: account %s cannot cover %s", apperrors.ErrInsufficientBalance, accountID, amount.String())
	}
	return nil
}
