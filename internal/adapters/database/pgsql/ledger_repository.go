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
)

type ledgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new repository for ledger entries.
func NewLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &ledgerRepository{pool: pool}
}

const ledgerColumns = `
	entry_id, account_id, amount, payment_mode,
	beneficiary_name, beneficiary_account_number, beneficiary_routing_code,
	status, reference_number, gateway_transaction_id, settlement_id,
	remark, request_snapshot, response_snapshot, created_at, last_updated_at
`

// SaveEntry persists a new entry; entries start in PENDING with their
// request snapshot and are never deleted.
func (r *ledgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (
			entry_id, account_id, amount, payment_mode,
			beneficiary_name, beneficiary_account_number, beneficiary_routing_code,
			status, reference_number, remark, request_snapshot, created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		entry.EntryID,
		entry.AccountID,
		entry.Amount,
		entry.Mode,
		entry.BeneficiaryName,
		entry.BeneficiaryAccountNumber,
		entry.BeneficiaryRoutingCode,
		entry.Status,
		entry.ReferenceNumber,
		entry.Remark,
		entry.RequestSnapshot,
		entry.CreatedAt,
		entry.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save ledger entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// MarkEntrySuccessTx flips the entry to SUCCESS within the transaction.
// The status guard makes the transition monotonic: a terminal entry is
// never updated again.
func (r *ledgerRepository) MarkEntrySuccessTx(ctx context.Context, tx pgx.Tx, entryID, gatewayTxnID, settlementID string, response []byte, now time.Time) error {
	query := `
		UPDATE ledger_entries
		SET status = $2, gateway_transaction_id = $3, settlement_id = $4,
		    response_snapshot = $5, last_updated_at = $6
		WHERE entry_id = $1 AND status = $7;
	`
	tag, err := tx.Exec(ctx, query, entryID, domain.PaymentSuccess, gatewayTxnID, settlementID, response, now, domain.PaymentPending)
	if err != nil {
		return fmt.Errorf("failed to mark ledger entry %s successful: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ledger entry %s", apperrors.ErrTerminalState, entryID)
	}
	return nil
}

// MarkEntryFailed flips the entry to FAILED with the error remark; the
// same monotonicity guard applies.
func (r *ledgerRepository) MarkEntryFailed(ctx context.Context, entryID, remark string, response []byte, now time.Time) error {
	query := `
		UPDATE ledger_entries
		SET status = $2, remark = $3, response_snapshot = $4, last_updated_at = $5
		WHERE entry_id = $1 AND status = $6;
	`
	tag, err := r.pool.Exec(ctx, query, entryID, domain.PaymentFailed, remark, response, now, domain.PaymentPending)
	if err != nil {
		return fmt.Errorf("failed to mark ledger entry %s failed: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ledger entry %s", apperrors.ErrTerminalState, entryID)
	}
	return nil
}

// MarkEntryReconciliation flips the entry to NEEDS_RECONCILIATION,
// recording the gateway identifiers for manual settlement. The PENDING
// guard keeps the transition monotonic.
func (r *ledgerRepository) MarkEntryReconciliation(ctx context.Context, entryID, gatewayTxnID, settlementID string, response []byte, remark string, now time.Time) error {
	query := `
		UPDATE ledger_entries
		SET status = $2, gateway_transaction_id = $3, settlement_id = $4,
		    response_snapshot = $5, remark = $6, last_updated_at = $7
		WHERE entry_id = $1 AND status = $8;
	`
	tag, err := r.pool.Exec(ctx, query, entryID, domain.PaymentReconcile, gatewayTxnID, settlementID, response, remark, now, domain.PaymentPending)
	if err != nil {
		return fmt.Errorf("failed to flag ledger entry %s for reconciliation: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ledger entry %s", apperrors.ErrTerminalState, entryID)
	}
	return nil
}

// FindEntryByID retrieves an entry scoped to the owning account.
func (r *ledgerRepository) FindEntryByID(ctx context.Context, accountID, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE entry_id = $1 AND account_id = $2;`
	row := r.pool.QueryRow(ctx, query, entryID, accountID)
	entry, err := scanLedgerEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListEntriesByAccount retrieves entries for an account, newest first.
func (r *ledgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}

// scanLedgerEntry scans one row into a domain.LedgerEntry, handling the
// nullable gateway response fields.
func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	var gatewayTxnID, settlementID, remark *string
	var requestSnapshot, responseSnapshot []byte

	err := row.Scan(
		&entry.EntryID,
		&entry.AccountID,
		&entry.Amount,
		&entry.Mode,
		&entry.BeneficiaryName,
		&entry.BeneficiaryAccountNumber,
		&entry.BeneficiaryRoutingCode,
		&entry.Status,
		&entry.ReferenceNumber,
		&gatewayTxnID,
		&settlementID,
		&remark,
		&requestSnapshot,
		&responseSnapshot,
		&entry.CreatedAt,
		&entry.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if gatewayTxnID != nil {
		entry.GatewayTransactionID = *gatewayTxnID
	}
	if settlementID != nil {
		entry.SettlementID = *settlementID
	}
	if remark != nil {
		entry.Remark = *remark
	}
	entry.RequestSnapshot = requestSnapshot
	entry.ResponseSnapshot = responseSnapshot
	return &entry, nil
}
