package repositories

import (
	"context"
	"time"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LedgerReader defines read operations for ledger entries.
type LedgerReader interface {
	// FindEntryByID retrieves a ledger entry scoped to the owning account.
	FindEntryByID(ctx context.Context, accountID, entryID string) (*domain.LedgerEntry, error)

	// ListEntriesByAccount retrieves entries for an account, newest first.
	ListEntriesByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.LedgerEntry, error)
}

// LedgerWriter defines write operations for ledger entries. Entry status
// is monotonic: the Mark methods only apply to entries still in PENDING
// and return apperrors.ErrTerminalState otherwise.
type LedgerWriter interface {
	// SaveEntry persists a new entry in PENDING with its request snapshot.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) error

	// MarkEntrySuccessTx flips the entry to SUCCESS within the given
	// transaction, copying the gateway-returned identifiers and response.
	MarkEntrySuccessTx(ctx context.Context, tx pgx.Tx, entryID string, gatewayTxnID, settlementID string, response []byte, now time.Time) error

	// MarkEntryFailed flips the entry to FAILED with the error remark and
	// the raw error payload as the response snapshot.
	MarkEntryFailed(ctx context.Context, entryID, remark string, response []byte, now time.Time) error

	// MarkEntryReconciliation flips the entry to NEEDS_RECONCILIATION for
	// a payment the gateway confirmed but whose balance debit failed,
	// keeping the gateway identifiers for manual settlement.
	MarkEntryReconciliation(ctx context.Context, entryID, gatewayTxnID, settlementID string, response []byte, remark string, now time.Time) error
}

// LedgerRepository combines all ledger-related repository interfaces.
type LedgerRepository interface {
	LedgerReader
	LedgerWriter
}
