package services

import (
	"context"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
)

// LedgerSvcFacade exposes the pipeline's transaction history to the rest
// of the system.
type LedgerSvcFacade interface {
	GetEntry(ctx context.Context, accountID, entryID string) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, accountID string, limit, offset int) ([]domain.LedgerEntry, error)
}

// AccountSvcFacade exposes account reads (identity and current balance).
type AccountSvcFacade interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}
