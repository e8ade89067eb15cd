package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finkit/bulk_payout_app/internal/apperrors"
	"github.com/finkit/bulk_payout_app/internal/core/domain"
	portsrepo "github.com/finkit/bulk_payout_app/internal/core/ports/repositories"
	portssvc "github.com/finkit/bulk_payout_app/internal/core/ports/services"
	"github.com/finkit/bulk_payout_app/internal/middleware"
)

// ledgerService exposes the payment attempt history for an account.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepository) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

// GetEntry retrieves a single ledger entry scoped to the owning account.
func (s *ledgerService) GetEntry(ctx context.Context, accountID, entryID string) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	entry, err := s.ledgerRepo.FindEntryByID(ctx, accountID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find ledger entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

// ListEntries retrieves entries for the account, newest first.
func (s *ledgerService) ListEntries(ctx context.Context, accountID string, limit, offset int) ([]domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	entries, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountID, limit, offset)
	if err != nil {
		logger.Error("Failed to list ledger entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	if entries == nil {
		return []domain.LedgerEntry{}, nil
	}
	return entries, nil
}
