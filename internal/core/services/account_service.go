package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/finkit/bulk_payout_app/internal/apperrors"
	"github.com/finkit/bulk_payout_app/internal/core/domain"
	portsrepo "github.com/finkit/bulk_payout_app/internal/core/ports/repositories"
	portssvc "github.com/finkit/bulk_payout_app/internal/core/ports/services"
	"github.com/finkit/bulk_payout_app/internal/middleware"
)

// accountService exposes account reads; account creation and credit
// management live outside this service.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// GetAccountByID retrieves the account with its current balance.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}
