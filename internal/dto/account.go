package dto

import (
	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse is the API view of the caller's account.
type AccountResponse struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.AccountID,
		Name:      acc.Name,
		Balance:   acc.Balance,
		IsActive:  acc.IsActive,
	}
}
