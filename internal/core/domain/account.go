package domain

import "github.com/shopspring/decimal"

// Account is the owning account for payouts. Balance is the single piece
// of mutable shared state the pipeline touches: it is debited exactly once
// per ledger entry that reaches SUCCESS, inside the same database
// transaction as the ledger update.
type Account struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}
