package dto

import (
	"time"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEntryResponse is the API view of one payment attempt.
type LedgerEntryResponse struct {
	EntryID                  string          `json:"entryID"`
	Amount                   decimal.Decimal `json:"amount"`
	PaymentMode              string          `json:"paymentMode"`
	BeneficiaryName          string          `json:"beneficiaryName"`
	BeneficiaryAccountNumber string          `json:"beneficiaryAccountNumber"`
	BeneficiaryRoutingCode   string          `json:"beneficiaryRoutingCode"`
	Status                   string          `json:"status"`
	ReferenceNumber          string          `json:"referenceNumber"`
	GatewayTransactionID     string          `json:"gatewayTransactionID,omitempty"`
	SettlementID             string          `json:"settlementID,omitempty"`
	Remark                   string          `json:"remark,omitempty"`
	CreatedAt                time.Time       `json:"createdAt"`
	LastUpdatedAt            time.Time       `json:"lastUpdatedAt"`
}

// ListLedgerEntriesResponse wraps the ledger list endpoint response.
type ListLedgerEntriesResponse struct {
	Entries []LedgerEntryResponse `json:"entries"`
}

// ListLedgerEntriesParams binds the ledger list query parameters.
type ListLedgerEntriesParams struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its DTO. The raw
// request/response snapshots stay internal to the ledger store.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:                  e.EntryID,
		Amount:                   e.Amount,
		PaymentMode:              string(e.Mode),
		BeneficiaryName:          e.BeneficiaryName,
		BeneficiaryAccountNumber: e.BeneficiaryAccountNumber,
		BeneficiaryRoutingCode:   e.BeneficiaryRoutingCode,
		Status:                   string(e.Status),
		ReferenceNumber:          e.ReferenceNumber,
		GatewayTransactionID:     e.GatewayTransactionID,
		SettlementID:             e.SettlementID,
		Remark:                   e.Remark,
		CreatedAt:                e.CreatedAt,
		LastUpdatedAt:            e.LastUpdatedAt,
	}
}
