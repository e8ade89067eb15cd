package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the durable record of a single payment attempt.
// Created in PENDING before the gateway call, flipped to a terminal
// state after; never deleted.
type LedgerEntry struct {
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      PaymentMode     `json:"paymentMode"`

	BeneficiaryName          string `json:"beneficiaryName"`
	BeneficiaryAccountNumber string `json:"beneficiaryAccountNumber"`
	BeneficiaryRoutingCode   string `json:"beneficiaryRoutingCode"`

	Status PaymentStatus `json:"status"`

	// ReferenceNumber is generated fresh per attempt; the gateway fields
	// are populated only once a gateway response arrives.
	ReferenceNumber      string `json:"referenceNumber"`
	GatewayTransactionID string `json:"gatewayTransactionID,omitempty"`
	SettlementID         string `json:"settlementID,omitempty"`

	Remark           string          `json:"remark,omitempty"`
	RequestSnapshot  json.RawMessage `json:"requestSnapshot,omitempty"`
	ResponseSnapshot json.RawMessage `json:"responseSnapshot,omitempty"`

	AuditFields
}
