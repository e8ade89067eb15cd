package domain

import (
	"github.com/shopspring/decimal"
)

// PaymentMode is the rail a payout is routed over.
type PaymentMode string

const (
	ModeIMPS PaymentMode = "IMPS"
	ModeNEFT PaymentMode = "NEFT"
	ModeRTGS PaymentMode = "RTGS"
)

func (m PaymentMode) String() string { return string(m) }

func (m PaymentMode) IsValid() bool {
	switch m {
	case ModeIMPS, ModeNEFT, ModeRTGS:
		return true
	}
	return false
}

// PaymentStatus is the lifecycle state of a single payment attempt.
// Transitions are monotonic: PENDING flips once to a terminal state and
// never changes again. NEEDS_RECONCILIATION marks an entry the gateway
// confirmed but whose balance debit failed; it is terminal for the
// pipeline and resolved manually.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentSuccess   PaymentStatus = "SUCCESS"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentReconcile PaymentStatus = "NEEDS_RECONCILIATION"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentSuccess || s == PaymentFailed || s == PaymentReconcile
}

// RawRow is one ingested tabular row: an unordered mapping of
// column label to raw cell value, as produced by a RowSource.
type RawRow map[string]string

// PaymentRecord is the canonical, ephemeral shape of one input row.
// Produced by the normalizer, consumed once by the payment executor,
// never persisted standalone.
type PaymentRecord struct {
	Amount                   decimal.Decimal
	AmountRaw                string // original cell value, kept for error reporting
	BeneficiaryName          string
	BeneficiaryAccountNumber string
	BeneficiaryRoutingCode   string

	// Injected by the pipeline, shared across the whole batch.
	PaymentMode      PaymentMode
	GatewayAuthToken string

	// Original row data, carried for per-record error reporting.
	Raw RawRow
}

// HasRequiredFields reports whether the record can be attempted at all:
// all four canonical fields populated and a positive amount.
func (r PaymentRecord) HasRequiredFields() bool {
	return r.Amount.IsPositive() &&
		r.BeneficiaryName != "" &&
		r.BeneficiaryAccountNumber != "" &&
		r.BeneficiaryRoutingCode != ""
}
