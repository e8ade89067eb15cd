package ports

import (
	"context"
	"fmt"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GatewayRequest is the payload for one payout attempt against the
// external money-movement gateway.
type GatewayRequest struct {
	ReferenceNumber          string             `json:"reference_number"`
	Amount                   decimal.Decimal    `json:"amount"`
	Mode                     domain.PaymentMode `json:"payment_mode"`
	BeneficiaryName          string             `json:"beneficiary_name"`
	BeneficiaryAccountNumber string             `json:"beneficiary_account_number"`
	BeneficiaryRoutingCode   string             `json:"beneficiary_ifsc_code"`

	// AuthToken is the caller-supplied gateway credential, not serialized
	// into snapshots.
	AuthToken string `json:"-"`
}

// GatewayResult is a successful gateway response.
type GatewayResult struct {
	ReferenceNumber string
	TransactionID   string
	SettlementID    string
	RawResponse     []byte
}

// GatewayError is a gateway rejection or transport failure. RawPayload
// carries the opaque error body for the ledger's response snapshot.
type GatewayError struct {
	Message    string
	RawPayload []byte
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error: %s", e.Message)
}

// PaymentGateway is the outbound port to the external money-movement
// service. Implementations must be safe for concurrent use across tasks.
type PaymentGateway interface {
	// ProcessPayment performs one synchronous payout attempt.
	ProcessPayment(ctx context.Context, req GatewayRequest) (*GatewayResult, error)
}
