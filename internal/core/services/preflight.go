package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/finkit/bulk_payout_app/internal/apperrors"
	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/finkit/bulk_payout_app/internal/dto"
	"github.com/shopspring/decimal"
)

// preflightValidate runs the whole-batch checks before any ledger entry
// is created, short-circuiting on the first failure:
//  1. row set non-empty
//  2. header synonym coverage
//  3. payment mode and gateway token present
//  4. batch total within the account balance
//
// On success it returns the normalized records with the batch-wide mode
// and token injected. Any error aborts the submission synchronously; no
// bulk task is created and no background work starts.
func preflightValidate(sub dto.BulkPaymentSubmission, synonyms map[string][]string, balance decimal.Decimal) ([]domain.PaymentRecord, error) {
	if len(sub.Rows) == 0 {
		return nil, fmt.Errorf("%w: uploaded file contains no data rows", apperrors.ErrValidation)
	}

	records, err := NormalizeRows(sub.Rows, synonyms)
	if err != nil {
		var missErr *MissingHeaderError
		if errors.As(err, &missErr) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, missErr.Error())
		}
		return nil, err
	}

	mode := domain.PaymentMode(strings.ToUpper(strings.TrimSpace(sub.PaymentMode)))
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: payment_mode must be one of IMPS, NEFT, RTGS", apperrors.ErrValidation)
	}
	token := strings.TrimSpace(sub.GatewayAuthToken)
	if token == "" {
		return nil, fmt.Errorf("%w: bearer_token is required", apperrors.ErrValidation)
	}

	// Rows with unparsable amounts contribute zero here; they are
	// rejected per record by the payment executor, not at preflight.
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(rec.Amount)
	}
	if total.GreaterThan(balance) {
		return nil, fmt.Errorf("%w: batch requires %s but available balance is %s",
			apperrors.ErrInsufficientBalance, total.String(), balance.String())
	}

	for i := range records {
		records[i].PaymentMode = mode
		records[i].GatewayAuthToken = token
	}
	return records, nil
}
