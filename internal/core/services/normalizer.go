package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Canonical field names for a payment record.
const (
	FieldAmount                   = "amount"
	FieldBeneficiaryName          = "beneficiaryName"
	FieldBeneficiaryAccountNumber = "beneficiaryAccountNumber"
	FieldBeneficiaryRoutingCode   = "beneficiaryRoutingCode"
)

// DefaultSynonyms maps canonical field names to the column label
// spellings accepted in uploaded files. Matching is case-insensitive.
var DefaultSynonyms = map[string][]string{
	FieldAmount:                   {"amount", "AMOUNT"},
	FieldBeneficiaryName:          {"beneficiary_name", "BENEFICIARY_NAME", "BENEFICIARY NAME"},
	FieldBeneficiaryAccountNumber: {"beneficiary_account_numb", "ACCOUNT_NUMBER", "ACCOUNT NUMBER"},
	FieldBeneficiaryRoutingCode:   {"beneficiary_ifsc_code", "IFSC_CODE", "IFSC CODE"},
}

// MissingHeaderError reports canonical fields for which the file's header
// row has no matching label.
type MissingHeaderError struct {
	Missing []string
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("file is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// headerIndex maps each canonical field to the actual column label found
// in the header row.
type headerIndex map[string]string

// buildHeaderIndex resolves the synonym table against the header row's
// label set, case-insensitively. Runs once per file, not per row.
func buildHeaderIndex(header domain.RawRow, synonyms map[string][]string) (headerIndex, *MissingHeaderError) {
	lowered := make(map[string]string, len(header))
	for label := range header {
		lowered[strings.ToLower(strings.TrimSpace(label))] = label
	}

	idx := make(headerIndex, len(synonyms))
	var missing []string
	for canonical, labels := range synonyms {
		found := false
		for _, candidate := range labels {
			if actual, ok := lowered[strings.ToLower(candidate)]; ok {
				idx[canonical] = actual
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, canonical)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingHeaderError{Missing: missing}
	}
	return idx, nil
}

// NormalizeRows maps heterogeneous column labels to canonical payment
// records, aligned 1:1 with the input rows. The header check runs once
// against the first row's keys; per-row extraction is tolerant, so a row
// with a missing or unparsable value is passed through and rejected
// later, per record, by the payment executor. Pure function, no I/O.
func NormalizeRows(rows []domain.RawRow, synonyms map[string][]string) ([]domain.PaymentRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	idx, missErr := buildHeaderIndex(rows[0], synonyms)
	if missErr != nil {
		return nil, missErr
	}

	records := make([]domain.PaymentRecord, len(rows))
	for i, row := range rows {
		rec := domain.PaymentRecord{
			AmountRaw:                strings.TrimSpace(row[idx[FieldAmount]]),
			BeneficiaryName:          strings.TrimSpace(row[idx[FieldBeneficiaryName]]),
			BeneficiaryAccountNumber: strings.TrimSpace(row[idx[FieldBeneficiaryAccountNumber]]),
			BeneficiaryRoutingCode:   strings.TrimSpace(row[idx[FieldBeneficiaryRoutingCode]]),
			Raw:                      row,
		}
		if amt, err := decimal.NewFromString(rec.AmountRaw); err == nil {
			rec.Amount = amt
		}
		records[i] = rec
	}
	return records, nil
}
