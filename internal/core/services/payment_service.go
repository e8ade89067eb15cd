package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finkit/bulk_payout_app/internal/apperrors"
	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/finkit/bulk_payout_app/internal/core/ports"
	portsrepo "github.com/finkit/bulk_payout_app/internal/core/ports/repositories"
	"github.com/finkit/bulk_payout_app/internal/middleware"
	"github.com/finkit/bulk_payout_app/internal/platform/metrics"
	"github.com/finkit/bulk_payout_app/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// PaymentResult is the typed outcome of a single payment attempt. It
// carries the record's original data for error reporting.
type PaymentResult struct {
	Success bool
	Message string
	EntryID string
	Record  domain.PaymentRecord
	Gateway *ports.GatewayResult
}

// PaymentService performs one payment attempt end to end: ledger entry in
// PENDING, gateway call, terminal ledger update, and (on success only)
// the balance debit. Payment failures are captured in the result; a
// returned error means the ledger or account store itself failed, which
// the batch executor treats as pipeline-fatal.
type PaymentService struct {
	ledgerRepo  portsrepo.LedgerRepository
	accountRepo portsrepo.AccountRepository
	txm         portsrepo.Transactor
	gateway     ports.PaymentGateway
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	ledgerRepo portsrepo.LedgerRepository,
	accountRepo portsrepo.AccountRepository,
	txm portsrepo.Transactor,
	gateway ports.PaymentGateway,
) *PaymentService {
	return &PaymentService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		txm:         txm,
		gateway:     gateway,
	}
}

// ExecutePayment performs a single payment attempt for the given record.
func (s *PaymentService) ExecutePayment(ctx context.Context, accountID string, rec domain.PaymentRecord) (PaymentResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Fail fast before any ledger entry is created.
	if !rec.HasRequiredFields() {
		metrics.PaymentAttempts.WithLabelValues("rejected").Inc()
		return PaymentResult{Success: false, Message: "missing required fields", Record: rec}, nil
	}

	now := time.Now().UTC()
	refNumber, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return PaymentResult{}, fmt.Errorf("failed to generate reference number: %w", err)
	}

	req := ports.GatewayRequest{
		ReferenceNumber:          refNumber,
		Amount:                   rec.Amount,
		Mode:                     rec.PaymentMode,
		BeneficiaryName:          rec.BeneficiaryName,
		BeneficiaryAccountNumber: rec.BeneficiaryAccountNumber,
		BeneficiaryRoutingCode:   rec.BeneficiaryRoutingCode,
		AuthToken:                rec.GatewayAuthToken,
	}
	snapshot, err := json.Marshal(req)
	if err != nil {
		return PaymentResult{}, fmt.Errorf("failed to snapshot gateway request: %w", err)
	}

	entry := domain.LedgerEntry{
		EntryID:                  uuid.NewString(),
		AccountID:                accountID,
		Amount:                   rec.Amount,
		Mode:                     rec.PaymentMode,
		BeneficiaryName:          rec.BeneficiaryName,
		BeneficiaryAccountNumber: rec.BeneficiaryAccountNumber,
		BeneficiaryRoutingCode:   rec.BeneficiaryRoutingCode,
		Status:                   domain.PaymentPending,
		ReferenceNumber:          refNumber,
		RequestSnapshot:          snapshot,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.ledgerRepo.SaveEntry(ctx, entry); err != nil {
		return PaymentResult{}, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	timer := prometheus.NewTimer(metrics.GatewayLatency)
	result, gwCallErr := s.gateway.ProcessPayment(ctx, req)
	timer.ObserveDuration()

	if gwCallErr != nil {
		return s.recordFailure(ctx, entry, rec, gwCallErr)
	}

	// Ledger SUCCESS update and balance debit are one transaction: the
	// debit never happens without the durable SUCCESS record.
	updatedAt := time.Now().UTC()
	err = s.txm.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.ledgerRepo.MarkEntrySuccessTx(ctx, tx, entry.EntryID, result.TransactionID, result.SettlementID, result.RawResponse, updatedAt); err != nil {
			return err
		}
		return s.accountRepo.DebitBalanceTx(ctx, tx, accountID, rec.Amount, updatedAt)
	})
	if err != nil {
		// The gateway confirmed but the debit lost a race against a
		// concurrent task on the same account: money moved without a
		// covering balance. The entry is flagged for manual settlement
		// and the batch continues; only a store failure is fatal.
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			return s.flagReconciliation(ctx, entry, rec, result, err)
		}
		return PaymentResult{}, fmt.Errorf("failed to finalize successful payment %s: %w", entry.EntryID, err)
	}

	metrics.PaymentAttempts.WithLabelValues("success").Inc()
	logger.Info("Payment succeeded",
		slog.String("entry_id", entry.EntryID),
		slog.String("reference_number", refNumber),
		slog.String("gateway_txn_id", result.TransactionID),
	)
	return PaymentResult{Success: true, EntryID: entry.EntryID, Record: rec, Gateway: result}, nil
}

// recordFailure flips the ledger entry to FAILED with the gateway error
// as remark. The balance is never touched on this path.
func (s *PaymentService) recordFailure(ctx context.Context, entry domain.LedgerEntry, rec domain.PaymentRecord, gwErr error) (PaymentResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	remark := gwErr.Error()
	var payload []byte
	var typed *ports.GatewayError
	if errors.As(gwErr, &typed) {
		remark = typed.Message
		payload = typed.RawPayload
	}

	now := time.Now().UTC()
	if err := s.ledgerRepo.MarkEntryFailed(ctx, entry.EntryID, remark, jsonSnapshot(payload), now); err != nil {
		return PaymentResult{}, fmt.Errorf("failed to record payment failure for %s: %w", entry.EntryID, err)
	}

	metrics.PaymentAttempts.WithLabelValues("failed").Inc()
	logger.Warn("Payment failed",
		slog.String("entry_id", entry.EntryID),
		slog.String("remark", remark),
	)
	return PaymentResult{Success: false, Message: remark, EntryID: entry.EntryID, Record: rec}, nil
}

// flagReconciliation records a gateway-confirmed payment whose balance
// debit could not be applied. The entry leaves PENDING so nothing
// retries it; the gateway identifiers stay on the entry for manual
// settlement.
func (s *PaymentService) flagReconciliation(ctx context.Context, entry domain.LedgerEntry, rec domain.PaymentRecord, result *ports.GatewayResult, cause error) (PaymentResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	remark := fmt.Sprintf("gateway confirmed transaction %s but the balance debit failed (%s); entry requires manual reconciliation", result.TransactionID, cause)
	now := time.Now().UTC()
	if err := s.ledgerRepo.MarkEntryReconciliation(ctx, entry.EntryID, result.TransactionID, result.SettlementID, jsonSnapshot(result.RawResponse), remark, now); err != nil {
		return PaymentResult{}, fmt.Errorf("failed to flag payment %s for reconciliation: %w", entry.EntryID, err)
	}

	metrics.PaymentAttempts.WithLabelValues("reconcile").Inc()
	logger.Error("Payment needs reconciliation",
		slog.String("entry_id", entry.EntryID),
		slog.String("gateway_txn_id", result.TransactionID),
		slog.String("error", cause.Error()),
	)
	return PaymentResult{Success: false, Message: remark, EntryID: entry.EntryID, Record: rec}, nil
}

// jsonSnapshot makes an arbitrary gateway body safe for a jsonb column:
// bodies that are not valid JSON, such as an upstream HTML error page,
// are stored as a JSON string.
func jsonSnapshot(raw []byte) []byte {
	if len(raw) == 0 {
		return nil
	}
	if json.Valid(raw) {
		return raw
	}
	quoted, err := json.Marshal(string(raw))
	if err != nil {
		return nil
	}
	return quoted
}
