package services

import (
	"context"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/finkit/bulk_payout_app/internal/dto"
)

// BulkPaymentSvcFacade is the submission side of the pipeline: it
// normalizes and preflights a batch, persists the bulk task, and hands
// the batch executor off to run detached. The returned task is always in
// PENDING; outcomes are only observable by polling.
type BulkPaymentSvcFacade interface {
	SubmitBulkPayment(ctx context.Context, accountID string, sub dto.BulkPaymentSubmission) (*domain.BulkTask, error)
}

// BulkTaskSvcFacade is the read path for bulk tasks. Reads opportunistically
// sweep for stalled tasks: a task stuck in PROCESSING past the staleness
// threshold is returned as FAILED and the correction is persisted
// asynchronously.
type BulkTaskSvcFacade interface {
	GetTask(ctx context.Context, accountID, taskID string) (*domain.BulkTask, error)
	ListTasks(ctx context.Context, accountID string) ([]domain.BulkTask, error)
}
