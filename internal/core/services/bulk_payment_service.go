package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/finkit/bulk_payout_app/internal/core/ports"
	portsrepo "github.com/finkit/bulk_payout_app/internal/core/ports/repositories"
	portssvc "github.com/finkit/bulk_payout_app/internal/core/ports/services"
	"github.com/finkit/bulk_payout_app/internal/dto"
	"github.com/finkit/bulk_payout_app/internal/middleware"
	"github.com/finkit/bulk_payout_app/internal/platform/metrics"
	"github.com/google/uuid"
)

const (
	// DefaultBatchSize is the progress-reporting group size. It does not
	// imply parallelism; records are processed strictly in input order.
	DefaultBatchSize = 10

	// DefaultGatewayInterval is the enforced spacing between gateway calls.
	DefaultGatewayInterval = 3 * time.Second

	// DefaultStaleThreshold is how long a PROCESSING task may go without
	// progress before it is considered abandoned.
	DefaultStaleThreshold = 10 * time.Minute
)

// paymentExecutor is the per-record contract the batch executor drives.
// A returned error is pipeline-fatal; payment failures come back in the
// result.
type paymentExecutor interface {
	ExecutePayment(ctx context.Context, accountID string, rec domain.PaymentRecord) (PaymentResult, error)
}

// bulkPaymentService accepts bulk payout submissions and drives each one
// to completion in a detached background executor, one executor per task.
type bulkPaymentService struct {
	taskRepo        portsrepo.BulkTaskRepository
	accountRepo     portsrepo.AccountRepository
	executor        paymentExecutor
	newPacer        func() ports.Pacer
	gatewayInterval time.Duration
	synonyms        map[string][]string
	batchSize       int
	staleAfter      time.Duration
}

// BulkPaymentServiceOption configures the bulk payment service.
type BulkPaymentServiceOption func(*bulkPaymentService)

// WithBatchSize overrides the progress-reporting group size.
func WithBatchSize(n int) BulkPaymentServiceOption {
	return func(s *bulkPaymentService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithGatewayInterval overrides the spacing between gateway calls
// within a single executor run.
func WithGatewayInterval(d time.Duration) BulkPaymentServiceOption {
	return func(s *bulkPaymentService) {
		if d > 0 {
			s.gatewayInterval = d
		}
	}
}

// WithPacer overrides pacer construction. The factory is invoked once
// per executor run; each bulk task paces its own gateway calls and never
// contends with another task's.
func WithPacer(newPacer func() ports.Pacer) BulkPaymentServiceOption {
	return func(s *bulkPaymentService) {
		if newPacer != nil {
			s.newPacer = newPacer
		}
	}
}

// WithStaleThreshold overrides the progress watchdog threshold.
func WithStaleThreshold(d time.Duration) BulkPaymentServiceOption {
	return func(s *bulkPaymentService) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// WithSynonyms overrides the header synonym table.
func WithSynonyms(synonyms map[string][]string) BulkPaymentServiceOption {
	return func(s *bulkPaymentService) {
		if len(synonyms) > 0 {
			s.synonyms = synonyms
		}
	}
}

// NewBulkPaymentService creates a new bulk payment service.
func NewBulkPaymentService(
	taskRepo portsrepo.BulkTaskRepository,
	accountRepo portsrepo.AccountRepository,
	executor paymentExecutor,
	opts ...BulkPaymentServiceOption,
) portssvc.BulkPaymentSvcFacade {
	s := &bulkPaymentService{
		taskRepo:        taskRepo,
		accountRepo:     accountRepo,
		executor:        executor,
		gatewayInterval: DefaultGatewayInterval,
		synonyms:        DefaultSynonyms,
		batchSize:       DefaultBatchSize,
		staleAfter:      DefaultStaleThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newPacer == nil {
		s.newPacer = func() ports.Pacer { return NewGatewayPacer(s.gatewayInterval) }
	}
	return s
}

// SubmitBulkPayment normalizes and preflights the submission, persists
// the bulk task in PENDING, and hands the batch executor off to run
// detached. The caller's response never blocks on a gateway call; any
// preflight failure aborts synchronously with no task created.
func (s *bulkPaymentService) SubmitBulkPayment(ctx context.Context, accountID string, sub dto.BulkPaymentSubmission) (*domain.BulkTask, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}

	records, err := preflightValidate(sub, s.synonyms, account.Balance)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := domain.BulkTask{
		TaskID:       uuid.NewString(),
		AccountID:    accountID,
		FileName:     sub.FileName,
		TotalRecords: len(records),
		BatchSize:    s.batchSize,
		Status:       domain.TaskPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to persist bulk task: %w", err)
	}

	logger.Info("Bulk payment accepted",
		slog.String("bulk_task_id", task.TaskID),
		slog.Int("total_records", task.TotalRecords),
	)

	// Detach from the request: the executor keeps the enriched logger but
	// never inherits the request's cancellation.
	execCtx := middleware.ContextWithLogger(
		context.Background(),
		logger.With(slog.String("bulk_task_id", task.TaskID)),
	)
	go s.runBatchExecutor(execCtx, task, records)

	return &task, nil
}

// runBatchExecutor walks all records in fixed-size groups, strictly in
// input order, invoking the payment executor once per record with the
// pacer enforcing the gateway spacing. Counters are merged atomically per
// group. A progress watchdog flips the task to FAILED and cancels the run
// if no group checkpoint happens within the staleness threshold.
func (s *bulkPaymentService) runBatchExecutor(ctx context.Context, task domain.BulkTask, records []domain.PaymentRecord) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// A fresh pacer per run: spacing applies within this task only.
	pacer := s.newPacer()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Batch executor panicked", slog.Any("panic", r))
			s.markFatal(ctx, task.TaskID, fmt.Errorf("internal error: %v", r))
		}
	}()

	watchdog := time.AfterFunc(s.staleAfter, func() {
		s.failStalled(task.TaskID, logger)
		cancel()
	})
	defer watchdog.Stop()

	if err := s.taskRepo.MarkProcessing(ctx, task.TaskID, time.Now().UTC()); err != nil {
		logger.Error("Failed to start bulk task", slog.String("error", err.Error()))
		s.markFatal(ctx, task.TaskID, err)
		return
	}

	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}

		var progress domain.BatchProgress
		for i, rec := range records[start:end] {
			if err := pacer.Wait(ctx); err != nil {
				// Cancelled by the watchdog; the task is already FAILED.
				logger.Warn("Batch executor stopped", slog.String("error", err.Error()))
				return
			}

			result, err := s.executor.ExecutePayment(ctx, task.AccountID, rec)
			if err != nil {
				logger.Error("Pipeline-fatal payment error", slog.String("error", err.Error()))
				s.markFatal(ctx, task.TaskID, err)
				return
			}

			progress.Processed++
			if result.Success {
				progress.Successful++
			} else {
				progress.Failed++
				progress.Errors = append(progress.Errors, domain.TaskError{
					Row:     start + i + 1,
					Message: result.Message,
					Record:  result.Record.Raw,
				})
			}
		}

		if err := s.taskRepo.ApplyBatchProgress(ctx, task.TaskID, progress, time.Now().UTC()); err != nil {
			logger.Error("Failed to checkpoint batch progress", slog.String("error", err.Error()))
			s.markFatal(ctx, task.TaskID, err)
			return
		}
		watchdog.Reset(s.staleAfter)

		logger.Info("Batch checkpoint",
			slog.Int("processed", end),
			slog.Int("total", len(records)),
		)
	}

	if err := s.taskRepo.MarkCompleted(ctx, task.TaskID, time.Now().UTC()); err != nil {
		logger.Error("Failed to complete bulk task", slog.String("error", err.Error()))
		s.markFatal(ctx, task.TaskID, err)
		return
	}
	metrics.BulkTasksFinished.WithLabelValues(string(domain.TaskCompleted)).Inc()
	logger.Info("Bulk task completed", slog.Int("total_records", len(records)))
}

// markFatal records a task-level failure with row -1 and stops the task.
// Records already processed keep their individual terminal states.
func (s *bulkPaymentService) markFatal(ctx context.Context, taskID string, cause error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	taskErr := domain.TaskError{Row: -1, Message: cause.Error()}
	// Best effort against a detached context; the store may be the very
	// thing that failed.
	persistCtx, cancelPersist := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPersist()
	if err := s.taskRepo.MarkFailed(persistCtx, taskID, taskErr, time.Now().UTC()); err != nil {
		logger.Error("Failed to mark bulk task as failed", slog.String("error", err.Error()))
		return
	}
	metrics.BulkTasksFinished.WithLabelValues(string(domain.TaskFailed)).Inc()
}

// failStalled is invoked by the progress watchdog when no checkpoint has
// happened within the staleness threshold.
func (s *bulkPaymentService) failStalled(taskID string, logger *slog.Logger) {
	logger.Error("Bulk task made no progress within the staleness threshold, failing it",
		slog.Duration("threshold", s.staleAfter),
	)
	taskErr := domain.TaskError{Row: -1, Message: fmt.Sprintf("bulk task timed out: no progress for %s", s.staleAfter)}
	persistCtx, cancelPersist := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPersist()
	if err := s.taskRepo.MarkFailed(persistCtx, taskID, taskErr, time.Now().UTC()); err != nil {
		logger.Error("Failed to mark stalled bulk task as failed", slog.String("error", err.Error()))
		return
	}
	metrics.BulkTasksFinished.WithLabelValues(string(domain.TaskFailed)).Inc()
}
