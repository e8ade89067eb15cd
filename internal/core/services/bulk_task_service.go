package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
	portsrepo "github.com/finkit/bulk_payout_app/internal/core/ports/repositories"
	portssvc "github.com/finkit/bulk_payout_app/internal/core/ports/services"
	"github.com/finkit/bulk_payout_app/internal/middleware"
	"github.com/finkit/bulk_payout_app/internal/platform/metrics"
)

// bulkTaskService is the read path for bulk tasks. It is read-only from
// the caller's perspective; the only side effect is the opportunistic
// stall sweep, which corrects tasks orphaned by a crashed executor.
type bulkTaskService struct {
	taskRepo   portsrepo.BulkTaskRepository
	staleAfter time.Duration
}

// BulkTaskServiceOption configures the bulk task service.
type BulkTaskServiceOption func(*bulkTaskService)

// WithTaskStaleThreshold overrides the staleness threshold used by the
// read-triggered sweep. It must match the executor watchdog's threshold.
func WithTaskStaleThreshold(d time.Duration) BulkTaskServiceOption {
	return func(s *bulkTaskService) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// NewBulkTaskService creates a new bulk task service.
func NewBulkTaskService(taskRepo portsrepo.BulkTaskRepository, opts ...BulkTaskServiceOption) portssvc.BulkTaskSvcFacade {
	s := &bulkTaskService{
		taskRepo:   taskRepo,
		staleAfter: DefaultStaleThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetTask returns one task scoped to the owning account.
func (s *bulkTaskService) GetTask(ctx context.Context, accountID, taskID string) (*domain.BulkTask, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, accountID, taskID)
	if err != nil {
		return nil, err
	}
	s.sweepIfStale(ctx, task)
	return task, nil
}

// ListTasks returns all tasks for the account, newest first, sweeping
// each stalled one on the way out.
func (s *bulkTaskService) ListTasks(ctx context.Context, accountID string) ([]domain.BulkTask, error) {
	tasks, err := s.taskRepo.ListTasksByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bulk tasks: %w", err)
	}
	for i := range tasks {
		s.sweepIfStale(ctx, &tasks[i])
	}
	return tasks, nil
}

// sweepIfStale corrects a task stuck in PROCESSING past the staleness
// threshold: the returned copy is flipped to FAILED with a timeout error,
// and the same correction is persisted asynchronously so the response
// never blocks on the write.
func (s *bulkTaskService) sweepIfStale(ctx context.Context, task *domain.BulkTask) {
	if task.Status != domain.TaskProcessing {
		return
	}
	if time.Now().UTC().Sub(task.UpdatedAt) <= s.staleAfter {
		return
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Warn("Sweeping stalled bulk task",
		slog.String("bulk_task_id", task.TaskID),
		slog.Time("last_update", task.UpdatedAt),
	)

	taskErr := domain.TaskError{
		Row:     -1,
		Message: fmt.Sprintf("bulk task timed out: no progress for %s", s.staleAfter),
	}
	task.Status = domain.TaskFailed
	task.Errors = append(task.Errors, taskErr)
	metrics.StalledTasksSwept.Inc()

	taskID := task.TaskID
	go func() {
		persistCtx, cancel := context.WithTimeout(middleware.ContextWithLogger(context.Background(), logger), 10*time.Second)
		defer cancel()
		if err := s.taskRepo.MarkFailed(persistCtx, taskID, taskErr, time.Now().UTC()); err != nil {
			logger.Error("Failed to persist stalled task correction",
				slog.String("bulk_task_id", taskID),
				slog.String("error", err.Error()),
			)
		}
	}()
}
