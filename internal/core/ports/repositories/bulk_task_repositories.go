package repositories

import (
	"context"
	"time"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
)

// BulkTaskReader defines read operations for bulk tasks.
type BulkTaskReader interface {
	// FindTaskByID retrieves a task scoped to the owning account.
	// Returns apperrors.ErrNotFound if absent or not owned.
	FindTaskByID(ctx context.Context, accountID, taskID string) (*domain.BulkTask, error)

	// ListTasksByAccount retrieves all tasks for an account, newest first.
	ListTasksByAccount(ctx context.Context, accountID string) ([]domain.BulkTask, error)
}

// BulkTaskWriter defines write operations for bulk tasks. State
// transitions are guarded in SQL: each Mark method only applies from the
// expected prior status, so a COMPLETED or FAILED task is never touched
// again.
type BulkTaskWriter interface {
	// SaveTask persists a new task in PENDING.
	SaveTask(ctx context.Context, task domain.BulkTask) error

	// MarkProcessing transitions PENDING -> PROCESSING.
	MarkProcessing(ctx context.Context, taskID string, now time.Time) error

	// ApplyBatchProgress atomically increments the task counters and
	// appends the group's errors, directly against the persisted row.
	// Only applies while the task is PROCESSING.
	ApplyBatchProgress(ctx context.Context, taskID string, progress domain.BatchProgress, now time.Time) error

	// MarkCompleted transitions PROCESSING -> COMPLETED and stamps
	// completedAt.
	MarkCompleted(ctx context.Context, taskID string, now time.Time) error

	// MarkFailed transitions PROCESSING -> FAILED, appending the given
	// task-level error.
	MarkFailed(ctx context.Context, taskID string, taskErr domain.TaskError, now time.Time) error
}

// BulkTaskRepository combines all bulk-task repository interfaces.
type BulkTaskRepository interface {
	BulkTaskReader
	BulkTaskWriter
}
