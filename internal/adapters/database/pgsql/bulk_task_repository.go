package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/finkit/bulk_payout_app/internal/apperrors"
	"github.com/finkit/bulk_payout_app/internal/core/domain"
	portsrepo "github.com/finkit/bulk_payout_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type bulkTaskRepository struct {
	pool *pgxpool.Pool
}

// NewBulkTaskRepository creates a new repository for bulk tasks.
func NewBulkTaskRepository(pool *pgxpool.Pool) portsrepo.BulkTaskRepository {
	return &bulkTaskRepository{pool: pool}
}

const bulkTaskColumns = `
	task_id, account_id, file_name,
	total_records, processed_records, successful_records, failed_records,
	batch_size, status, errors, created_at, updated_at, completed_at
`

// SaveTask persists a new task in PENDING.
func (r *bulkTaskRepository) SaveTask(ctx context.Context, task domain.BulkTask) error {
	errorsJSON, err := marshalTaskErrors(task.Errors)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bulk_tasks (
			task_id, account_id, file_name,
			total_records, processed_records, successful_records, failed_records,
			batch_size, status, errors, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = r.pool.Exec(ctx, query,
		task.TaskID,
		task.AccountID,
		task.FileName,
		task.TotalRecords,
		task.ProcessedRecords,
		task.SuccessfulRecords,
		task.FailedRecords,
		task.BatchSize,
		task.Status,
		errorsJSON,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save bulk task %s: %w", task.TaskID, err)
	}
	return nil
}

// MarkProcessing transitions PENDING -> PROCESSING. The status guard
// ensures a task is only ever started once.
func (r *bulkTaskRepository) MarkProcessing(ctx context.Context, taskID string, now time.Time) error {
	query := `
		UPDATE bulk_tasks
		SET status = $2, updated_at = $3
		WHERE task_id = $1 AND status = $4;
	`
	tag, err := r.pool.Exec(ctx, query, taskID, domain.TaskProcessing, now, domain.TaskPending)
	if err != nil {
		return fmt.Errorf("failed to start bulk task %s: %w", taskID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bulk task %s is not pending", apperrors.ErrTerminalState, taskID)
	}
	return nil
}

// ApplyBatchProgress merges one group's increments directly against the
// persisted row, so concurrent status reads never observe a stale
// read-modify-write. Only applies while the task is PROCESSING.
func (r *bulkTaskRepository) ApplyBatchProgress(ctx context.Context, taskID string, progress domain.BatchProgress, now time.Time) error {
	errorsJSON, err := marshalTaskErrors(progress.Errors)
	if err != nil {
		return err
	}
	query := `
		UPDATE bulk_tasks
		SET processed_records = processed_records + $2,
		    successful_records = successful_records + $3,
		    failed_records = failed_records + $4,
		    errors = errors || $5::jsonb,
		    updated_at = $6
		WHERE task_id = $1 AND status = $7;
	`
	tag, err := r.pool.Exec(ctx, query,
		taskID,
		progress.Processed,
		progress.Successful,
		progress.Failed,
		errorsJSON,
		now,
		domain.TaskProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to apply batch progress to bulk task %s: %w", taskID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bulk task %s is not processing", apperrors.ErrTerminalState, taskID)
	}
	return nil
}

// MarkCompleted transitions PROCESSING -> COMPLETED and stamps completedAt.
func (r *bulkTaskRepository) MarkCompleted(ctx context.Context, taskID string, now time.Time) error {
	query := `
		UPDATE bulk_tasks
		SET status = $2, updated_at = $3, completed_at = $3
		WHERE task_id = $1 AND status = $4;
	`
	tag, err := r.pool.Exec(ctx, query, taskID, domain.TaskCompleted, now, domain.TaskProcessing)
	if err != nil {
		return fmt.Errorf("failed to complete bulk task %s: %w", taskID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bulk task %s is not processing", apperrors.ErrTerminalState, taskID)
	}
	return nil
}

// MarkFailed transitions a non-terminal task to FAILED, appending the
// task-level error. Terminal tasks are left untouched.
func (r *bulkTaskRepository) MarkFailed(ctx context.Context, taskID string, taskErr domain.TaskError, now time.Time) error {
	errorsJSON, err := marshalTaskErrors([]domain.TaskError{taskErr})
	if err != nil {
		return err
	}
	query := `
		UPDATE bulk_tasks
		SET status = $2, errors = errors || $3::jsonb, updated_at = $4
		WHERE task_id = $1 AND status IN ($5, $6);
	`
	tag, err := r.pool.Exec(ctx, query, taskID, domain.TaskFailed, errorsJSON, now, domain.TaskPending, domain.TaskProcessing)
	if err != nil {
		return fmt.Errorf("failed to fail bulk task %s: %w", taskID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bulk task %s", apperrors.ErrTerminalState, taskID)
	}
	return nil
}

// FindTaskByID retrieves a task scoped to the owning account.
func (r *bulkTaskRepository) FindTaskByID(ctx context.Context, accountID, taskID string) (*domain.BulkTask, error) {
	query := `SELECT ` + bulkTaskColumns + ` FROM bulk_tasks WHERE task_id = $1 AND account_id = $2;`
	row := r.pool.QueryRow(ctx, query, taskID, accountID)
	task, err := scanBulkTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bulk task %s: %w", taskID, err)
	}
	return task, nil
}

// ListTasksByAccount retrieves all tasks for an account, newest first.
func (r *bulkTaskRepository) ListTasksByAccount(ctx context.Context, accountID string) ([]domain.BulkTask, error) {
	query := `
		SELECT ` + bulkTaskColumns + `
		FROM bulk_tasks
		WHERE account_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bulk tasks for account %s: %w", accountID, err)
	}
	defer rows.Close()

	tasks := []domain.BulkTask{}
	for rows.Next() {
		task, err := scanBulkTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bulk task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bulk tasks: %w", err)
	}
	return tasks, nil
}

// scanBulkTask scans one row into a domain.BulkTask, unmarshalling the
// errors list from jsonb.
func scanBulkTask(row pgx.Row) (*domain.BulkTask, error) {
	var task domain.BulkTask
	var errorsJSON []byte
	var completedAt *time.Time

	err := row.Scan(
		&task.TaskID,
		&task.AccountID,
		&task.FileName,
		&task.TotalRecords,
		&task.ProcessedRecords,
		&task.SuccessfulRecords,
		&task.FailedRecords,
		&task.BatchSize,
		&task.Status,
		&errorsJSON,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(errorsJSON) > 0 {
		if err := json.Unmarshal(errorsJSON, &task.Errors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task errors: %w", err)
		}
	}
	task.CompletedAt = completedAt
	return &task, nil
}

// marshalTaskErrors serializes an error list for the jsonb errors column.
// A nil list marshals to an empty array so jsonb concatenation stays valid.
func marshalTaskErrors(taskErrors []domain.TaskError) ([]byte, error) {
	if taskErrors == nil {
		taskErrors = []domain.TaskError{}
	}
	b, err := json.Marshal(taskErrors)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task errors: %w", err)
	}
	return b, nil
}
