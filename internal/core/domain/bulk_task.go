package domain

import "time"

// BulkTaskStatus is the processing state of one submitted batch.
type BulkTaskStatus string

const (
	TaskPending    BulkTaskStatus = "PENDING"
	TaskProcessing BulkTaskStatus = "PROCESSING"
	TaskCompleted  BulkTaskStatus = "COMPLETED"
	TaskFailed     BulkTaskStatus = "FAILED"
)

func (s BulkTaskStatus) String() string { return string(s) }

func (s BulkTaskStatus) IsValid() bool {
	switch s {
	case TaskPending, TaskProcessing, TaskCompleted, TaskFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the task can never be processed again.
func (s BulkTaskStatus) IsTerminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// TaskError is one collected failure. Row is the 1-based input row index,
// or -1 for task-level errors (pipeline-fatal, stall timeout).
type TaskError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
	Record  RawRow `json:"data,omitempty"`
}

// BulkTask is the durable record tracking one submitted batch.
// Invariant: ProcessedRecords == SuccessfulRecords + FailedRecords,
// and ProcessedRecords <= TotalRecords, at any point in time.
type BulkTask struct {
	TaskID    string `json:"taskID"`
	AccountID string `json:"accountID"`
	FileName  string `json:"fileName"`

	TotalRecords      int `json:"totalRecords"`
	ProcessedRecords  int `json:"processedRecords"`
	SuccessfulRecords int `json:"successfulRecords"`
	FailedRecords     int `json:"failedRecords"`
	BatchSize         int `json:"batchSize"`

	Status BulkTaskStatus `json:"status"`
	Errors []TaskError    `json:"errors,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// BatchProgress is one group's worth of counter increments and collected
// failures, merged atomically into the persisted task.
type BatchProgress struct {
	Processed  int
	Successful int
	Failed     int
	Errors     []TaskError
}
