package dto

import (
	"time"

	"github.com/finkit/bulk_payout_app/internal/core/domain"
)

// BulkPaymentSubmission carries one parsed upload into the pipeline.
// Rows come from a tabular RowReader; the mode and token apply to every
// record in the batch.
type BulkPaymentSubmission struct {
	FileName         string
	Rows             []domain.RawRow
	PaymentMode      string
	GatewayAuthToken string
}

// SubmitBulkPaymentResponse is the 202 body returned on acceptance.
type SubmitBulkPaymentResponse struct {
	BulkTaskID   string `json:"bulkTaskId"`
	FileName     string `json:"fileName"`
	TotalRecords int    `json:"totalRecords"`
	Status       string `json:"status"`
}

// TaskErrorResponse is one collected failure within a bulk task.
// Row is 1-based, or -1 for task-level errors.
type TaskErrorResponse struct {
	Row     int           `json:"row"`
	Message string        `json:"message"`
	Data    domain.RawRow `json:"data,omitempty"`
}

// BulkTaskResponse is the polled view of a bulk task.
type BulkTaskResponse struct {
	BulkTaskID        string              `json:"bulkTaskId"`
	FileName          string              `json:"fileName,omitempty"`
	TotalRecords      int                 `json:"totalRecords"`
	ProcessedRecords  int                 `json:"processedRecords"`
	SuccessfulRecords int                 `json:"successfulRecords"`
	FailedRecords     int                 `json:"failedRecords"`
	BatchSize         int                 `json:"batchSize"`
	Status            string              `json:"status"`
	Errors            []TaskErrorResponse `json:"errors,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
	CompletedAt       *time.Time          `json:"completedAt,omitempty"`
}

// ListBulkTasksResponse wraps the task list endpoint response.
type ListBulkTasksResponse struct {
	Tasks []BulkTaskResponse `json:"tasks"`
}

// ListBulkTasksParams binds the list endpoint's query parameters.
type ListBulkTasksParams struct {
	Minimal *bool `form:"minimal"`
}

// ToSubmitBulkPaymentResponse converts a freshly created task to the 202 body.
func ToSubmitBulkPaymentResponse(t *domain.BulkTask) SubmitBulkPaymentResponse {
	return SubmitBulkPaymentResponse{
		BulkTaskID:   t.TaskID,
		FileName:     t.FileName,
		TotalRecords: t.TotalRecords,
		Status:       string(t.Status),
	}
}

// ToBulkTaskResponse converts a domain.BulkTask to its response DTO.
// Minimal mode omits the bulky fields (file name, per-error row payloads)
// to keep list responses small.
func ToBulkTaskResponse(t *domain.BulkTask, minimal bool) BulkTaskResponse {
	resp := BulkTaskResponse{
		BulkTaskID:        t.TaskID,
		TotalRecords:      t.TotalRecords,
		ProcessedRecords:  t.ProcessedRecords,
		SuccessfulRecords: t.SuccessfulRecords,
		FailedRecords:     t.FailedRecords,
		BatchSize:         t.BatchSize,
		Status:            string(t.Status),
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		CompletedAt:       t.CompletedAt,
	}
	if !minimal {
		resp.FileName = t.FileName
	}
	if len(t.Errors) > 0 {
		resp.Errors = make([]TaskErrorResponse, len(t.Errors))
		for i, e := range t.Errors {
			resp.Errors[i] = TaskErrorResponse{Row: e.Row, Message: e.Message}
			if !minimal {
				resp.Errors[i].Data = e.Record
			}
		}
	}
	return resp
}
