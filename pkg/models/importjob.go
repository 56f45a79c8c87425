package models

import "time"

// Import job states. A job never moves backwards and is never retried
// automatically; a failed job must be resubmitted.
const (
	JobQueued     = "queued"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// ImportJob tracks one commit run so admins can poll an in-flight import.
type ImportJob struct {
	ID                string     `json:"id"`
	AdminUsername     string     `json:"admin_username"`
	SourceType        string     `json:"source_type"` // file | url
	Source            string     `json:"source"`      // filename or url
	Status            string     `json:"status"`
	TotalRows         int        `json:"total_rows"`
	ProcessedRows     int        `json:"processed_rows"`
	SuccessfulImports int        `json:"successful_imports"`
	FailedImports     int        `json:"failed_imports"`
	Errors            []string   `json:"errors"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        *time.Time `json:"finished_at,omitempty"`
}
