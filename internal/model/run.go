package model

import "time"

// Run statuses as stored in the run-history database.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// RefreshRun is one execution of the data refresh job.
type RefreshRun struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	SourceURL   string     `json:"source_url"`
	RowsFetched int        `json:"rows_fetched"`
	RowsKept    int        `json:"rows_kept"`
	Countries   int        `json:"countries"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}
