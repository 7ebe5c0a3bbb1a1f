package models

import "time"

// Sync log lifecycle states.
const (
	SyncLogInProgress = "in_progress"
	SyncLogCompleted  = "completed"
	SyncLogFailed     = "failed"
	SyncLogCancelled  = "cancelled"
)

// SyncLog is the append-only record of one bulk sync run. It is created when
// the run starts and finalized exactly once when the run ends.
type SyncLog struct {
	ID         int64      `json:"id"`
	ScheduleID *int64     `json:"schedule_id,omitempty"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	ClinicsProcessed int `json:"clinics_processed"`
	SuccessCount     int `json:"success_count"`
	ErrorCount       int `json:"error_count"`
	SkippedCount     int `json:"skipped_count"`

	LastError *string   `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
