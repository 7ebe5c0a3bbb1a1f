package models

import (
	"time"

	apperrors "github.com/clinicatlas/places-sync/internal/errors"
)

// SyncResult is the transient outcome of one single-clinic sync attempt.
type SyncResult struct {
	Success   bool   `json:"success"`
	ClinicID  int64  `json:"clinic_id"`
	PlaceID   string `json:"place_id,omitempty"`

	UpdatedCategories []SyncCategory `json:"updated_categories,omitempty"`
	Changes           []FieldChange  `json:"changes,omitempty"`

	Error     string              `json:"error,omitempty"`
	ErrorType apperrors.ErrorType `json:"error_type,omitempty"`
	APICalls  int                 `json:"api_calls"`
}

// SyncError is one failed clinic within a bulk run, bounded and timestamped
// for the caller's audit view.
type SyncError struct {
	ClinicID  int64     `json:"clinic_id"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// BulkSyncResult aggregates a bulk run. For every clinic visited before
// cancellation, TotalProcessed == SuccessCount + ErrorCount + SkippedCount.
type BulkSyncResult struct {
	TotalProcessed int `json:"total_processed"`
	SuccessCount   int `json:"success_count"`
	ErrorCount     int `json:"error_count"`
	SkippedCount   int `json:"skipped_count"`

	Results []*SyncResult `json:"results,omitempty"`
	Errors  []SyncError   `json:"errors,omitempty"`

	Aborted bool `json:"aborted,omitempty"`
}

// BulkProgress is emitted to the progress callback before each attempt and
// once at the end of the run.
type BulkProgress struct {
	Current    int    `json:"current"`
	Total      int    `json:"total"`
	ClinicID   int64  `json:"clinic_id,omitempty"`
	ClinicName string `json:"clinic_name,omitempty"`
	Status     string `json:"status"`
}
