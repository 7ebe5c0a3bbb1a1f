package api

import (
	"github.com/clinicatlas/places-sync/internal/models"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SyncRequest selects the categories for a single clinic sync.
type SyncRequest struct {
	Categories []models.SyncCategory `json:"categories,omitempty"`
}

// BulkSyncRequest describes one ad-hoc bulk run.
type BulkSyncRequest struct {
	Scope                 models.SyncScope      `json:"scope"`
	Categories            []models.SyncCategory `json:"categories,omitempty"`
	SkipClinicsWithErrors bool                  `json:"skip_clinics_with_errors,omitempty"`
}

// EstimateResponse reports the predicted cost of a bulk run.
type EstimateResponse struct {
	ClinicCount      int     `json:"clinic_count"`
	EstimatedSeconds float64 `json:"estimated_seconds"`
	Description      string  `json:"description"`
}

// ScheduleRequest carries schedule create/update payloads.
type ScheduleRequest struct {
	Name         string               `json:"name" binding:"required"`
	Frequency    models.SyncFrequency `json:"frequency" binding:"required"`
	Scope        models.SyncScope     `json:"scope"`
	SyncReviews  bool                 `json:"sync_reviews"`
	SyncHours    bool                 `json:"sync_hours"`
	SyncPhotos   bool                 `json:"sync_photos"`
	SyncContact  bool                 `json:"sync_contact"`
	SyncLocation bool                 `json:"sync_location"`
	Active       *bool                `json:"active,omitempty"`
}

// RunDueResponse reports how many schedules an on-demand sweep executed.
type RunDueResponse struct {
	SchedulesRun int `json:"schedules_run"`
}
