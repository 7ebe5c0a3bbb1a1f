package models

import "time"

// SyncFrequency is how often a schedule recurs. Manual schedules are only
// ever run by an explicit trigger and are never auto-due.
type SyncFrequency string

const (
	FrequencyManual  SyncFrequency = "manual"
	FrequencyDaily   SyncFrequency = "daily"
	FrequencyWeekly  SyncFrequency = "weekly"
	FrequencyMonthly SyncFrequency = "monthly"
)

// IsValid reports whether f names a known frequency.
func (f SyncFrequency) IsValid() bool {
	switch f {
	case FrequencyManual, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// SyncScopeType selects which clinics a sync run covers.
type SyncScopeType string

const (
	ScopeAll         SyncScopeType = "all"
	ScopeSelected    SyncScopeType = "selected"
	ScopeByState     SyncScopeType = "by_state"
	ScopeMissingData SyncScopeType = "missing_data"
)

// SyncScope is a scope type plus its parameters.
type SyncScope struct {
	Type        SyncScopeType `json:"type"`
	ClinicIDs   []int64       `json:"clinic_ids,omitempty"`
	StateFilter string        `json:"state_filter,omitempty"`
}

// Schedule run outcomes recorded on last_run_status.
const (
	ScheduleRunCompleted = "completed"
	ScheduleRunFailed    = "failed"
)

// SyncSchedule is a named recurring sync policy configured by an admin.
// Next-run and last-run fields are mutated only by the schedule executor.
type SyncSchedule struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Active bool          `json:"active"`

	Frequency SyncFrequency `json:"frequency"`
	Scope     SyncScope     `json:"scope"`

	SyncReviews  bool `json:"sync_reviews"`
	SyncHours    bool `json:"sync_hours"`
	SyncPhotos   bool `json:"sync_photos"`
	SyncContact  bool `json:"sync_contact"`
	SyncLocation bool `json:"sync_location"`

	LastRunAt     *time.Time `json:"last_run_at,omitempty"`
	LastRunStatus *string    `json:"last_run_status,omitempty"`
	NextRunAt     *time.Time `json:"next_run_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
