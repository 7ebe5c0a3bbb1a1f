package models

import "time"

// SyncStatus tracks the provider-sync state of a single clinic. At most one
// row exists per clinic; it is created lazily on the first sync touch and
// reset, never deleted.
type SyncStatus struct {
	ID       int64 `json:"id"`
	ClinicID int64 `json:"clinic_id"`

	ReviewsSyncedAt  *time.Time `json:"reviews_synced_at,omitempty"`
	HoursSyncedAt    *time.Time `json:"hours_synced_at,omitempty"`
	PhotosSyncedAt   *time.Time `json:"photos_synced_at,omitempty"`
	ContactSyncedAt  *time.Time `json:"contact_synced_at,omitempty"`
	LocationSyncedAt *time.Time `json:"location_synced_at,omitempty"`
	LastFullSyncAt   *time.Time `json:"last_full_sync_at,omitempty"`

	ConsecutiveErrors int     `json:"consecutive_errors"`
	LastError         *string `json:"last_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncStatusUpdate is a partial write against a clinic's sync status row.
// Nil fields are left untouched by the upsert.
type SyncStatusUpdate struct {
	ReviewsSyncedAt  *time.Time
	HoursSyncedAt    *time.Time
	PhotosSyncedAt   *time.Time
	ContactSyncedAt  *time.Time
	LocationSyncedAt *time.Time
	LastFullSyncAt   *time.Time

	// ConsecutiveErrors replaces the counter outright when set;
	// IncrementErrors bumps it by one atomically in the store.
	ConsecutiveErrors *int
	IncrementErrors   bool
	LastError         *string
	ClearLastError    bool
}
