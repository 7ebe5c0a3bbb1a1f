package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clinicatlas/places-sync/internal/models"
)

const syncStatusColumns = `
	id, clinic_id, reviews_synced_at, hours_synced_at, photos_synced_at,
	contact_synced_at, location_synced_at, last_full_sync_at,
	consecutive_errors, last_error, created_at, updated_at`

func scanSyncStatus(row *sql.Row) (*models.SyncStatus, error) {
	var st models.SyncStatus
	err := row.Scan(
		&st.ID, &st.ClinicID,
		&st.ReviewsSyncedAt, &st.HoursSyncedAt, &st.PhotosSyncedAt,
		&st.ContactSyncedAt, &st.LocationSyncedAt, &st.LastFullSyncAt,
		&st.ConsecutiveErrors, &st.LastError, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetSyncStatus retrieves the sync status row for a clinic.
// Returns nil without error when no row exists yet.
func (s *PostgresStore) GetSyncStatus(ctx context.Context, clinicID int64) (*models.SyncStatus, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+syncStatusColumns+` FROM sync_status WHERE clinic_id = $1`, clinicID)

	status, err := scanSyncStatus(row)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get sync status: %w", err)
	}

	return status, nil
}

// UpsertSyncStatus creates the clinic's status row if absent, then applies
// the partial update. Nil fields of the update leave columns untouched.
func (s *PostgresStore) UpsertSyncStatus(ctx context.Context, clinicID int64, update models.SyncStatusUpdate) (*models.SyncStatus, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_status (clinic_id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (clinic_id) DO NOTHING
	`, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure sync status row: %w", err)
	}

	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.ReviewsSyncedAt != nil {
		add("reviews_synced_at", *update.ReviewsSyncedAt)
	}
	if update.HoursSyncedAt != nil {
		add("hours_synced_at", *update.HoursSyncedAt)
	}
	if update.PhotosSyncedAt != nil {
		add("photos_synced_at", *update.PhotosSyncedAt)
	}
	if update.ContactSyncedAt != nil {
		add("contact_synced_at", *update.ContactSyncedAt)
	}
	if update.LocationSyncedAt != nil {
		add("location_synced_at", *update.LocationSyncedAt)
	}
	if update.LastFullSyncAt != nil {
		add("last_full_sync_at", *update.LastFullSyncAt)
	}
	if update.ConsecutiveErrors != nil {
		add("consecutive_errors", *update.ConsecutiveErrors)
	} else if update.IncrementErrors {
		sets = append(sets, "consecutive_errors = sync_status.consecutive_errors + 1")
	}
	if update.LastError != nil {
		add("last_error", *update.LastError)
	} else if update.ClearLastError {
		sets = append(sets, "last_error = NULL")
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, clinicID)

	query := fmt.Sprintf(
		`UPDATE sync_status SET %s WHERE clinic_id = $%d RETURNING `+syncStatusColumns,
		joinSets(sets), len(args))

	status, err := scanSyncStatus(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert sync status: %w", err)
	}

	return status, nil
}

// ResetSyncErrors zeroes the consecutive-error counter and clears the last
// error for a clinic, re-arming its circuit breaker.
func (s *PostgresStore) ResetSyncErrors(ctx context.Context, clinicID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sync_status
		SET consecutive_errors = 0, last_error = NULL, updated_at = NOW()
		WHERE clinic_id = $1
	`, clinicID)
	if err != nil {
		return fmt.Errorf("failed to reset sync errors: %w", err)
	}
	return nil
}
