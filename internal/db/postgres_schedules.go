package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clinicatlas/places-sync/internal/models"
)

const syncScheduleColumns = `
	id, name, active, frequency, scope_json,
	sync_reviews, sync_hours, sync_photos, sync_contact, sync_location,
	last_run_at, last_run_status, next_run_at, created_at, updated_at`

type scheduleScanner interface {
	Scan(dest ...interface{}) error
}

func scanSyncSchedule(row scheduleScanner) (*models.SyncSchedule, error) {
	var sched models.SyncSchedule
	var scopeJSON []byte

	err := row.Scan(
		&sched.ID, &sched.Name, &sched.Active, &sched.Frequency, &scopeJSON,
		&sched.SyncReviews, &sched.SyncHours, &sched.SyncPhotos, &sched.SyncContact, &sched.SyncLocation,
		&sched.LastRunAt, &sched.LastRunStatus, &sched.NextRunAt, &sched.CreatedAt, &sched.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(scopeJSON) > 0 {
		if err := json.Unmarshal(scopeJSON, &sched.Scope); err != nil {
			return nil, fmt.Errorf("failed to unmarshal schedule scope: %w", err)
		}
	}

	return &sched, nil
}

// CreateSyncSchedule inserts a schedule and fills its generated id.
func (s *PostgresStore) CreateSyncSchedule(ctx context.Context, schedule *models.SyncSchedule) error {
	scopeJSON, err := json.Marshal(schedule.Scope)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule scope: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO sync_schedules (
			name, active, frequency, scope_json,
			sync_reviews, sync_hours, sync_photos, sync_contact, sync_location,
			next_run_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`,
		schedule.Name, schedule.Active, schedule.Frequency, scopeJSON,
		schedule.SyncReviews, schedule.SyncHours, schedule.SyncPhotos,
		schedule.SyncContact, schedule.SyncLocation, schedule.NextRunAt,
	).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create sync schedule: %w", err)
	}
	return nil
}

// GetSyncSchedule retrieves a schedule by id. Returns nil when absent.
func (s *PostgresStore) GetSyncSchedule(ctx context.Context, id int64) (*models.SyncSchedule, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+syncScheduleColumns+` FROM sync_schedules WHERE id = $1`, id)

	schedule, err := scanSyncSchedule(row)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get sync schedule: %w", err)
	}

	return schedule, nil
}

// ListSyncSchedules retrieves schedules, optionally only active ones.
func (s *PostgresStore) ListSyncSchedules(ctx context.Context, activeOnly bool) ([]*models.SyncSchedule, error) {
	query := `SELECT ` + syncScheduleColumns + ` FROM sync_schedules`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*models.SyncSchedule
	for rows.Next() {
		schedule, err := scanSyncSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync schedules: %w", err)
	}

	return schedules, nil
}

// UpdateSyncSchedule rewrites the admin-editable fields of a schedule.
func (s *PostgresStore) UpdateSyncSchedule(ctx context.Context, schedule *models.SyncSchedule) error {
	scopeJSON, err := json.Marshal(schedule.Scope)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule scope: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE sync_schedules SET
			name = $1, active = $2, frequency = $3, scope_json = $4,
			sync_reviews = $5, sync_hours = $6, sync_photos = $7,
			sync_contact = $8, sync_location = $9, next_run_at = $10,
			updated_at = NOW()
		WHERE id = $11
	`,
		schedule.Name, schedule.Active, schedule.Frequency, scopeJSON,
		schedule.SyncReviews, schedule.SyncHours, schedule.SyncPhotos,
		schedule.SyncContact, schedule.SyncLocation, schedule.NextRunAt,
		schedule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sync schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sync schedule not found: %d", schedule.ID)
	}

	return nil
}

// DeleteSyncSchedule removes a schedule.
func (s *PostgresStore) DeleteSyncSchedule(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sync_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sync schedule: %w", err)
	}
	return nil
}

// MarkScheduleExecuted records a run outcome and the next due time.
func (s *PostgresStore) MarkScheduleExecuted(ctx context.Context, id int64, status string, lastRun time.Time, nextRun *time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sync_schedules
		SET last_run_at = $1, last_run_status = $2, next_run_at = $3, updated_at = NOW()
		WHERE id = $4
	`, lastRun, status, nextRun, id)
	if err != nil {
		return fmt.Errorf("failed to mark schedule executed: %w", err)
	}
	return nil
}

// CreateSyncLog opens the append-only record for one bulk run.
func (s *PostgresStore) CreateSyncLog(ctx context.Context, log *models.SyncLog) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sync_logs (schedule_id, status, started_at, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`, log.ScheduleID, log.Status, log.StartedAt).Scan(&log.ID, &log.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}
	return nil
}

// CompleteSyncLog finalizes a run record with its terminal status and totals.
func (s *PostgresStore) CompleteSyncLog(ctx context.Context, id int64, status string, result *models.BulkSyncResult, lastError *string) error {
	var processed, success, errCount, skipped int
	if result != nil {
		processed = result.TotalProcessed
		success = result.SuccessCount
		errCount = result.ErrorCount
		skipped = result.SkippedCount
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE sync_logs
		SET status = $1, finished_at = NOW(),
			clinics_processed = $2, success_count = $3, error_count = $4,
			skipped_count = $5, last_error = $6
		WHERE id = $7
	`, status, processed, success, errCount, skipped, lastError, id)
	if err != nil {
		return fmt.Errorf("failed to complete sync log: %w", err)
	}
	return nil
}

// ListSyncLogs retrieves the most recent run records.
func (s *PostgresStore) ListSyncLogs(ctx context.Context, limit int) ([]*models.SyncLog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, schedule_id, status, started_at, finished_at,
			clinics_processed, success_count, error_count, skipped_count,
			last_error, created_at
		FROM sync_logs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.SyncLog
	for rows.Next() {
		var l models.SyncLog
		if err := rows.Scan(
			&l.ID, &l.ScheduleID, &l.Status, &l.StartedAt, &l.FinishedAt,
			&l.ClinicsProcessed, &l.SuccessCount, &l.ErrorCount, &l.SkippedCount,
			&l.LastError, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync log: %w", err)
		}
		logs = append(logs, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync logs: %w", err)
	}

	return logs, nil
}
