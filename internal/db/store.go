package db

import (
	"context"
	"time"

	"github.com/clinicatlas/places-sync/internal/models"
)

// Store defines the interface for database operations
type Store interface {
	// Clinic operations
	GetClinicForSync(ctx context.Context, id int64) (*models.Clinic, error)
	UpdateClinicFields(ctx context.Context, id int64, patch models.ClinicPatch) error
	ListClinicIDsWithPlaceID(ctx context.Context, stateFilter string) ([]int64, error)
	ListClinicIDsMissingData(ctx context.Context) ([]int64, error)

	// Sync status operations
	GetSyncStatus(ctx context.Context, clinicID int64) (*models.SyncStatus, error)
	UpsertSyncStatus(ctx context.Context, clinicID int64, update models.SyncStatusUpdate) (*models.SyncStatus, error)
	ResetSyncErrors(ctx context.Context, clinicID int64) error

	// Schedule operations
	CreateSyncSchedule(ctx context.Context, schedule *models.SyncSchedule) error
	GetSyncSchedule(ctx context.Context, id int64) (*models.SyncSchedule, error)
	ListSyncSchedules(ctx context.Context, activeOnly bool) ([]*models.SyncSchedule, error)
	UpdateSyncSchedule(ctx context.Context, schedule *models.SyncSchedule) error
	DeleteSyncSchedule(ctx context.Context, id int64) error
	MarkScheduleExecuted(ctx context.Context, id int64, status string, lastRun time.Time, nextRun *time.Time) error

	// Sync log operations
	CreateSyncLog(ctx context.Context, log *models.SyncLog) error
	CompleteSyncLog(ctx context.Context, id int64, status string, result *models.BulkSyncResult, lastError *string) error
	ListSyncLogs(ctx context.Context, limit int) ([]*models.SyncLog, error)
}
