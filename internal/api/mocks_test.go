package api

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/clinicatlas/places-sync/internal/models"
	"github.com/clinicatlas/places-sync/internal/sync"
)

// MockStore implements db.Store for handler tests
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetClinicForSync(ctx context.Context, id int64) (*models.Clinic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Clinic), args.Error(1)
}

func (m *MockStore) UpdateClinicFields(ctx context.Context, id int64, patch models.ClinicPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockStore) ListClinicIDsWithPlaceID(ctx context.Context, stateFilter string) ([]int64, error) {
	args := m.Called(ctx, stateFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStore) ListClinicIDsMissingData(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStore) GetSyncStatus(ctx context.Context, clinicID int64) (*models.SyncStatus, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SyncStatus), args.Error(1)
}

func (m *MockStore) UpsertSyncStatus(ctx context.Context, clinicID int64, update models.SyncStatusUpdate) (*models.SyncStatus, error) {
	args := m.Called(ctx, clinicID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SyncStatus), args.Error(1)
}

func (m *MockStore) ResetSyncErrors(ctx context.Context, clinicID int64) error {
	args := m.Called(ctx, clinicID)
	return args.Error(0)
}

func (m *MockStore) CreateSyncSchedule(ctx context.Context, schedule *models.SyncSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockStore) GetSyncSchedule(ctx context.Context, id int64) (*models.SyncSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SyncSchedule), args.Error(1)
}

func (m *MockStore) ListSyncSchedules(ctx context.Context, activeOnly bool) ([]*models.SyncSchedule, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SyncSchedule), args.Error(1)
}

func (m *MockStore) UpdateSyncSchedule(ctx context.Context, schedule *models.SyncSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockStore) DeleteSyncSchedule(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) MarkScheduleExecuted(ctx context.Context, id int64, status string, lastRun time.Time, nextRun *time.Time) error {
	args := m.Called(ctx, id, status, lastRun, nextRun)
	return args.Error(0)
}

func (m *MockStore) CreateSyncLog(ctx context.Context, log *models.SyncLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockStore) CompleteSyncLog(ctx context.Context, id int64, status string, result *models.BulkSyncResult, lastError *string) error {
	args := m.Called(ctx, id, status, result, lastError)
	return args.Error(0)
}

func (m *MockStore) ListSyncLogs(ctx context.Context, limit int) ([]*models.SyncLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SyncLog), args.Error(1)
}

// MockSyncer implements sync.ClinicSyncer for handler tests
type MockSyncer struct {
	mock.Mock
}

func (m *MockSyncer) SyncClinic(ctx context.Context, clinicID int64, opts sync.SyncOptions) *models.SyncResult {
	args := m.Called(ctx, clinicID, opts)
	return args.Get(0).(*models.SyncResult)
}

func (m *MockSyncer) SyncReviews(ctx context.Context, clinicID int64) *models.SyncResult {
	return m.SyncClinic(ctx, clinicID, sync.SyncOptions{Categories: []models.SyncCategory{models.CategoryReviews}})
}

func (m *MockSyncer) SyncHours(ctx context.Context, clinicID int64) *models.SyncResult {
	return m.SyncClinic(ctx, clinicID, sync.SyncOptions{Categories: []models.SyncCategory{models.CategoryHours}})
}

func (m *MockSyncer) SyncContact(ctx context.Context, clinicID int64) *models.SyncResult {
	return m.SyncClinic(ctx, clinicID, sync.SyncOptions{Categories: []models.SyncCategory{models.CategoryContact}})
}

func (m *MockSyncer) SyncLocation(ctx context.Context, clinicID int64) *models.SyncResult {
	return m.SyncClinic(ctx, clinicID, sync.SyncOptions{Categories: []models.SyncCategory{models.CategoryLocation}})
}

// MockBulkSyncer implements sync.BulkClinicSyncer for handler tests
type MockBulkSyncer struct {
	mock.Mock
}

func (m *MockBulkSyncer) SyncBulk(ctx context.Context, ids []int64, opts sync.BulkOptions) *models.BulkSyncResult {
	args := m.Called(ctx, ids, opts)
	return args.Get(0).(*models.BulkSyncResult)
}

// MockResolver implements sync.Resolver for handler tests
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveScope(ctx context.Context, scope models.SyncScope) ([]int64, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
