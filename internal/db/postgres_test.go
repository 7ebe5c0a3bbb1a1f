package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicatlas/places-sync/internal/models"
)

func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database tests")
	}

	store, err := NewPostgresStore(dsn)
	require.NoError(t, err)

	require.NoError(t, store.Migrate())

	cleanup := func() {
		_, err := store.db.Exec(`
			TRUNCATE sync_logs, sync_schedules, sync_status, clinics RESTART IDENTITY CASCADE;
		`)
		require.NoError(t, err)
		store.db.Close()
	}

	return store, cleanup
}

func insertTestClinic(t *testing.T, store *PostgresStore, name, placeID string) int64 {
	var id int64
	err := store.db.QueryRow(`
		INSERT INTO clinics (name, state, state_abbr, place_id)
		VALUES ($1, 'California', 'CA', NULLIF($2, ''))
		RETURNING id
	`, name, placeID).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestPostgresStore_ClinicOperations(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	id := insertTestClinic(t, store, "Sunrise Dental", "place_abc")

	t.Run("get clinic for sync", func(t *testing.T) {
		clinic, err := store.GetClinicForSync(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, clinic)
		assert.Equal(t, "Sunrise Dental", clinic.Name)
		assert.True(t, clinic.HasPlaceID())
	})

	t.Run("missing clinic returns nil", func(t *testing.T) {
		clinic, err := store.GetClinicForSync(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, clinic)
	})

	t.Run("partial update touches only patched fields", func(t *testing.T) {
		err := store.UpdateClinicFields(ctx, id, models.ClinicPatch{
			Rating:      models.Some(4.5),
			ReviewCount: models.Some(12),
		})
		require.NoError(t, err)

		clinic, err := store.GetClinicForSync(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, clinic.Rating)
		assert.Equal(t, 4.5, *clinic.Rating)
		require.NotNil(t, clinic.ReviewCount)
		assert.Equal(t, 12, *clinic.ReviewCount)
		assert.Nil(t, clinic.Phone)
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		assert.NoError(t, store.UpdateClinicFields(ctx, id, models.ClinicPatch{}))
	})

	t.Run("update of missing clinic fails", func(t *testing.T) {
		err := store.UpdateClinicFields(ctx, 999999, models.ClinicPatch{Rating: models.Some(1.0)})
		assert.Error(t, err)
	})

	t.Run("list ids with place id", func(t *testing.T) {
		insertTestClinic(t, store, "No Place Yet", "")

		ids, err := store.ListClinicIDsWithPlaceID(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []int64{id}, ids)

		ids, err = store.ListClinicIDsWithPlaceID(ctx, "CA")
		require.NoError(t, err)
		assert.Equal(t, []int64{id}, ids)

		ids, err = store.ListClinicIDsWithPlaceID(ctx, "TX")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("list ids missing data", func(t *testing.T) {
		// Rating and review count are set above; phone still missing.
		ids, err := store.ListClinicIDsMissingData(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id)
	})
}

func TestPostgresStore_SyncStatusOperations(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	id := insertTestClinic(t, store, "Sunrise Dental", "place_abc")

	t.Run("absent status returns nil", func(t *testing.T) {
		status, err := store.GetSyncStatus(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, status)
	})

	t.Run("upsert creates row lazily", func(t *testing.T) {
		now := time.Now().UTC()
		status, err := store.UpsertSyncStatus(ctx, id, models.SyncStatusUpdate{
			ReviewsSyncedAt: &now,
		})
		require.NoError(t, err)
		require.NotNil(t, status.ReviewsSyncedAt)
		assert.Zero(t, status.ConsecutiveErrors)
	})

	t.Run("increment is cumulative", func(t *testing.T) {
		msg := "provider call failed"
		for i := 1; i <= 3; i++ {
			status, err := store.UpsertSyncStatus(ctx, id, models.SyncStatusUpdate{
				IncrementErrors: true,
				LastError:       &msg,
			})
			require.NoError(t, err)
			assert.Equal(t, i, status.ConsecutiveErrors)
		}
	})

	t.Run("success write clears errors", func(t *testing.T) {
		zero := 0
		status, err := store.UpsertSyncStatus(ctx, id, models.SyncStatusUpdate{
			ConsecutiveErrors: &zero,
			ClearLastError:    true,
		})
		require.NoError(t, err)
		assert.Zero(t, status.ConsecutiveErrors)
		assert.Nil(t, status.LastError)
	})

	t.Run("reset rearms the clinic", func(t *testing.T) {
		msg := "boom"
		_, err := store.UpsertSyncStatus(ctx, id, models.SyncStatusUpdate{
			IncrementErrors: true,
			LastError:       &msg,
		})
		require.NoError(t, err)

		require.NoError(t, store.ResetSyncErrors(ctx, id))

		status, err := store.GetSyncStatus(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, status.ConsecutiveErrors)
		assert.Nil(t, status.LastError)
	})
}

func TestPostgresStore_ScheduleOperations(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	next := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)

	schedule := &models.SyncSchedule{
		Name:        "nightly reviews",
		Active:      true,
		Frequency:   models.FrequencyDaily,
		Scope:       models.SyncScope{Type: models.ScopeByState, StateFilter: "CA"},
		SyncReviews: true,
		NextRunAt:   &next,
	}

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, store.CreateSyncSchedule(ctx, schedule))
		require.NotZero(t, schedule.ID)

		got, err := store.GetSyncSchedule(ctx, schedule.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "nightly reviews", got.Name)
		assert.Equal(t, models.ScopeByState, got.Scope.Type)
		assert.Equal(t, "CA", got.Scope.StateFilter)
		require.NotNil(t, got.NextRunAt)
		assert.WithinDuration(t, next, *got.NextRunAt, time.Second)
	})

	t.Run("list active only", func(t *testing.T) {
		inactive := &models.SyncSchedule{
			Name:      "paused",
			Active:    false,
			Frequency: models.FrequencyWeekly,
		}
		require.NoError(t, store.CreateSyncSchedule(ctx, inactive))

		all, err := store.ListSyncSchedules(ctx, false)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		active, err := store.ListSyncSchedules(ctx, true)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, schedule.ID, active[0].ID)
	})

	t.Run("mark executed", func(t *testing.T) {
		lastRun := time.Now().UTC().Truncate(time.Second)
		nextRun := lastRun.Add(24 * time.Hour)
		require.NoError(t, store.MarkScheduleExecuted(ctx, schedule.ID, models.ScheduleRunCompleted, lastRun, &nextRun))

		got, err := store.GetSyncSchedule(ctx, schedule.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastRunAt)
		assert.WithinDuration(t, lastRun, *got.LastRunAt, time.Second)
		require.NotNil(t, got.LastRunStatus)
		assert.Equal(t, models.ScheduleRunCompleted, *got.LastRunStatus)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteSyncSchedule(ctx, schedule.ID))

		got, err := store.GetSyncSchedule(ctx, schedule.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestPostgresStore_SyncLogOperations(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	log := &models.SyncLog{
		Status:    models.SyncLogInProgress,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.CreateSyncLog(ctx, log))
	require.NotZero(t, log.ID)

	lastError := "provider call failed"
	result := &models.BulkSyncResult{
		TotalProcessed: 3,
		SuccessCount:   1,
		ErrorCount:     1,
		SkippedCount:   1,
	}
	require.NoError(t, store.CompleteSyncLog(ctx, log.ID, models.SyncLogCompleted, result, &lastError))

	logs, err := store.ListSyncLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.SyncLogCompleted, logs[0].Status)
	assert.Equal(t, 3, logs[0].ClinicsProcessed)
	assert.Equal(t, 1, logs[0].SuccessCount)
	assert.Equal(t, 1, logs[0].ErrorCount)
	assert.Equal(t, 1, logs[0].SkippedCount)
	require.NotNil(t, logs[0].FinishedAt)
	require.NotNil(t, logs[0].LastError)
	assert.Equal(t, lastError, *logs[0].LastError)
}
