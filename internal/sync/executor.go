package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinicatlas/places-sync/internal/config"
	"github.com/clinicatlas/places-sync/internal/db"
	"github.com/clinicatlas/places-sync/internal/models"
)

// Executor runs due schedules. It is driven by an external trigger (the
// server's ticker or an admin endpoint); it never owns a timer itself.
type Executor struct {
	store  db.Store
	bulk   BulkClinicSyncer
	scopes Resolver
	config *config.SyncConfig
	logger *logrus.Logger
}

// NewExecutor creates a new schedule executor.
func NewExecutor(store db.Store, bulk BulkClinicSyncer, scopes Resolver, cfg *config.SyncConfig, logger *logrus.Logger) *Executor {
	return &Executor{
		store:  store,
		bulk:   bulk,
		scopes: scopes,
		config: cfg,
		logger: logger,
	}
}

// RunDueSchedules executes every active schedule whose next run is due and
// returns the number of schedules run. Schedules are processed one at a
// time; one schedule's failure does not stop the rest.
func (e *Executor) RunDueSchedules(ctx context.Context) (int, error) {
	schedules, err := e.store.ListSyncSchedules(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("failed to list schedules: %w", err)
	}

	ran := 0
	for _, schedule := range schedules {
		if ctx.Err() != nil {
			return ran, ctx.Err()
		}
		if !IsScheduleDue(schedule) {
			continue
		}
		if err := e.RunSchedule(ctx, schedule); err != nil {
			e.logger.WithError(err).WithField("schedule_id", schedule.ID).
				Error("Schedule run failed")
		}
		ran++
	}

	return ran, nil
}

// RunSchedule executes one schedule regardless of due state: resolve its
// scope, open a sync log, run the bulk sync with the schedule's categories,
// then finalize the log and stamp the schedule's run bookkeeping.
func (e *Executor) RunSchedule(ctx context.Context, schedule *models.SyncSchedule) error {
	logger := e.logger.WithFields(logrus.Fields{
		"schedule_id": schedule.ID,
		"schedule":    schedule.Name,
	})
	logger.Info("Running sync schedule")

	startedAt := time.Now()
	categories := ScheduleSyncCategories(schedule)

	ids, err := e.scopes.ResolveScope(ctx, schedule.Scope)
	if err != nil {
		e.finishSchedule(ctx, schedule, models.ScheduleRunFailed, startedAt)
		return fmt.Errorf("failed to resolve scope: %w", err)
	}

	syncLog := &models.SyncLog{
		ScheduleID: &schedule.ID,
		Status:     models.SyncLogInProgress,
		StartedAt:  startedAt,
	}
	if err := e.store.CreateSyncLog(ctx, syncLog); err != nil {
		e.finishSchedule(ctx, schedule, models.ScheduleRunFailed, startedAt)
		return fmt.Errorf("failed to create sync log: %w", err)
	}

	result := e.bulk.SyncBulk(ctx, ids, BulkOptions{
		Categories:            categories,
		SkipClinicsWithErrors: true,
	})

	logStatus := models.SyncLogCompleted
	runStatus := models.ScheduleRunCompleted
	if result.Aborted {
		logStatus = models.SyncLogCancelled
		runStatus = models.ScheduleRunFailed
	} else if result.ErrorCount > 0 && result.SuccessCount == 0 && result.TotalProcessed > 0 {
		logStatus = models.SyncLogFailed
		runStatus = models.ScheduleRunFailed
	}

	var lastError *string
	if n := len(result.Errors); n > 0 {
		lastError = &result.Errors[n-1].Error
	}

	if err := e.store.CompleteSyncLog(ctx, syncLog.ID, logStatus, result, lastError); err != nil {
		logger.WithError(err).Error("Failed to finalize sync log")
	}

	e.finishSchedule(ctx, schedule, runStatus, startedAt)

	logger.WithFields(logrus.Fields{
		"processed": result.TotalProcessed,
		"success":   result.SuccessCount,
		"errors":    result.ErrorCount,
		"skipped":   result.SkippedCount,
		"status":    logStatus,
	}).Info("Sync schedule finished")

	return nil
}

func (e *Executor) finishSchedule(ctx context.Context, schedule *models.SyncSchedule, status string, lastRun time.Time) {
	nextRun := CalculateNextRun(schedule.Frequency, &lastRun, e.config.PreferredHour)
	if err := e.store.MarkScheduleExecuted(ctx, schedule.ID, status, lastRun, nextRun); err != nil {
		e.logger.WithError(err).WithField("schedule_id", schedule.ID).
			Error("Failed to mark schedule executed")
	}
}
