package sync

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinicatlas/places-sync/internal/config"
	"github.com/clinicatlas/places-sync/internal/db"
	apperrors "github.com/clinicatlas/places-sync/internal/errors"
	"github.com/clinicatlas/places-sync/internal/models"
)

// BulkOptions configures one bulk sync run.
type BulkOptions struct {
	// Categories to sync per clinic; defaults to all when empty.
	Categories []models.SyncCategory
	// OnProgress, when set, is called once per clinic as the run reaches
	// it, with "skipped" or "error" for clinics that get no attempt, and
	// once when the run ends.
	OnProgress func(models.BulkProgress)
	// SkipClinicsWithErrors skips circuit-broken clinics without
	// attempting them instead of failing them.
	SkipClinicsWithErrors bool
	// Delay between iterations; defaults to the configured politeness
	// delay.
	Delay time.Duration
}

// BulkSyncer iterates a clinic id list strictly sequentially, delegating
// each attempt to the single-clinic syncer. Cancellation is cooperative and
// observed once per iteration boundary; an in-flight provider call is never
// cut short.
type BulkSyncer struct {
	store  db.Store
	syncer ClinicSyncer
	config *config.SyncConfig
	logger *logrus.Logger
}

// NewBulkSyncer creates a new bulk syncer.
func NewBulkSyncer(store db.Store, syncer ClinicSyncer, cfg *config.SyncConfig, logger *logrus.Logger) *BulkSyncer {
	return &BulkSyncer{
		store:  store,
		syncer: syncer,
		config: cfg,
		logger: logger,
	}
}

// SyncBulk processes ids in input order. Clinics without a place ID, and
// circuit-broken clinics when SkipClinicsWithErrors is set, are counted as
// skipped without an attempt. Individual failures never abort the run.
func (b *BulkSyncer) SyncBulk(ctx context.Context, ids []int64, opts BulkOptions) *models.BulkSyncResult {
	delay := opts.Delay
	if delay <= 0 {
		delay = b.config.BulkDelay
	}

	logger := b.logger.WithFields(logrus.Fields{
		"total":      len(ids),
		"categories": opts.Categories,
	})
	logger.Info("Starting bulk sync")

	result := &models.BulkSyncResult{}

	for i, id := range ids {
		if ctx.Err() != nil {
			result.Aborted = true
			break
		}

		clinic, err := b.store.GetClinicForSync(ctx, id)
		if err != nil {
			b.emitProgress(opts, models.BulkProgress{
				Current: i + 1, Total: len(ids), ClinicID: id, Status: "error",
			})
			result.TotalProcessed++
			result.ErrorCount++
			b.recordError(result, id, "failed to load clinic: "+err.Error())
			result.Results = append(result.Results, &models.SyncResult{
				ClinicID:  id,
				Error:     "failed to load clinic: " + err.Error(),
				ErrorType: apperrors.ErrPersistence,
			})
			continue
		}

		if clinic == nil {
			b.emitProgress(opts, models.BulkProgress{
				Current: i + 1, Total: len(ids), ClinicID: id, Status: "error",
			})
			result.TotalProcessed++
			result.ErrorCount++
			b.recordError(result, id, "clinic not found")
			result.Results = append(result.Results, &models.SyncResult{
				ClinicID:  id,
				Error:     "clinic not found",
				ErrorType: apperrors.ErrNotFound,
			})
			continue
		}

		if !clinic.HasPlaceID() {
			b.emitProgress(opts, models.BulkProgress{
				Current: i + 1, Total: len(ids), ClinicID: id, ClinicName: clinic.Name, Status: "skipped",
			})
			result.TotalProcessed++
			result.SkippedCount++
			continue
		}

		if opts.SkipClinicsWithErrors {
			status, err := b.store.GetSyncStatus(ctx, id)
			if err == nil && status != nil && status.ConsecutiveErrors >= b.config.CircuitThreshold {
				b.emitProgress(opts, models.BulkProgress{
					Current: i + 1, Total: len(ids), ClinicID: id, ClinicName: clinic.Name, Status: "skipped",
				})
				result.TotalProcessed++
				result.SkippedCount++
				continue
			}
		}

		b.emitProgress(opts, models.BulkProgress{
			Current:    i + 1,
			Total:      len(ids),
			ClinicID:   id,
			ClinicName: clinic.Name,
			Status:     "syncing",
		})

		attempt := b.syncer.SyncClinic(ctx, id, SyncOptions{
			Categories:       opts.Categories,
			SkipCircuitCheck: true,
		})

		// An attempt cut short by cancellation was not really processed;
		// the next run picks the clinic up again.
		if attempt.ErrorType == apperrors.ErrCancelled {
			result.Aborted = true
			break
		}

		result.TotalProcessed++
		result.Results = append(result.Results, attempt)
		if attempt.Success {
			result.SuccessCount++
		} else {
			result.ErrorCount++
			b.recordError(result, id, attempt.Error)
		}

		if i < len(ids)-1 {
			select {
			case <-ctx.Done():
				result.Aborted = true
			case <-time.After(delay):
			}
			if result.Aborted {
				break
			}
		}
	}

	finalStatus := "completed"
	if result.Aborted {
		finalStatus = "aborted"
	}
	b.emitProgress(opts, models.BulkProgress{
		Current: result.TotalProcessed,
		Total:   len(ids),
		Status:  finalStatus,
	})

	logger.WithFields(logrus.Fields{
		"processed": result.TotalProcessed,
		"success":   result.SuccessCount,
		"errors":    result.ErrorCount,
		"skipped":   result.SkippedCount,
		"aborted":   result.Aborted,
	}).Info("Bulk sync finished")

	return result
}

func (b *BulkSyncer) emitProgress(opts BulkOptions, progress models.BulkProgress) {
	if opts.OnProgress != nil {
		opts.OnProgress(progress)
	}
}

func (b *BulkSyncer) recordError(result *models.BulkSyncResult, clinicID int64, message string) {
	if len(result.Errors) >= b.config.MaxBulkErrors {
		return
	}
	result.Errors = append(result.Errors, models.SyncError{
		ClinicID:  clinicID,
		Error:     message,
		Timestamp: time.Now(),
	})
}
