package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinicatlas/places-sync/internal/config"
	"github.com/clinicatlas/places-sync/internal/db"
	apperrors "github.com/clinicatlas/places-sync/internal/errors"
	"github.com/clinicatlas/places-sync/internal/models"
	"github.com/clinicatlas/places-sync/internal/placesapi"
	"github.com/clinicatlas/places-sync/internal/ratelimit"
)

// SyncOptions configures one single-clinic sync attempt.
type SyncOptions struct {
	// Categories to sync; defaults to all categories when empty.
	Categories []models.SyncCategory
	// SkipCircuitCheck bypasses the consecutive-error gate. Used by the
	// bulk syncer, which applies its own skip rule, and by explicit
	// admin retries.
	SkipCircuitCheck bool
}

// Syncer runs the per-clinic sync state machine: load, circuit check, fetch
// through the rate limiter, map, diff, persist, update status.
type Syncer struct {
	store   db.Store
	client  PlacesClient
	limiter *ratelimit.Limiter
	config  *config.SyncConfig
	logger  *logrus.Logger
}

// NewSyncer creates a new single-clinic syncer.
func NewSyncer(store db.Store, client PlacesClient, limiter *ratelimit.Limiter, cfg *config.SyncConfig, logger *logrus.Logger) *Syncer {
	return &Syncer{
		store:   store,
		client:  client,
		limiter: limiter,
		config:  cfg,
		logger:  logger,
	}
}

// SyncClinic runs one sync attempt for a clinic. Every failure mode except a
// store write error after a successful fetch is reported as a structured
// result; no error escapes as a panic. The returned result always carries
// the number of provider calls made.
func (s *Syncer) SyncClinic(ctx context.Context, clinicID int64, opts SyncOptions) *models.SyncResult {
	categories := opts.Categories
	if len(categories) == 0 {
		categories = models.AllCategories
	}

	logger := s.logger.WithFields(logrus.Fields{
		"clinic_id":  clinicID,
		"categories": categories,
	})

	result := &models.SyncResult{ClinicID: clinicID}

	clinic, err := s.store.GetClinicForSync(ctx, clinicID)
	if err != nil {
		logger.WithError(err).Error("Failed to load clinic")
		return fail(result, apperrors.NewPersistenceError(fmt.Sprintf("failed to load clinic: %v", err), err))
	}
	if clinic == nil {
		return fail(result, apperrors.NewNotFoundError("clinic not found", nil))
	}

	if !clinic.HasPlaceID() {
		return fail(result, apperrors.NewNotSyncableError(clinicID))
	}
	result.PlaceID = *clinic.PlaceID

	if !opts.SkipCircuitCheck {
		status, err := s.store.GetSyncStatus(ctx, clinicID)
		if err != nil {
			logger.WithError(err).Error("Failed to load sync status")
			return fail(result, apperrors.NewPersistenceError(fmt.Sprintf("failed to load sync status: %v", err), err))
		}
		if status != nil && status.ConsecutiveErrors >= s.config.CircuitThreshold {
			logger.WithField("consecutive_errors", status.ConsecutiveErrors).
				Warn("Skipping sync for circuit-broken clinic")
			return fail(result, apperrors.NewCircuitOpenError(clinicID, status.ConsecutiveErrors))
		}
	}

	fieldMask := placesapi.BuildFieldMask(categories)

	var details *placesapi.PlaceDetails
	called := false
	fetchErr := s.limiter.Execute(ctx, func() error {
		called = true
		var err error
		details, err = s.client.GetPlaceDetails(ctx, result.PlaceID, fieldMask)
		return err
	})
	if called {
		result.APICalls = 1
	}

	if fetchErr != nil {
		// A caller-side cancellation is not a provider fault: the counter
		// tracks provider health, so the attempt ends without feeding it.
		if ctx.Err() != nil {
			logger.WithError(fetchErr).Warn("Sync attempt cancelled")
			return fail(result, apperrors.NewCancelledError(clinicID, fetchErr))
		}
		logger.WithError(fetchErr).Error("Provider call failed")
		message := fmt.Sprintf("provider call failed: %v", fetchErr)
		appErr := apperrors.NewProviderError(message, fetchErr)
		if placesapi.IsTimeout(fetchErr) {
			appErr = apperrors.NewTimeoutError(message, fetchErr)
		}
		s.recordFailure(ctx, clinicID, message, logger)
		return fail(result, appErr)
	}

	patch := placesapi.MapPlaceToClinic(details, categories)
	changes := DetectChanges(clinic, patch)

	if len(changes) > 0 {
		if err := s.store.UpdateClinicFields(ctx, clinicID, patch); err != nil {
			// A store write failure is not a provider fault: report it
			// without feeding the circuit counter.
			logger.WithError(err).Error("Failed to persist clinic fields")
			return fail(result, apperrors.NewPersistenceError(fmt.Sprintf("failed to persist changes: %v", err), err))
		}
	}

	if _, err := s.store.UpsertSyncStatus(ctx, clinicID, successStatusUpdate(categories)); err != nil {
		logger.WithError(err).Error("Failed to update sync status")
		return fail(result, apperrors.NewPersistenceError(fmt.Sprintf("failed to update sync status: %v", err), err))
	}

	result.Success = true
	result.UpdatedCategories = categories
	result.Changes = changes

	logger.WithField("changes", len(changes)).Info("Clinic synced")
	return result
}

// fail stamps a structured failure onto the result.
func fail(result *models.SyncResult, appErr *apperrors.AppError) *models.SyncResult {
	result.Error = appErr.Message
	result.ErrorType = appErr.Type
	return result
}

// recordFailure bumps the clinic's consecutive-error counter with the error
// message. Failures of the bookkeeping write itself are only logged; the
// sync result already carries the provider error.
func (s *Syncer) recordFailure(ctx context.Context, clinicID int64, message string, logger *logrus.Entry) {
	_, err := s.store.UpsertSyncStatus(ctx, clinicID, models.SyncStatusUpdate{
		IncrementErrors: true,
		LastError:       &message,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to record sync failure")
	}
}

// successStatusUpdate builds the status write for a successful attempt:
// per-category timestamps, last-full-sync when every category was covered,
// and a reset error counter.
func successStatusUpdate(categories []models.SyncCategory) models.SyncStatusUpdate {
	now := time.Now()
	zero := 0
	update := models.SyncStatusUpdate{
		ConsecutiveErrors: &zero,
		ClearLastError:    true,
	}

	for _, category := range categories {
		switch category {
		case models.CategoryReviews:
			update.ReviewsSyncedAt = &now
		case models.CategoryHours:
			update.HoursSyncedAt = &now
		case models.CategoryPhotos:
			update.PhotosSyncedAt = &now
		case models.CategoryContact:
			update.ContactSyncedAt = &now
		case models.CategoryLocation:
			update.LocationSyncedAt = &now
		}
	}

	if coversAllCategories(categories) {
		update.LastFullSyncAt = &now
	}

	return update
}

func coversAllCategories(categories []models.SyncCategory) bool {
	seen := make(map[models.SyncCategory]struct{}, len(categories))
	for _, c := range categories {
		seen[c] = struct{}{}
	}
	for _, c := range models.AllCategories {
		if _, ok := seen[c]; !ok {
			return false
		}
	}
	return true
}

// SyncReviews syncs only the reviews category for a clinic.
func (s *Syncer) SyncReviews(ctx context.Context, clinicID int64) *models.SyncResult {
	return s.SyncClinic(ctx, clinicID, SyncOptions{Categories: []models.SyncCategory{models.CategoryReviews}})
}

// SyncHours syncs only the hours category for a clinic.
func (s *Syncer) SyncHours(ctx context.Context, clinicID int64) *models.SyncResult {
	return s.SyncClinic(ctx, clinicID, SyncOptions{Categories: []models.SyncCategory{models.CategoryHours}})
}

// SyncContact syncs only the contact category for a clinic.
func (s *Syncer) SyncContact(ctx context.Context, clinicID int64) *models.SyncResult {
	return s.SyncClinic(ctx, clinicID, SyncOptions{Categories: []models.SyncCategory{models.CategoryContact}})
}

// SyncLocation syncs only the location category for a clinic.
func (s *Syncer) SyncLocation(ctx context.Context, clinicID int64) *models.SyncResult {
	return s.SyncClinic(ctx, clinicID, SyncOptions{Categories: []models.SyncCategory{models.CategoryLocation}})
}
