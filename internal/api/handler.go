package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinicatlas/places-sync/internal/config"
	"github.com/clinicatlas/places-sync/internal/db"
	apperrors "github.com/clinicatlas/places-sync/internal/errors"
	"github.com/clinicatlas/places-sync/internal/models"
	"github.com/clinicatlas/places-sync/internal/sync"
)

// Handler exposes the sync subsystem over HTTP.
type Handler struct {
	store     db.Store
	syncer    sync.ClinicSyncer
	bulk      sync.BulkClinicSyncer
	scopes    sync.Resolver
	executor  *sync.Executor
	placesCfg *config.PlacesConfig
	syncCfg   *config.SyncConfig
	logger    *logrus.Logger
}

// NewHandler creates a new API handler.
func NewHandler(store db.Store, syncer sync.ClinicSyncer, bulk sync.BulkClinicSyncer, scopes sync.Resolver, executor *sync.Executor, placesCfg *config.PlacesConfig, syncCfg *config.SyncConfig, logger *logrus.Logger) *Handler {
	return &Handler{
		store:     store,
		syncer:    syncer,
		bulk:      bulk,
		scopes:    scopes,
		executor:  executor,
		placesCfg: placesCfg,
		syncCfg:   syncCfg,
		logger:    logger,
	}
}

// SyncClinic triggers a sync for one clinic.
func (h *Handler) SyncClinic(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid clinic ID")
		return
	}

	var req SyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if !validCategories(req.Categories) {
		respondError(c, http.StatusBadRequest, "Invalid sync category")
		return
	}

	result := h.syncer.SyncClinic(c.Request.Context(), id, sync.SyncOptions{
		Categories: req.Categories,
	})
	c.JSON(statusForResult(result), result)
}

// GetSyncStatus returns the sync bookkeeping row for a clinic.
func (h *Handler) GetSyncStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid clinic ID")
		return
	}

	status, err := h.store.GetSyncStatus(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get sync status")
		respondError(c, http.StatusInternalServerError, "Failed to get sync status")
		return
	}
	if status == nil {
		respondError(c, http.StatusNotFound, "No sync status for clinic")
		return
	}

	c.JSON(http.StatusOK, status)
}

// ResetSyncErrors clears a clinic's error counter, re-arming its sync.
func (h *Handler) ResetSyncErrors(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid clinic ID")
		return
	}

	if err := h.store.ResetSyncErrors(c.Request.Context(), id); err != nil {
		h.logger.WithError(err).Error("Failed to reset sync errors")
		respondError(c, http.StatusInternalServerError, "Failed to reset sync errors")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// BulkSync resolves a scope and runs it synchronously.
func (h *Handler) BulkSync(c *gin.Context) {
	var req BulkSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validScope(req.Scope) {
		respondError(c, http.StatusBadRequest, "Invalid sync scope")
		return
	}
	if !validCategories(req.Categories) {
		respondError(c, http.StatusBadRequest, "Invalid sync category")
		return
	}

	ids, err := h.scopes.ResolveScope(c.Request.Context(), req.Scope)
	if err != nil {
		if apperrors.IsInvalidInput(err) {
			respondError(c, http.StatusBadRequest, "Invalid sync scope")
			return
		}
		h.logger.WithError(err).Error("Failed to resolve sync scope")
		respondError(c, http.StatusInternalServerError, "Failed to resolve sync scope")
		return
	}

	result := h.bulk.SyncBulk(c.Request.Context(), ids, sync.BulkOptions{
		Categories:            req.Categories,
		SkipClinicsWithErrors: req.SkipClinicsWithErrors,
	})
	c.JSON(http.StatusOK, result)
}

// EstimateSync predicts the duration of a bulk run over a scope.
func (h *Handler) EstimateSync(c *gin.Context) {
	scope := models.SyncScope{
		Type:        models.SyncScopeType(c.DefaultQuery("scope", string(models.ScopeAll))),
		StateFilter: c.Query("state"),
	}
	if !validScope(scope) {
		respondError(c, http.StatusBadRequest, "Invalid sync scope")
		return
	}

	ids, err := h.scopes.ResolveScope(c.Request.Context(), scope)
	if err != nil {
		if apperrors.IsInvalidInput(err) {
			respondError(c, http.StatusBadRequest, "Invalid sync scope")
			return
		}
		h.logger.WithError(err).Error("Failed to resolve sync scope")
		respondError(c, http.StatusInternalServerError, "Failed to resolve sync scope")
		return
	}

	duration, description := sync.EstimateSyncDuration(
		len(ids),
		h.placesCfg.RateLimit.RequestsPerSecond,
		h.syncCfg.OverheadPerClinic,
	)
	c.JSON(http.StatusOK, EstimateResponse{
		ClinicCount:      len(ids),
		EstimatedSeconds: duration.Seconds(),
		Description:      description,
	})
}

// ListSyncLogs returns recent sync run logs, newest first.
func (h *Handler) ListSyncLogs(c *gin.Context) {
	limit, err := intQuery(c, "limit", 50)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid limit parameter")
		return
	}

	logs, err := h.store.ListSyncLogs(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list sync logs")
		respondError(c, http.StatusInternalServerError, "Failed to list sync logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}

// CreateSchedule registers a new recurring sync schedule.
func (h *Handler) CreateSchedule(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Frequency.IsValid() {
		respondError(c, http.StatusBadRequest, "Invalid schedule frequency")
		return
	}
	if !validScope(req.Scope) {
		respondError(c, http.StatusBadRequest, "Invalid sync scope")
		return
	}

	schedule := scheduleFromRequest(&req)
	schedule.NextRunAt = sync.CalculateNextRun(schedule.Frequency, nil, h.syncCfg.PreferredHour)

	if err := h.store.CreateSyncSchedule(c.Request.Context(), schedule); err != nil {
		h.logger.WithError(err).Error("Failed to create schedule")
		respondError(c, http.StatusInternalServerError, "Failed to create schedule")
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// ListSchedules returns all schedules, optionally only active ones.
func (h *Handler) ListSchedules(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	schedules, err := h.store.ListSyncSchedules(c.Request.Context(), activeOnly)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list schedules")
		respondError(c, http.StatusInternalServerError, "Failed to list schedules")
		return
	}

	c.JSON(http.StatusOK, schedules)
}

// GetSchedule returns one schedule.
func (h *Handler) GetSchedule(c *gin.Context) {
	schedule, ok := h.loadSchedule(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// UpdateSchedule replaces a schedule's configuration. A frequency change
// recomputes the next run from the last run.
func (h *Handler) UpdateSchedule(c *gin.Context) {
	schedule, ok := h.loadSchedule(c)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Frequency.IsValid() {
		respondError(c, http.StatusBadRequest, "Invalid schedule frequency")
		return
	}
	if !validScope(req.Scope) {
		respondError(c, http.StatusBadRequest, "Invalid sync scope")
		return
	}

	frequencyChanged := schedule.Frequency != req.Frequency

	updated := scheduleFromRequest(&req)
	updated.ID = schedule.ID
	updated.LastRunAt = schedule.LastRunAt
	updated.LastRunStatus = schedule.LastRunStatus
	updated.NextRunAt = schedule.NextRunAt
	if frequencyChanged {
		updated.NextRunAt = sync.CalculateNextRun(updated.Frequency, schedule.LastRunAt, h.syncCfg.PreferredHour)
	}

	if err := h.store.UpdateSyncSchedule(c.Request.Context(), updated); err != nil {
		h.logger.WithError(err).Error("Failed to update schedule")
		respondError(c, http.StatusInternalServerError, "Failed to update schedule")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteSchedule removes a schedule.
func (h *Handler) DeleteSchedule(c *gin.Context) {
	schedule, ok := h.loadSchedule(c)
	if !ok {
		return
	}

	if err := h.store.DeleteSyncSchedule(c.Request.Context(), schedule.ID); err != nil {
		h.logger.WithError(err).Error("Failed to delete schedule")
		respondError(c, http.StatusInternalServerError, "Failed to delete schedule")
		return
	}

	c.Status(http.StatusNoContent)
}

// RunSchedule triggers one schedule immediately, due or not.
func (h *Handler) RunSchedule(c *gin.Context) {
	schedule, ok := h.loadSchedule(c)
	if !ok {
		return
	}

	if err := h.executor.RunSchedule(c.Request.Context(), schedule); err != nil {
		h.logger.WithError(err).Error("Schedule run failed")
		respondError(c, http.StatusInternalServerError, "Schedule run failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// RunDueSchedules sweeps all active schedules and runs the due ones.
func (h *Handler) RunDueSchedules(c *gin.Context) {
	ran, err := h.executor.RunDueSchedules(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to run due schedules")
		respondError(c, http.StatusInternalServerError, "Failed to run due schedules")
		return
	}

	c.JSON(http.StatusOK, RunDueResponse{SchedulesRun: ran})
}

func (h *Handler) loadSchedule(c *gin.Context) (*models.SyncSchedule, bool) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid schedule ID")
		return nil, false
	}

	schedule, err := h.store.GetSyncSchedule(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get schedule")
		respondError(c, http.StatusInternalServerError, "Failed to get schedule")
		return nil, false
	}
	if schedule == nil {
		respondError(c, http.StatusNotFound, "Schedule not found")
		return nil, false
	}

	return schedule, true
}

func scheduleFromRequest(req *ScheduleRequest) *models.SyncSchedule {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &models.SyncSchedule{
		Name:         req.Name,
		Active:       active,
		Frequency:    req.Frequency,
		Scope:        req.Scope,
		SyncReviews:  req.SyncReviews,
		SyncHours:    req.SyncHours,
		SyncPhotos:   req.SyncPhotos,
		SyncContact:  req.SyncContact,
		SyncLocation: req.SyncLocation,
	}
}

func statusForResult(result *models.SyncResult) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.ErrorType {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrNotSyncable:
		return http.StatusBadRequest
	case apperrors.ErrCircuitOpen:
		return http.StatusConflict
	case apperrors.ErrProvider, apperrors.ErrTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func validCategories(categories []models.SyncCategory) bool {
	for _, category := range categories {
		if !category.IsValid() {
			return false
		}
	}
	return true
}

func validScope(scope models.SyncScope) bool {
	switch scope.Type {
	case models.ScopeAll, models.ScopeByState, models.ScopeMissingData, "":
		return true
	case models.ScopeSelected:
		return len(scope.ClinicIDs) > 0
	}
	return false
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func intQuery(c *gin.Context, param string, defaultValue int) (int, error) {
	value := c.Query(param)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
