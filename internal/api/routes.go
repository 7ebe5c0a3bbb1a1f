package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Clinic Places Sync API
// @version 1.0
// @description API for synchronizing clinic directory data with Google Places
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// SetupRouter configures the API routes
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 group
	v1 := r.Group("/api/v1")
	{
		clinics := v1.Group("/clinics/:id")
		{
			// @Summary Sync a clinic
			// @Description Fetch fresh Places data for one clinic and persist detected changes
			// @Tags clinics
			// @Accept json
			// @Produce json
			// @Param id path int true "Clinic ID"
			// @Param request body SyncRequest false "Categories to sync (all when omitted)"
			// @Success 200 {object} models.SyncResult
			// @Failure 400 {object} ErrorResponse
			// @Failure 404 {object} ErrorResponse
			// @Failure 409 {object} ErrorResponse "Sync disabled after repeated errors"
			// @Failure 500 {object} ErrorResponse
			// @Router /clinics/{id}/sync [post]
			clinics.POST("/sync", h.SyncClinic)

			// @Summary Get clinic sync status
			// @Description Get per-category sync timestamps and the error counter for a clinic
			// @Tags clinics
			// @Accept json
			// @Produce json
			// @Param id path int true "Clinic ID"
			// @Success 200 {object} models.SyncStatus
			// @Failure 404 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /clinics/{id}/sync-status [get]
			clinics.GET("/sync-status", h.GetSyncStatus)

			// @Summary Reset clinic sync errors
			// @Description Clear the consecutive error counter so sync attempts resume
			// @Tags clinics
			// @Accept json
			// @Produce json
			// @Param id path int true "Clinic ID"
			// @Success 200 {object} map[string]string "Reset status"
			// @Failure 400 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /clinics/{id}/sync-status/reset [post]
			clinics.POST("/sync-status/reset", h.ResetSyncErrors)
		}

		syncGroup := v1.Group("/sync")
		{
			// @Summary Run a bulk sync
			// @Description Resolve a clinic scope and sync every clinic in it sequentially
			// @Tags sync
			// @Accept json
			// @Produce json
			// @Param request body BulkSyncRequest true "Bulk sync request"
			// @Success 200 {object} models.BulkSyncResult
			// @Failure 400 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /sync/bulk [post]
			syncGroup.POST("/bulk", h.BulkSync)

			// @Summary Estimate a bulk sync
			// @Description Predict how long syncing a scope would take under the current rate limit
			// @Tags sync
			// @Accept json
			// @Produce json
			// @Param scope query string false "Scope type" default(all)
			// @Param state query string false "State filter for by_state scopes"
			// @Success 200 {object} EstimateResponse
			// @Failure 400 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /sync/estimate [get]
			syncGroup.GET("/estimate", h.EstimateSync)

			// @Summary List sync logs
			// @Description Get recent bulk sync run logs, newest first
			// @Tags sync
			// @Accept json
			// @Produce json
			// @Param limit query int false "Number of logs to return" default(50)
			// @Success 200 {array} models.SyncLog
			// @Failure 400 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /sync/logs [get]
			syncGroup.GET("/logs", h.ListSyncLogs)
		}

		schedules := v1.Group("/schedules")
		{
			// @Summary List sync schedules
			// @Description Get all configured schedules, optionally only active ones
			// @Tags schedules
			// @Accept json
			// @Produce json
			// @Param active query bool false "Only active schedules"
			// @Success 200 {array} models.SyncSchedule
			// @Failure 500 {object} ErrorResponse
			// @Router /schedules [get]
			schedules.GET("", h.ListSchedules)

			// @Summary Create a sync schedule
			// @Description Register a new recurring sync schedule
			// @Tags schedules
			// @Accept json
			// @Produce json
			// @Param request body ScheduleRequest true "Schedule definition"
			// @Success 201 {object} models.SyncSchedule
			// @Failure 400 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /schedules [post]
			schedules.POST("", h.CreateSchedule)

			// @Summary Run due schedules
			// @Description Sweep all active schedules and run every one whose next run has passed
			// @Tags schedules
			// @Accept json
			// @Produce json
			// @Success 200 {object} RunDueResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /schedules/run-due [post]
			schedules.POST("/run-due", h.RunDueSchedules)

			// @Summary Get a sync schedule
			// @Description Get one schedule by id
			// @Tags schedules
			// @Accept json
			// @Produce json
			// @Param id path int true "Schedule ID"
			// @Success 200 {object} models.SyncSchedule
			// @Failure 404 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /schedules/{id} [get]
			schedules.GET("/:id", h.GetSchedule)

			// @Summary Update a sync schedule
			// @Description Replace a schedule's configuration
			// @Tags schedules
			// @Accept json
			// @Produce json
			// @Param id path int true "Schedule ID"
			// @Param request body ScheduleRequest true "Schedule definition"
			// @Success 200 {object} models.SyncSchedule
			// @Failure 400 {object} ErrorResponse
			// @Failure 404 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /schedules/{id} [put]
			schedules.PUT("/:id", h.UpdateSchedule)

			// @Summary Delete a sync schedule
			// @Description Remove a schedule
			// @Tags schedules
			// @Accept json
			// @Produce json
			// @Param id path int true "Schedule ID"
			// @Success 204 "No Content"
			// @Failure 404 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /schedules/{id} [delete]
			schedules.DELETE("/:id", h.DeleteSchedule)

			// @Summary Run a schedule now
			// @Description Execute one schedule immediately regardless of its next run time
			// @Tags schedules
			// @Accept json
			// @Produce json
			// @Param id path int true "Schedule ID"
			// @Success 200 {object} map[string]string "Run status"
			// @Failure 404 {object} ErrorResponse
			// @Failure 500 {object} ErrorResponse
			// @Router /schedules/{id}/run [post]
			schedules.POST("/:id/run", h.RunSchedule)
		}
	}

	return r
}
