package sync

import (
	"fmt"
	"time"

	"github.com/clinicatlas/places-sync/internal/models"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// CalculateNextRun returns the next due time for a schedule frequency,
// pinned to preferredHour:00 local time. Manual frequencies have no next
// run. The returned time is always strictly in the future at call time: a
// stale lastRun falls back to recomputing from now.
func CalculateNextRun(frequency models.SyncFrequency, lastRun *time.Time, preferredHour int) *time.Time {
	if frequency == models.FrequencyManual {
		return nil
	}

	now := timeNow()
	base := now
	if lastRun != nil {
		base = *lastRun
	}

	next := pinHour(advance(base, frequency), preferredHour)
	if !next.After(now) {
		next = pinHour(advance(now, frequency), preferredHour)
	}

	return &next
}

func advance(t time.Time, frequency models.SyncFrequency) time.Time {
	switch frequency {
	case models.FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	}
	return t
}

func pinHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}

// IsScheduleDue reports whether a schedule should run now. Manual and
// inactive schedules are never auto-due; a nil next-run on an active
// recurring schedule means it has never been computed and is due.
func IsScheduleDue(schedule *models.SyncSchedule) bool {
	if schedule == nil || !schedule.Active || schedule.Frequency == models.FrequencyManual {
		return false
	}
	if schedule.NextRunAt == nil {
		return true
	}
	return !timeNow().Before(*schedule.NextRunAt)
}

// ScheduleSyncCategories projects a schedule's category flags into the
// category list consumed by the syncers.
func ScheduleSyncCategories(schedule *models.SyncSchedule) []models.SyncCategory {
	var categories []models.SyncCategory
	if schedule.SyncReviews {
		categories = append(categories, models.CategoryReviews)
	}
	if schedule.SyncHours {
		categories = append(categories, models.CategoryHours)
	}
	if schedule.SyncPhotos {
		categories = append(categories, models.CategoryPhotos)
	}
	if schedule.SyncContact {
		categories = append(categories, models.CategoryContact)
	}
	if schedule.SyncLocation {
		categories = append(categories, models.CategoryLocation)
	}
	return categories
}

// EstimateSyncDuration predicts how long a run over count clinics takes,
// given the admission rate and a fixed per-clinic overhead, and a
// human-readable bucketed description.
func EstimateSyncDuration(count int, requestsPerSecond float64, overheadPerClinic time.Duration) (time.Duration, string) {
	if count <= 0 {
		return 0, "less than a second"
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}

	perClinic := time.Duration(float64(time.Second)/requestsPerSecond) + overheadPerClinic
	total := time.Duration(count) * perClinic

	return total, describeDuration(total)
}

func describeDuration(d time.Duration) string {
	seconds := int(d.Round(time.Second) / time.Second)
	switch {
	case seconds < 1:
		return "less than a second"
	case seconds < 60:
		return "about " + pluralize(seconds, "second")
	case seconds < 3600:
		return "about " + pluralize((seconds+59)/60, "minute")
	default:
		hours := seconds / 3600
		minutes := (seconds % 3600) / 60
		if minutes == 0 {
			return "about " + pluralize(hours, "hour")
		}
		return "about " + pluralize(hours, "hour") + " " + pluralize(minutes, "minute")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
