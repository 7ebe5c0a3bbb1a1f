package config

import "time"

// SyncConfig holds synchronization configuration
type SyncConfig struct {
	// CircuitThreshold is the consecutive-error count at which automatic
	// sync attempts stop for a clinic.
	CircuitThreshold int
	// BulkDelay is the politeness pause between bulk-sync iterations.
	BulkDelay time.Duration
	// PreferredHour pins scheduled runs to this hour of day.
	PreferredHour int
	// OverheadPerClinic is the non-network cost assumed per clinic when
	// estimating run duration.
	OverheadPerClinic time.Duration
	// MaxBulkErrors bounds the per-run error list returned to callers.
	MaxBulkErrors int
}

// DefaultSyncConfig returns the default sync configuration
func DefaultSyncConfig() *SyncConfig {
	return &SyncConfig{
		CircuitThreshold:  3,
		BulkDelay:         100 * time.Millisecond,
		PreferredHour:     3,
		OverheadPerClinic: 200 * time.Millisecond,
		MaxBulkErrors:     100,
	}
}
