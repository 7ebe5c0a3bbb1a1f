package sync

import (
	"context"

	"github.com/clinicatlas/places-sync/internal/models"
	"github.com/clinicatlas/places-sync/internal/placesapi"
)

// PlacesClient defines the provider client interface consumed by the syncer.
type PlacesClient interface {
	GetPlaceDetails(ctx context.Context, placeID, fieldMask string) (*placesapi.PlaceDetails, error)
}

// ClinicSyncer defines the interface for single-clinic sync operations.
type ClinicSyncer interface {
	// SyncClinic runs one full sync attempt for a clinic.
	SyncClinic(ctx context.Context, clinicID int64, opts SyncOptions) *models.SyncResult

	// Single-category conveniences.
	SyncReviews(ctx context.Context, clinicID int64) *models.SyncResult
	SyncHours(ctx context.Context, clinicID int64) *models.SyncResult
	SyncContact(ctx context.Context, clinicID int64) *models.SyncResult
	SyncLocation(ctx context.Context, clinicID int64) *models.SyncResult
}

// BulkClinicSyncer defines the interface for bulk sync runs.
type BulkClinicSyncer interface {
	// SyncBulk processes the ids sequentially in input order.
	SyncBulk(ctx context.Context, ids []int64, opts BulkOptions) *models.BulkSyncResult
}

// Resolver computes candidate clinic ids for a sync scope.
type Resolver interface {
	ResolveScope(ctx context.Context, scope models.SyncScope) ([]int64, error)
}
