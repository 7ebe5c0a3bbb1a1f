package sync

import (
	"context"
	"fmt"

	"github.com/clinicatlas/places-sync/internal/db"
	apperrors "github.com/clinicatlas/places-sync/internal/errors"
	"github.com/clinicatlas/places-sync/internal/models"
)

// ScopeResolver computes the candidate clinic id list for a sync run.
type ScopeResolver struct {
	store db.Store
}

// NewScopeResolver creates a new scope resolver.
func NewScopeResolver(store db.Store) *ScopeResolver {
	return &ScopeResolver{store: store}
}

// ResolveScope returns the clinic ids covered by a scope. Selected scopes
// pass their id list through verbatim; every other scope is restricted to
// clinics holding a place ID.
func (r *ScopeResolver) ResolveScope(ctx context.Context, scope models.SyncScope) ([]int64, error) {
	switch scope.Type {
	case models.ScopeSelected:
		return scope.ClinicIDs, nil
	case models.ScopeByState:
		return r.store.ListClinicIDsWithPlaceID(ctx, scope.StateFilter)
	case models.ScopeMissingData:
		return r.store.ListClinicIDsMissingData(ctx)
	case models.ScopeAll, "":
		return r.store.ListClinicIDsWithPlaceID(ctx, "")
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown sync scope: %q", scope.Type), nil)
	}
}
