package sync

import (
	"reflect"

	"github.com/clinicatlas/places-sync/internal/models"
)

// DetectChanges compares a freshly mapped patch against the stored clinic and
// returns one change per differing field, in a fixed field order. A field
// absent on the stored clinic but present in the patch counts as a change
// from nil. Pure: no I/O.
func DetectChanges(current *models.Clinic, patch models.ClinicPatch) []models.FieldChange {
	var changes []models.FieldChange

	compare := func(field string, set bool, oldVal, newVal interface{}) {
		if !set {
			return
		}
		if oldVal != nil && reflect.DeepEqual(oldVal, newVal) {
			return
		}
		changes = append(changes, models.FieldChange{Field: field, Old: oldVal, New: newVal})
	}

	compare("rating", patch.Rating.Set, deref(current.Rating), patch.Rating.Value)
	compare("reviewCount", patch.ReviewCount.Set, deref(current.ReviewCount), patch.ReviewCount.Value)

	if patch.FeaturedReviews.Set {
		var old interface{}
		if current.FeaturedReviews != nil {
			old = current.FeaturedReviews
		}
		compare("featuredReviews", true, old, patch.FeaturedReviews.Value)
	}
	if patch.OpeningHours.Set {
		var old interface{}
		if current.OpeningHours != nil {
			old = current.OpeningHours
		}
		compare("openingHours", true, old, patch.OpeningHours.Value)
	}

	compare("phone", patch.Phone.Set, deref(current.Phone), patch.Phone.Value)
	compare("website", patch.Website.Set, deref(current.Website), patch.Website.Value)
	compare("latitude", patch.Latitude.Set, deref(current.Latitude), patch.Latitude.Value)
	compare("longitude", patch.Longitude.Set, deref(current.Longitude), patch.Longitude.Value)
	compare("formattedAddress", patch.FormattedAddress.Set, deref(current.FormattedAddress), patch.FormattedAddress.Value)
	compare("mapsUrl", patch.MapsURL.Set, deref(current.MapsURL), patch.MapsURL.Value)

	return changes
}

func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
