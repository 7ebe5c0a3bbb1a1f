package models

// Field is an explicitly tagged optional value used in clinic patches.
// A zero Field is absent; Set marks presence so that "present but zero"
// and "absent" stay distinguishable during diffing and persistence.
type Field[T any] struct {
	Value T
	Set   bool
}

// Some returns a present field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// ClinicPatch is the subset of syncable clinic fields produced by mapping a
// provider payload. Only fields belonging to the requested categories are
// ever set.
type ClinicPatch struct {
	// Reviews
	Rating          Field[float64]
	ReviewCount     Field[int]
	FeaturedReviews Field[[]FeaturedReview]

	// Hours
	OpeningHours Field[[]OpeningHours]

	// Contact
	Phone   Field[string]
	Website Field[string]

	// Location
	Latitude         Field[float64]
	Longitude        Field[float64]
	FormattedAddress Field[string]
	MapsURL          Field[string]
}

// IsEmpty reports whether no field of the patch is set.
func (p ClinicPatch) IsEmpty() bool {
	return !p.Rating.Set && !p.ReviewCount.Set && !p.FeaturedReviews.Set &&
		!p.OpeningHours.Set && !p.Phone.Set && !p.Website.Set &&
		!p.Latitude.Set && !p.Longitude.Set && !p.FormattedAddress.Set &&
		!p.MapsURL.Set
}

// FieldChange records one detected difference between stored data and a
// freshly mapped patch. Old is nil when the stored value was absent.
type FieldChange struct {
	Field string      `json:"field"`
	Old   interface{} `json:"old"`
	New   interface{} `json:"new"`
}
