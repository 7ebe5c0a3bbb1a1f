package models

// SyncCategory is one of the syncable field groups on a clinic listing.
type SyncCategory string

const (
	CategoryReviews  SyncCategory = "reviews"
	CategoryHours    SyncCategory = "hours"
	CategoryPhotos   SyncCategory = "photos"
	CategoryContact  SyncCategory = "contact"
	CategoryLocation SyncCategory = "location"
)

// AllCategories lists every syncable category in canonical order.
var AllCategories = []SyncCategory{
	CategoryReviews,
	CategoryHours,
	CategoryPhotos,
	CategoryContact,
	CategoryLocation,
}

// IsValid reports whether c names a known category.
func (c SyncCategory) IsValid() bool {
	switch c {
	case CategoryReviews, CategoryHours, CategoryPhotos, CategoryContact, CategoryLocation:
		return true
	}
	return false
}
