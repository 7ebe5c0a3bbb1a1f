package placesapi

import (
	"sort"
	"strings"

	"github.com/clinicatlas/places-sync/internal/models"
)

// maxFeaturedReviews caps how many provider reviews are carried on a listing.
const maxFeaturedReviews = 5

// categoryFields maps each sync category to the provider fields it needs.
// Photos carry no clinic fields; the category exists so schedules can touch
// its sync timestamp.
var categoryFields = map[models.SyncCategory][]string{
	models.CategoryReviews:  {"rating", "userRatingCount", "reviews"},
	models.CategoryHours:    {"regularOpeningHours"},
	models.CategoryPhotos:   {"photos"},
	models.CategoryContact:  {"nationalPhoneNumber", "websiteUri"},
	models.CategoryLocation: {"location", "formattedAddress", "googleMapsUri"},
}

// BuildFieldMask returns the minimal comma-separated provider field mask for
// the requested categories. The mask is sorted for stable request shapes.
func BuildFieldMask(categories []models.SyncCategory) string {
	seen := make(map[string]struct{})
	var fields []string
	for _, category := range categories {
		for _, f := range categoryFields[category] {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)
	return strings.Join(fields, ",")
}

// MapPlaceToClinic converts a raw details document into a clinic patch
// containing only fields of the requested categories. Pure: no I/O, same
// input always yields the same patch.
func MapPlaceToClinic(details *PlaceDetails, categories []models.SyncCategory) models.ClinicPatch {
	var patch models.ClinicPatch
	if details == nil {
		return patch
	}

	for _, category := range categories {
		switch category {
		case models.CategoryReviews:
			if details.Rating != nil {
				patch.Rating = models.Some(*details.Rating)
			}
			if details.UserRatingCount != nil {
				patch.ReviewCount = models.Some(*details.UserRatingCount)
			}
			if len(details.Reviews) > 0 {
				patch.FeaturedReviews = models.Some(mapReviews(details.Reviews))
			}
		case models.CategoryHours:
			if details.RegularHours != nil && len(details.RegularHours.WeekdayDescriptions) > 0 {
				patch.OpeningHours = models.Some(mapHours(details.RegularHours.WeekdayDescriptions))
			}
		case models.CategoryContact:
			if details.NationalPhone != nil {
				patch.Phone = models.Some(*details.NationalPhone)
			}
			if details.WebsiteURI != nil {
				patch.Website = models.Some(*details.WebsiteURI)
			}
		case models.CategoryLocation:
			if details.Location != nil {
				patch.Latitude = models.Some(details.Location.Latitude)
				patch.Longitude = models.Some(details.Location.Longitude)
			}
			if details.FormattedAddress != nil {
				patch.FormattedAddress = models.Some(*details.FormattedAddress)
			}
			if details.GoogleMapsURI != nil {
				patch.MapsURL = models.Some(*details.GoogleMapsURI)
			}
		}
	}

	return patch
}

func mapReviews(reviews []PlaceReview) []models.FeaturedReview {
	n := len(reviews)
	if n > maxFeaturedReviews {
		n = maxFeaturedReviews
	}
	result := make([]models.FeaturedReview, 0, n)
	for _, r := range reviews[:n] {
		review := models.FeaturedReview{
			Author: r.AuthorAttribution.DisplayName,
			URL:    r.AuthorAttribution.URI,
			Date:   r.PublishTime,
			Rating: r.Rating,
		}
		if r.Text != nil {
			review.Text = r.Text.Text
		}
		result = append(result, review)
	}
	return result
}

// mapHours splits provider lines like "Monday: 9:00 AM – 5:00 PM" into a
// day and its text range. Lines without a separator keep the whole line as
// the range with an empty day.
func mapHours(descriptions []string) []models.OpeningHours {
	result := make([]models.OpeningHours, 0, len(descriptions))
	for _, line := range descriptions {
		day, hours, found := strings.Cut(line, ": ")
		if !found {
			result = append(result, models.OpeningHours{Hours: line})
			continue
		}
		result = append(result, models.OpeningHours{Day: day, Hours: hours})
	}
	return result
}
