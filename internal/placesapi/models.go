package placesapi

import "time"

// PlaceDetails is the raw place-details document returned by the provider.
// Only the fields named in the request's field mask are populated; pointer
// fields distinguish "absent from the response" from a zero value.
type PlaceDetails struct {
	ID               string               `json:"id"`
	Rating           *float64             `json:"rating,omitempty"`
	UserRatingCount  *int                 `json:"userRatingCount,omitempty"`
	Reviews          []PlaceReview        `json:"reviews,omitempty"`
	RegularHours     *PlaceOpeningHours   `json:"regularOpeningHours,omitempty"`
	NationalPhone    *string              `json:"nationalPhoneNumber,omitempty"`
	WebsiteURI       *string              `json:"websiteUri,omitempty"`
	Location         *PlaceLatLng         `json:"location,omitempty"`
	FormattedAddress *string              `json:"formattedAddress,omitempty"`
	GoogleMapsURI    *string              `json:"googleMapsUri,omitempty"`
}

// PlaceReview is one provider review on a place.
type PlaceReview struct {
	Name              string            `json:"name"`
	Rating            float64           `json:"rating"`
	Text              *LocalizedText    `json:"text,omitempty"`
	AuthorAttribution AuthorAttribution `json:"authorAttribution"`
	PublishTime       time.Time         `json:"publishTime"`
}

// LocalizedText is the provider's wrapped text value.
type LocalizedText struct {
	Text string `json:"text"`
}

// AuthorAttribution identifies the review author.
type AuthorAttribution struct {
	DisplayName string `json:"displayName"`
	URI         string `json:"uri,omitempty"`
}

// PlaceOpeningHours carries the provider's weekly hours table.
type PlaceOpeningHours struct {
	WeekdayDescriptions []string `json:"weekdayDescriptions,omitempty"`
}

// PlaceLatLng is a provider coordinate pair.
type PlaceLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
