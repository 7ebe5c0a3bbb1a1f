package models

import "time"

// Clinic is a directory listing tracked against the external places provider.
// Sync eligibility requires a non-nil PlaceID.
type Clinic struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	State     string     `json:"state,omitempty"`
	StateAbbr string     `json:"state_abbr,omitempty"`
	PlaceID   *string    `json:"place_id,omitempty"`

	// Reviews category
	Rating          *float64         `json:"rating,omitempty"`
	ReviewCount     *int             `json:"review_count,omitempty"`
	FeaturedReviews []FeaturedReview `json:"featured_reviews,omitempty"`

	// Hours category
	OpeningHours []OpeningHours `json:"opening_hours,omitempty"`

	// Contact category
	Phone   *string `json:"phone,omitempty"`
	Website *string `json:"website,omitempty"`

	// Location category
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	FormattedAddress *string  `json:"formatted_address,omitempty"`
	MapsURL          *string  `json:"maps_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeaturedReview is one provider review carried on the listing.
type FeaturedReview struct {
	Author string    `json:"author"`
	URL    string    `json:"url,omitempty"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
	Rating float64   `json:"rating"`
}

// OpeningHours is one weekday line of the listing's hours table.
type OpeningHours struct {
	Day   string `json:"day"`
	Hours string `json:"hours"`
}

// HasPlaceID reports whether the clinic is eligible for provider sync.
func (c *Clinic) HasPlaceID() bool {
	return c.PlaceID != nil && *c.PlaceID != ""
}
