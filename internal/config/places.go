package config

import "time"

// PlacesConfig holds places-provider configuration
type PlacesConfig struct {
	APIKey     string
	APIBaseURL string
	Timeout    time.Duration
	RateLimit  RateLimitConfig
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	RequestsPerSecond float64
	MaxConcurrent     int
}

// DefaultPlacesConfig returns the default places provider configuration
func DefaultPlacesConfig() *PlacesConfig {
	return &PlacesConfig{
		APIBaseURL: "https://places.googleapis.com/v1",
		Timeout:    15 * time.Second,
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			MaxConcurrent:     5,
		},
	}
}
