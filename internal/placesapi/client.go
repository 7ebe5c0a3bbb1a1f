package placesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/clinicatlas/places-sync/internal/config"
)

// Client calls the places provider's details endpoint. It performs exactly
// one network call per invocation; retries and circuit breaking belong to
// the sync layer.
type Client struct {
	client  *http.Client
	apiKey  string
	baseURL string
	logger  *logrus.Logger
}

// ClientOption allows configuring the places client
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.client = httpClient
	}
}

// WithBaseURL overrides the provider base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a new places client from configuration.
func NewClient(cfg *config.PlacesConfig, logger *logrus.Logger, opts ...ClientOption) *Client {
	client := &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		apiKey:  cfg.APIKey,
		baseURL: cfg.APIBaseURL,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// GetPlaceDetails fetches the details document for a place, restricted to the
// fields named by fieldMask.
func (c *Client) GetPlaceDetails(ctx context.Context, placeID, fieldMask string) (*PlaceDetails, error) {
	if placeID == "" {
		return nil, NewPlacesError(0, "place ID cannot be empty", nil)
	}
	if fieldMask == "" {
		return nil, NewPlacesError(0, "field mask cannot be empty", nil)
	}

	reqURL := fmt.Sprintf("%s/places/%s", c.baseURL, url.PathEscape(placeID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	c.logger.WithFields(logrus.Fields{
		"place_id":   placeID,
		"field_mask": fieldMask,
	}).Debug("Requesting place details")

	resp, err := c.client.Do(req)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, &TimeoutError{Err: err}
		}
		return nil, NewPlacesError(0, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewPlacesError(resp.StatusCode, "failed to read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewPlacesError(resp.StatusCode, string(body), nil)
	}

	var details PlaceDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, NewPlacesError(resp.StatusCode, "failed to decode response", err)
	}

	return &details, nil
}
