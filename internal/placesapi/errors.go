package placesapi

import "fmt"

// PlacesError represents a failed call against the places provider.
type PlacesError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *PlacesError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("places API error (status %d): %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("places API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *PlacesError) Unwrap() error {
	return e.Err
}

// NewPlacesError creates a new PlacesError with the given status code and message
func NewPlacesError(statusCode int, message string, err error) error {
	return &PlacesError{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// TimeoutError represents a provider call that exceeded the client timeout.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("places API request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// IsTimeout checks if an error is a provider call timeout
func IsTimeout(err error) bool {
	_, ok := err.(*TimeoutError)
	return ok
}
