package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrNotFound     ErrorType = "NOT_FOUND"
	ErrNotSyncable  ErrorType = "NOT_SYNCABLE"
	ErrCircuitOpen  ErrorType = "CIRCUIT_OPEN"
	ErrProvider     ErrorType = "PROVIDER"
	ErrTimeout      ErrorType = "TIMEOUT"
	ErrPersistence  ErrorType = "PERSISTENCE"
	ErrCancelled    ErrorType = "CANCELLED"
	ErrInvalidInput ErrorType = "INVALID_INPUT"
	ErrInternal     ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type      ErrorType
	Message   string
	Cause     error
	Timestamp time.Time
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool { return isType(err, ErrNotFound) }

// IsNotSyncable checks if the error marks a clinic without a place ID
func IsNotSyncable(err error) bool { return isType(err, ErrNotSyncable) }

// IsCircuitOpen checks if the error is a circuit-breaker rejection
func IsCircuitOpen(err error) bool { return isType(err, ErrCircuitOpen) }

// IsProviderError checks if the error came from the places provider
func IsProviderError(err error) bool { return isType(err, ErrProvider) || isType(err, ErrTimeout) }

// IsTimeout checks if the error is a provider call timeout
func IsTimeout(err error) bool { return isType(err, ErrTimeout) }

// IsPersistence checks if the error is a store write failure
func IsPersistence(err error) bool { return isType(err, ErrPersistence) }

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool { return isType(err, ErrInvalidInput) }

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, err error) *AppError {
	return New(ErrNotFound, message, err)
}

// NewNotSyncableError creates an error for a clinic with no external place ID
func NewNotSyncableError(clinicID int64) *AppError {
	return New(ErrNotSyncable, fmt.Sprintf("clinic %d has no place ID", clinicID), nil)
}

// NewCircuitOpenError creates an error for a circuit-broken clinic
func NewCircuitOpenError(clinicID int64, consecutiveErrors int) *AppError {
	return New(ErrCircuitOpen,
		fmt.Sprintf("sync disabled for clinic %d after %d consecutive errors", clinicID, consecutiveErrors), nil)
}

// NewProviderError creates a new provider error
func NewProviderError(message string, err error) *AppError {
	return New(ErrProvider, message, err)
}

// NewTimeoutError creates a new provider timeout error
func NewTimeoutError(message string, err error) *AppError {
	return New(ErrTimeout, message, err)
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(message string, err error) *AppError {
	return New(ErrPersistence, message, err)
}

// NewCancelledError creates an error for a sync attempt stopped by its caller
func NewCancelledError(clinicID int64, err error) *AppError {
	return New(ErrCancelled, fmt.Sprintf("sync for clinic %d cancelled", clinicID), err)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, err error) *AppError {
	return New(ErrInvalidInput, message, err)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return New(ErrInternal, message, err)
}
