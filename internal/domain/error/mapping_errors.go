// Package error defines domain-specific errors for the Receipt Ledger application.
package error

import "errors"

// Mapping domain errors.
var (
	// ErrMappingNotFound is returned when a mapping is not found.
	ErrMappingNotFound = errors.New("mapping not found")

	// ErrMappingMissingFields is returned when required mapping fields are missing.
	ErrMappingMissingFields = errors.New("missing required mapping fields")

	// ErrInvalidConfidence is returned when the confidence is outside [0,1].
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")

	// ErrInvalidMappingScope is returned when the scope is not merchant or item.
	ErrInvalidMappingScope = errors.New("invalid mapping scope")

	// ErrNotMappingOwner is returned when a user modifies another user's mapping.
	ErrNotMappingOwner = errors.New("not authorized to modify this mapping")
)

// MappingErrorCode defines error codes for mapping errors.
// Format: MAP-XXYYYY where XX is category and YYYY is specific error.
type MappingErrorCode string

const (
	ErrCodeMappingNotFound      MappingErrorCode = "MAP-010001"
	ErrCodeMappingMissingFields MappingErrorCode = "MAP-020001"
	ErrCodeInvalidConfidence    MappingErrorCode = "MAP-020002"
	ErrCodeInvalidMappingScope  MappingErrorCode = "MAP-020003"
	ErrCodeNotMappingOwner      MappingErrorCode = "MAP-030001"
)

// MappingError represents a mapping error with code and message.
type MappingError struct {
	Code    MappingErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *MappingError) Unwrap() error {
	return e.Err
}

// NewMappingError creates a new MappingError with the given code and message.
func NewMappingError(code MappingErrorCode, message string, err error) *MappingError {
	return &MappingError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
