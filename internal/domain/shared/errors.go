package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// TransportError wraps a network or decode failure while talking to the
// game. It is recoverable: the affected building or city is skipped for the
// current cycle, never the whole run.
type TransportError struct {
	*DomainError
	Cause error
}

func NewTransportError(message string, cause error) *TransportError {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &TransportError{DomainError: &DomainError{Message: message}, Cause: cause}
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// DataError means an expected field was absent or unparseable, e.g. a
// building response with no cost table. The building is unusable and is
// excluded from planning.
type DataError struct {
	*DomainError
}

func NewDataError(message string) *DataError {
	return &DataError{DomainError: &DomainError{Message: message}}
}

// TokenError means a submission token was absent, stale or rejected.
// Recovered by refetching the building detail for a fresh one.
type TokenError struct {
	*DomainError
	CityID   int
	Position int
}

func NewTokenError(cityID, position int) *TokenError {
	return &TokenError{
		DomainError: &DomainError{
			Message: fmt.Sprintf("no usable action token for building %d/%d", cityID, position),
		},
		CityID:   cityID,
		Position: position,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
