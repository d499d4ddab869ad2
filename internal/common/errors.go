package common

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id '%s' not found", e.Resource, e.ID)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError indicates invalid input data.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// UnknownTypeError indicates a notification request named a type no
// template is registered for. This is a caller bug and aborts the request
// before any record is created.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown notification type: %s", e.Type)
}

// NewUnknownTypeError creates a new UnknownTypeError.
func NewUnknownTypeError(t string) *UnknownTypeError {
	return &UnknownTypeError{Type: t}
}

// PreferenceLookupError indicates the preference store could not be read.
// The request fails closed: no notification is sent on unverifiable
// preferences (urgent and security notifications excepted).
type PreferenceLookupError struct {
	UserID string
	Err    error
}

func (e *PreferenceLookupError) Error() string {
	return fmt.Sprintf("loading preferences for user '%s': %v", e.UserID, e.Err)
}

func (e *PreferenceLookupError) Unwrap() error {
	return e.Err
}

// NewPreferenceLookupError creates a new PreferenceLookupError.
func NewPreferenceLookupError(userID string, err error) *PreferenceLookupError {
	return &PreferenceLookupError{UserID: userID, Err: err}
}

// UnauthorizedError indicates missing or invalid authentication.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	if e.Message == "" {
		return "unauthorized"
	}
	return e.Message
}

// NewUnauthorizedError creates a new UnauthorizedError.
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}
