// Package domain contains the orchestration records and errors shared by
// every context variant. Domain errors are transport-agnostic: adapters map
// HTTP failures onto them so callers can use errors.Is/errors.As.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNoContextSet indicates the current context cannot be resolved because
	// the environment variable naming the descriptor file is not set.
	ErrNoContextSet = errors.New("no context set")

	// ErrNotFound indicates the requested entity or resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a record or descriptor failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the manager rejected the credentials or tenant.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates the manager could not be reached or failed.
	ErrUnavailable = errors.New("unavailable")
)

// HTTPError is returned for any non-2xx response from the manager, whether
// it came from the REST API or from the file server.
type HTTPError struct {
	URL        string
	StatusCode int

	// Reason is the HTTP reason phrase, e.g. "Not Found".
	Reason string

	// Message is the manager's error message from a JSON error body, if any.
	Message string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d: %s: %s (%s)", e.StatusCode, e.Reason, e.Message, e.URL)
	}
	return fmt.Sprintf("%d: %s (%s)", e.StatusCode, e.Reason, e.URL)
}

// Unwrap maps the status code onto a sentinel so callers can branch with
// errors.Is without inspecting codes.
func (e *HTTPError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrUnavailable
	default:
		return nil
	}
}

// NewHTTPError creates an HTTP error. An empty reason defaults to the
// standard status text.
func NewHTTPError(url string, statusCode int, reason string) error {
	return NewHTTPErrorWithMessage(url, statusCode, reason, "")
}

// NewHTTPErrorWithMessage creates an HTTP error that also carries the
// manager's own error message.
func NewHTTPErrorWithMessage(url string, statusCode int, reason, message string) error {
	if reason == "" {
		reason = http.StatusText(statusCode)
	}

	return &HTTPError{URL: url, StatusCode: statusCode, Reason: reason, Message: message}
}

// IsHTTPStatus reports whether err is an *HTTPError carrying the given status.
func IsHTTPStatus(err error, statusCode int) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}

	return httpErr.StatusCode == statusCode
}

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNoContextSet checks if an error reports a missing context descriptor.
func IsNoContextSet(err error) bool {
	return errors.Is(err, ErrNoContextSet)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsForbidden checks if an error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
