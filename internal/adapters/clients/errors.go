// Package clients provides the instrumented HTTP client used to reach the
// manager's REST API and file server.
package clients

import "errors"

// Transport-level failures. Callers translate these into domain errors.
var (
	// ErrCircuitOpen is returned without contacting the manager while the
	// circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last transport error once every
	// configured attempt has failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
