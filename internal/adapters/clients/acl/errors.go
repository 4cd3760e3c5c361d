package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/cloudify-context/internal/adapters/clients"
	"github.com/jsamuelsen/cloudify-context/internal/domain"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// ErrorResponse is the manager's error body.
type ErrorResponse struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

// ParseErrorResponse decodes an error body. Returns nil if the body is
// empty, not JSON or carries no message.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.Message == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError translates a failed call into a domain error. clientErr takes
// precedence; otherwise resp must be a non-2xx response. The HTTPError
// carries the response's reason phrase, and its body is consumed for the
// manager's message.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var message string
	if errResp := ParseErrorResponse(resp.Body); errResp != nil {
		message = errResp.Message
	}

	return domain.NewHTTPErrorWithMessage(requestURL(resp), resp.StatusCode, reasonPhrase(resp), message)
}

// reasonPhrase returns the reason phrase of resp.Status, e.g. "Not Found"
// for "404 Not Found". Returns "" when the status line has none.
func reasonPhrase(resp *http.Response) string {
	_, reason, _ := strings.Cut(resp.Status, " ")
	return reason
}

func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("max retries exceeded during %s: %v", operation, err))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

func requestURL(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}

	return resp.Request.URL.String()
}
