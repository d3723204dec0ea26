package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nibzard/missionctl/internal/utils"
)

// TransportError reports a request that never produced an HTTP response:
// connection refused, DNS failure, TLS failure or a cancelled context.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request to %s failed: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError reports a non-2xx response.
type APIError struct {
	Op         string
	StatusCode int
	// Body is the raw response body.
	Body string
	// Message is the backend's "error" field when the body carried one.
	Message string
}

func (e *APIError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = utils.Truncate(e.Body, 200)
	}
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, detail)
}

// DecodeError reports a response body that is not the expected JSON shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decoding response: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by an APIError in err's chain,
// or 0 when there is none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
