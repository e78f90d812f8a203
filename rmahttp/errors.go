package rmahttp

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRelativeURL is returned when a relative request path is used with a
	// client that has no base address.
	ErrRelativeURL = errors.New("relative request path requires a base address")

	// ErrHostRelativeURL is returned for a request path that names its own host
	// without a scheme, e.g. "//other.example.com/api".
	ErrHostRelativeURL = errors.New("request path must not name a host")

	// ErrInvalidTimeout indicates a non-positive client timeout.
	ErrInvalidTimeout = errors.New("client timeout must be positive")

	// ErrInvalidBaseAddress indicates a base address that is not an absolute URL.
	ErrInvalidBaseAddress = errors.New("base address must be an absolute URL")
)

// maxErrorBody is the most of a non-2xx response body retained by StatusError
const maxErrorBody = 512

// StatusError is returned by Client.Do for any response outside the 2xx range.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int

	// Body is the leading part of the response body, useful for diagnostics.
	Body string
}

func (se *StatusError) Error() string {
	text := fmt.Sprintf("%s %s: %d %s", se.Method, se.URL, se.StatusCode, http.StatusText(se.StatusCode))
	if len(se.Body) > 0 {
		text += ": " + se.Body
	}

	return text
}
