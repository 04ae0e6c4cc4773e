package client

import (
	"context"
	"errors"
	"fmt"
)

// HTTPError represents a non-2xx HTTP response from the API. Message carries
// the backend's own message verbatim when one was present in the envelope, so
// business rejections ("invalid code", "insufficient quantity") surface to the
// user unchanged.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// Canceled reports whether err came from an aborted or timed-out request.
// Such errors are suppressed at call sites rather than shown to the user.
func Canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
