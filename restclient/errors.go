package restclient

import (
	"errors"
	"fmt"
)

// NetworkError reports a request that produced no HTTP response at all
// (DNS failure, refused connection, timeout).
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a non-2xx response. Body carries the raw response bytes
// so callers can surface the backend's message.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.Status, truncate(e.Body, 200))
}

// IsStatus reports whether err is an HTTPError with the given status code.
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.Status == status
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
