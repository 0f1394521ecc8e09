package platform

import (
	"errors"
	"fmt"
)

// ErrUnsupportedCapability marks an endpoint that does not exist on the active
// dialect. Callers must be able to tell this apart from a transient transport
// failure, so it is a sentinel matched with errors.Is.
var ErrUnsupportedCapability = errors.New("capability not supported on this platform")

// APIError is a non-2xx response from the platform. The raw status and body are
// surfaced unchanged; the client never retries or interprets them.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform API error: %d %s: %s", e.StatusCode, e.URL, e.Body)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
