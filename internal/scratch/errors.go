package scratch

import "fmt"

// APIError represents a non-2xx response from the SCRATCH REST API.
type APIError struct {
	StatusCode int
	Reason     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("scratch api: HTTP %d %s: %s", e.StatusCode, e.Reason, e.Body)
	}
	return fmt.Sprintf("scratch api: HTTP %d %s", e.StatusCode, e.Reason)
}

// IsRetryable returns true for server errors (5xx) and false for client
// errors (4xx), which are considered permanent.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500
}
