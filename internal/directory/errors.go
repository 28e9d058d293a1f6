package directory

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the directory API failure taxonomy. Authentication
// failures are fatal and never retried; rate limits carry a server-supplied
// retry-after and are retried with backoff.
var (
	ErrAuthentication      = errors.New("directory: invalid API key")
	ErrNotFound            = errors.New("directory: resource not found")
	ErrInsufficientCredits = errors.New("directory: insufficient credits")
)

// RateLimitError is returned when the API responds with HTTP 429.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("directory: rate limited, retry after %s", e.RetryAfter)
}

// APIError covers every remote failure not in the explicit taxonomy.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("directory: API error (HTTP %d): %s", e.StatusCode, e.Message)
}
