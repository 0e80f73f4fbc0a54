package core

import (
	"errors"
	"fmt"
)

// Session errors
var (
	ErrSessionNotFound    = errors.New("session not found")    // no persisted record for this cookie
	ErrSessionExpired     = errors.New("session expired")      // persisted record past its expiry
	ErrSessionInvalidated = errors.New("session invalidated")  // upstream returned 401
	ErrCacheNotFound      = errors.New("session not in cache") // cache miss, not an error for callers
)

// Upstream (platform API) transport errors
var (
	ErrUpstreamTimeout     = errors.New("platform api timed out")
	ErrUpstreamUnavailable = errors.New("platform api unreachable")
	ErrMalformedResponse   = errors.New("malformed platform api response")
)

// Config errors (gateway-side configuration)
var (
	ErrAPIClientRequired   = errors.New("platform api client is required")
	ErrStorageRequired     = errors.New("session storage adapter is required")
	ErrHTTPAdapterRequired = errors.New("http adapter is required")
)

// APIError carries an upstream HTTP failure verbatim so forms can surface the
// platform's own message to the user.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform api: %d %s", e.Status, e.Message)
}

// IsTransient reports whether the error is a network/timeout failure the user
// may retry manually. Credential and invalidation errors are not transient.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUpstreamTimeout) || errors.Is(err, ErrUpstreamUnavailable)
}
