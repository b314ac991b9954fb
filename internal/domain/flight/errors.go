package flight

import (
	"errors"
	"fmt"
	"time"
)

// AuthenticationError means the client-credentials exchange failed. It is
// fatal to the current operation and never retried by the engine.
type AuthenticationError struct {
	Status int
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed (status %d): %s", e.Status, e.Reason)
}

// InvalidRequestError covers 400-class provider responses. Retrying the
// same request cannot succeed; the criteria need correction.
type InvalidRequestError struct {
	Status int
	Detail string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request (status %d): %s", e.Status, e.Detail)
}

// RateLimitError is the provider throttling us. Retryable after backoff;
// the calendar scheduler handles it, everyone else surfaces it.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// UpstreamUnavailableError covers 5xx responses and transport failures.
type UpstreamUnavailableError struct {
	Status int
	Cause  error
}

func (e *UpstreamUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upstream unavailable (status %d): %v", e.Status, e.Cause)
	}
	return fmt.Sprintf("upstream unavailable (status %d)", e.Status)
}

func (e *UpstreamUnavailableError) Unwrap() error { return e.Cause }

func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

func IsInvalidRequest(err error) bool {
	var target *InvalidRequestError
	return errors.As(err, &target)
}

func IsRateLimit(err error) bool {
	var target *RateLimitError
	return errors.As(err, &target)
}

func IsUpstreamUnavailable(err error) bool {
	var target *UpstreamUnavailableError
	return errors.As(err, &target)
}
