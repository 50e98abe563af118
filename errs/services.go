package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Third-Party API & LLM Specific Errors
var (
	ErrUpstream              = errors.New("upstream failure")
	ErrRateLimitExceeded     = errors.New("rate limit exceeded")
	ErrContextLengthExceeded = errors.New("context length exceeded")
	ErrCircuitBreakerOpen    = errors.New("circuit breaker open")
	ErrServiceNotConfigured  = errors.New("service not configured")
	ErrPartialFailure        = errors.New("partial failure")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
)

// NewUpstreamError wraps a failure returned by an external collaborator. The raw message is kept in
// Details so it reaches the response body.
func NewUpstreamError(service string, cause error) *ApiErr {
	details := fmt.Sprintf("%s request failed", service)
	if cause != nil {
		details = fmt.Sprintf("%s: %s", details, cause.Error())
	}
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUpstream,
		Details:    details,
		Cause:      cause,
		Field:      service,
	}
}

func NewRateLimitExceededError(service string, retryAfter time.Duration) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimitExceeded,
		Details:    fmt.Sprintf("Rate limit exceeded for %s. Retry after %v", service, retryAfter),
		Field:      "rate_limit",
	}
}

func NewCircuitBreakerOpenError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrCircuitBreakerOpen,
		Details:    fmt.Sprintf("Circuit breaker open for %s", service),
		Field:      service,
	}
}

func NewServiceNotConfiguredError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceNotConfigured,
		Details:    fmt.Sprintf("%s is not configured", service),
		Field:      service,
	}
}

func NewContextLengthExceededError(maxLength int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrContextLengthExceeded,
		Details:    fmt.Sprintf("Input exceeds the maximum of %d characters", maxLength),
		Field:      "text",
	}
}

// NewPartialFailureError reports a multi-step operation that stopped after some steps succeeded.
func NewPartialFailureError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrPartialFailure,
		Details:    fmt.Sprintf("Partial failure during %s", operation),
		Cause:      cause,
	}
}

func NewConfigMissingError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Missing configuration: %s", key),
		Field:      key,
	}
}

func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstream)
}

func IsRateLimitExceededError(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

func IsCircuitBreakerOpenError(err error) bool {
	return errors.Is(err, ErrCircuitBreakerOpen)
}

func IsPartialFailureError(err error) bool {
	return errors.Is(err, ErrPartialFailure)
}
