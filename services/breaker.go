package services

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/appcollab/appcollab-backend/errs"
)

// newBreaker trips after more than three consecutive failures and half-opens after timeout.
func newBreaker(name string, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker changed state")
		},
	})
}

// execute runs fn through cb. Client-side failures (ApiErr with a 4xx status) do not count
// against the breaker.
func execute[T any](cb *gobreaker.CircuitBreaker, service string, fn func() (T, error)) (T, error) {
	var zero T
	var clientErr error
	out, err := cb.Execute(func() (interface{}, error) {
		v, err := fn()
		if err != nil && errs.StatusCode(err) < 500 {
			clientErr = err
			return v, nil
		}
		return v, err
	})
	if clientErr != nil {
		return zero, clientErr
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, errs.NewCircuitBreakerOpenError(service)
		}
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			return zero, apiErr
		}
		return zero, errs.NewUpstreamError(service, err)
	}
	return out.(T), nil
}
