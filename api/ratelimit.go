package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/appcollab/appcollab-backend/errs"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per caller.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

func newRateLimiter(requestsPerMinute, burst int, ttl time.Duration) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	return &rateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = now

	for k, e := range rl.limiters {
		if now.Sub(e.lastSeen) > rl.ttl {
			delete(rl.limiters, k)
		}
	}
	return entry.limiter.AllowN(now, 1)
}

// perCaller limits authenticated callers by id and anonymous ones by address.
func (rl *rateLimiter) perCaller(service string) func(http.Handler) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "rateLimiter").Logger())
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if caller := ctxGetCaller(r.Context()); caller.ID != uuid.Nil {
				key = caller.ID.String()
			}
			if !rl.allow(key) {
				responder.WriteError(w, errs.NewRateLimitExceededError(service, time.Minute))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
