package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appcollab_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "appcollab_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	upvotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appcollab_upvotes_total",
			Help: "Successful upvotes by target",
		},
		[]string{"target"},
	)
	enhanceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appcollab_enhance_requests_total",
			Help: "Text enhancement requests by outcome",
		},
		[]string{"status"},
	)
)

// metricsMiddleware labels by route pattern so path parameters do not explode cardinality.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(srw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		requestTotal.WithLabelValues(r.Method, route, strconv.Itoa(srw.status)).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
