package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quillpress"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// AuthAttempts counts login/refresh/logout calls by outcome (success, rejected, error).
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "auth_attempts_total", Help: "Authentication attempts by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "events_published_total", Help: "Domain events handed to the publisher by event and outcome."},
		[]string{"event", "outcome"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency by method, route and status.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(AuthAttempts)
	reg.MustRegister(EventsPublished)
	reg.MustRegister(HTTPRequestDuration)
}
