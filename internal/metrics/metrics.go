package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration records request latency by method, route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "threads_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// PostsCreated counts created posts by kind (thread or reply).
	PostsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threads_posts_created_total",
		Help: "Total number of threads and replies created",
	}, []string{"kind"})

	// Invalidations counts revalidation signals by outcome.
	Invalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threads_revalidations_total",
		Help: "Total number of view revalidation signals by outcome",
	}, []string{"outcome"})

	// ServiceErrors counts failed service operations by error kind.
	ServiceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threads_service_errors_total",
		Help: "Total number of failed service operations by kind",
	}, []string{"kind"})
)

// Post kinds
const (
	KindThread = "thread"
	KindReply  = "reply"
)
