package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affordability_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"path", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "affordability_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"path"},
	)

	idempotentReplays = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "affordability_idempotent_replays_total",
			Help: "Total number of responses served from the idempotency cache",
		},
	)
)
