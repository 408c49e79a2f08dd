package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of document store operations by outcome",
		},
		[]string{"collection", "op", "result"},
	)

	PlanChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_changes_total",
			Help: "Total number of successful plan changes by target plan",
		},
		[]string{"plan"},
	)

	FavoritePoolMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorite_pool_mutations_total",
			Help: "Total number of favorite pool add/remove calls by outcome",
		},
		[]string{"op", "result"},
	)
)

// Store outcome labels.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultConflict = "conflict"
	ResultError    = "error"
)
