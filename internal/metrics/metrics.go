// Package metrics declares the Prometheus collectors of the service.
//
// Collectors are registered on the default registry through promauto and
// exposed by promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts served requests by method, route template and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmsocial_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmsocial_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// FriendshipTransitionsTotal counts relationship operations by outcome.
	FriendshipTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmsocial_friendship_transitions_total",
			Help: "Total number of relationship operations by operation and result",
		},
		[]string{"operation", "result"},
	)

	// RatingUpdatesTotal counts film aggregate recomputations.
	RatingUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmsocial_rating_updates_total",
			Help: "Total number of film rating updates by operation",
		},
		[]string{"operation"},
	)

	// CacheLookupsTotal counts read-cache lookups by result (hit, miss, error).
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmsocial_cache_lookups_total",
			Help: "Total number of cache lookups by result",
		},
		[]string{"result"},
	)

	// EventsPublishedTotal counts hub events by type.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmsocial_events_published_total",
			Help: "Total number of published domain events",
		},
		[]string{"type"},
	)

	// StreamClients is the number of connected event stream clients.
	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filmsocial_stream_clients",
			Help: "Number of connected server-sent event clients",
		},
	)
)

// RecordTransition records the outcome of a relationship operation.
func RecordTransition(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	FriendshipTransitionsTotal.WithLabelValues(operation, result).Inc()
}
