package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every Player metric.
const Namespace = "player"

var (
	// Authorization metrics

	// AuthorizationDecisions counts engine decisions
	AuthorizationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "authorization",
			Name:      "decisions_total",
			Help:      "Total authorization decisions",
		},
		[]string{"result", "path"}, // result: allow, deny; path: system, resource, any_scope, unresolved, no_claims
	)

	// ResourceResolutions counts resource resolver lookups
	ResourceResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "authorization",
			Name:      "resource_resolutions_total",
			Help:      "Total resource scope resolutions",
		},
		[]string{"kind", "result"}, // result: found, not_found, error
	)

	// Claims metrics

	// ClaimsCacheRequests counts claims cache lookups
	ClaimsCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "claims",
			Name:      "cache_requests_total",
			Help:      "Total claims cache lookups",
		},
		[]string{"store", "result"}, // result: hit, miss, error
	)

	// ClaimsEvictions counts users evicted from the claims cache
	ClaimsEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "claims",
			Name:      "evictions_total",
			Help:      "Total users evicted from the claims cache",
		},
		[]string{"store"},
	)

	// ClaimsCacheBreakerState reports the shared store circuit breaker
	// (0 closed, 1 half-open, 2 open)
	ClaimsCacheBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "claims",
			Name:      "cache_breaker_state",
			Help:      "Claims cache circuit breaker state",
		},
		[]string{"store"},
	)

	// ClaimsMaterializeDuration tracks the time to compute a user's claims
	ClaimsMaterializeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "claims",
			Name:      "materialize_duration_seconds",
			Help:      "Time to materialize a user's claims from the entity graph",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// Event metrics

	// EventsDispatched counts domain events handed to post-commit handlers
	EventsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "events",
			Name:      "dispatched_total",
			Help:      "Total domain events dispatched after commit",
		},
		[]string{"aggregate", "result"}, // result: success, error
	)

	// Queue metrics

	// QueueMessagesPublished tracks event envelopes published to the broker
	QueueMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "queue",
			Name:      "messages_published_total",
			Help:      "Total messages published to queue",
		},
		[]string{"queue_type"}, // nats
	)

	// QueueMessagesConsumed tracks event envelopes received from the broker
	QueueMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "queue",
			Name:      "messages_consumed_total",
			Help:      "Total messages consumed from queue",
		},
		[]string{"queue_type"},
	)

	// QueuePublishErrors tracks queue publish errors
	QueuePublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "queue",
			Name:      "publish_errors_total",
			Help:      "Total queue publish errors",
		},
		[]string{"queue_type"},
	)

	// HTTP API metrics

	// HTTPRequestsTotal tracks HTTP API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP API requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP API request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP API request duration",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
