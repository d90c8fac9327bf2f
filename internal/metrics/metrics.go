package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reaction_service"

var (
	reactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_total",
			Help:      "Total number of accepted reaction writes",
		},
		[]string{"reaction_type"},
	)

	reactionWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reaction_write_failures_total",
			Help:      "Reaction writes rejected or failed",
		},
		[]string{"reason"}, // validation, insert
	)

	reactionDeleteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reaction_delete_failures_total",
			Help:      "Non-fatal failures deleting the previous reaction",
		},
	)

	readFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_fallbacks_total",
			Help:      "Reads answered with a fail-safe default after a backend error",
		},
		[]string{"op"}, // status, counts, ensure
	)

	identityFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reaction_identity_fallback_total",
			Help: "Identity resolutions that collapsed to the fallback identity",
		},
	)

	liveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions",
			Help:      "Open live reaction sessions",
		},
	)

	reconciles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_reconciles_total",
			Help:      "Session state re-pulls",
		},
		[]string{"trigger"}, // mount, notify, write
	)

	dependencyHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dependency_health",
			Help:      "Health status of dependencies (1 = healthy, 0 = unhealthy)",
		},
		[]string{"dependency"},
	)
)

func RecordReaction(kind string) { reactionsTotal.WithLabelValues(kind).Inc() }
func RecordReactionFailure(reason string) { reactionWriteFailures.WithLabelValues(reason).Inc() }
func RecordDeleteFailure() { reactionDeleteFailures.Inc() }
func RecordReadFallback(op string) { readFallbacks.WithLabelValues(op).Inc() }
func RecordIdentityFallback() { identityFallbacks.Inc() }
func RecordReconcile(trigger string) { reconciles.WithLabelValues(trigger).Inc() }
func SessionOpened() { liveSessions.Inc() }
func SessionClosed() { liveSessions.Dec() }

// SetDependencyHealth sets the health status of a dependency
func SetDependencyHealth(dependency string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	dependencyHealth.WithLabelValues(dependency).Set(value)
}

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}
