// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "equipment_portal"

var (
	workflowTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workflow_transitions_total",
		Help:      "Workflow transitions by entity, transition and outcome kind.",
	}, []string{"entity", "transition", "result"})

	notificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Notifications that could not be stored and were dropped.",
	}, []string{"type"})

	storeWriteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_write_duration_seconds",
		Help:      "Duration of whole-collection read-modify-write cycles.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"collection", "op", "result"})
)

// ObserveTransition records a workflow transition attempt. result is "ok" or an error kind.
func ObserveTransition(entity, transition, result string) {
	workflowTransitions.WithLabelValues(entity, transition, result).Inc()
}

func ObserveNotificationFailure(notificationType string) {
	notificationFailures.WithLabelValues(notificationType).Inc()
}

func ObserveStoreWrite(collection, op string, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeWriteDuration.WithLabelValues(collection, op, result).Observe(time.Since(started).Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
