package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ruleViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_rule_violations_total",
			Help: "Rejected event submissions by failed rule",
		},
		[]string{"rule", "operation"},
	)

	eventsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_submissions_total",
			Help: "Accepted event creations and edits",
		},
		[]string{"operation"},
	)

	bulkActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_bulk_actions_total",
			Help: "Bulk status actions by outcome",
		},
		[]string{"action", "status"},
	)

	eventsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_suspended_expired_total",
			Help: "Suspended events moved to expired by the sweeper",
		},
	)

	sweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "event_sweep_duration_seconds",
			Help:    "Duration of suspended event sweeps",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RecordRuleViolation(rule, operation string) {
	ruleViolations.WithLabelValues(rule, operation).Inc()
}

func RecordSubmission(operation string) {
	eventsSubmitted.WithLabelValues(operation).Inc()
}

func RecordBulkAction(action, status string) {
	bulkActions.WithLabelValues(action, status).Inc()
}

func RecordSweep(expired int, seconds float64) {
	eventsExpired.Add(float64(expired))
	sweepDuration.Observe(seconds)
}
