// Package metrics defines the Prometheus instruments for the shipment
// tracking core. Counters are registered once at process start and exposed
// through the HTTP adapter's /metrics endpoint.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// TransitionsAppliedTotal counts committed status transitions.
	TransitionsAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shiptrack_transitions_applied_total",
			Help: "Total number of committed shipment status transitions",
		},
		[]string{"status"},
	)

	// TransitionsRejectedTotal counts transitions refused by the state machine.
	TransitionsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shiptrack_transitions_rejected_total",
			Help: "Total number of transitions rejected as invalid",
		},
	)

	// PODRecordsCreatedTotal counts freshly persisted proof-of-delivery records.
	PODRecordsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shiptrack_pod_records_created_total",
			Help: "Total number of proof-of-delivery records created",
		},
	)

	// PODDuplicatesTotal counts offline replays detected by the dedup key.
	PODDuplicatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shiptrack_pod_duplicates_total",
			Help: "Total number of POD submissions deduplicated as replays",
		},
	)

	// NotificationsSentTotal counts notifications accepted by the outbound channel.
	NotificationsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shiptrack_notifications_sent_total",
			Help: "Total number of notifications sent",
		},
	)

	// NotificationsFailedTotal counts notifications that exhausted the retry budget.
	NotificationsFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shiptrack_notifications_failed_total",
			Help: "Total number of notifications marked failed",
		},
	)
)

// Register installs all instruments on the given registerer.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		TransitionsAppliedTotal,
		TransitionsRejectedTotal,
		PODRecordsCreatedTotal,
		PODDuplicatesTotal,
		NotificationsSentTotal,
		NotificationsFailedTotal,
	)
}
