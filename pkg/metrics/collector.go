// Package metrics exposes Prometheus collectors for the debt tracker.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	debtsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "debts_created_total",
			Help: "Total number of debts recorded, labeled by currency",
		},
		[]string{"currency"},
	)
	debtsPaidTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "debts_paid_total",
			Help: "Total number of debts marked paid, labeled by currency",
		},
		[]string{"currency"},
	)
	storeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "debt_store_failures_total",
			Help: "Total number of failed store operations labeled by operation",
		},
		[]string{"operation"},
	)
	stateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_transitions_total",
			Help: "Total number of add-flow state transitions",
		},
		[]string{"from", "to"},
	)
)

// RecordCommand tracks a handled bot command with its outcome and duration.
func RecordCommand(command, status string, duration time.Duration) {
	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordDebtCreated counts a successfully inserted debt.
func RecordDebtCreated(currency string) {
	debtsCreatedTotal.WithLabelValues(currency).Inc()
}

// RecordDebtPaid counts a successful unpaid-to-paid transition.
func RecordDebtPaid(currency string) {
	debtsPaidTotal.WithLabelValues(currency).Inc()
}

// RecordStoreFailure counts a failed store call.
func RecordStoreFailure(operation string) {
	storeFailuresTotal.WithLabelValues(operation).Inc()
}

// RecordStateTransition counts an FSM transition in the add-debt flow.
func RecordStateTransition(from, to string) {
	stateTransitionsTotal.WithLabelValues(from, to).Inc()
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
