// Package metrics holds the Prometheus collectors of the HR admin API.
package metrics

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-admin/internal/core/events"
	"github.com/frahmantamala/hr-admin/internal/journal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hr_admin"

// JournalEntriesTotal counts appended journal entries.
// Label:
//   - action: the journal category (e.g. "Suppression")
var JournalEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "journal_entries_total",
		Help:      "Total number of journal entries recorded, by action.",
	},
	[]string{"action"},
)

// JournalSkippedTotal counts conditional records dropped by the dedup window.
var JournalSkippedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "journal_entries_skipped_total",
		Help:      "Total number of conditional journal entries skipped by the deduplication window.",
	},
	[]string{"action"},
)

// AuthorizationDeniedTotal counts requests rejected by the gate.
// Labels:
//   - endpoint: route name
//   - capability: the missing permission token
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests denied for a missing capability.",
	},
	[]string{"endpoint", "capability"},
)

// HTTPRequestDuration measures handler latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

func Handler() http.Handler {
	return promhttp.Handler()
}

// SubscribeJournal feeds the journal counters from bus events.
func SubscribeJournal(bus *events.EventBus) {
	bus.Subscribe(journal.EventEntryRecorded, func(ctx context.Context, event events.Event) error {
		JournalEntriesTotal.WithLabelValues(actionOf(event)).Inc()
		return nil
	})
	bus.Subscribe(journal.EventEntrySkipped, func(ctx context.Context, event events.Event) error {
		JournalSkippedTotal.WithLabelValues(actionOf(event)).Inc()
		return nil
	})
}

func actionOf(event events.Event) string {
	if data, ok := event.Payload().(map[string]interface{}); ok {
		if action, ok := data["action"].(string); ok {
			return action
		}
	}
	return "unknown"
}
