// Package metrics defines and registers all custom Prometheus metrics for the
// chat API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry via promauto at
// package init time, before the HTTP server starts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chat"

// ── Messaging metrics ─────────────────────────────────────────────────────────

// MessagesSentTotal counts persisted messages.
// Label:
//   - kind: "text", "image", or "text_and_image"
var MessagesSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of messages persisted, by content kind.",
	},
	[]string{"kind"},
)

// DeliveriesTotal counts realtime delivery attempts.
// Label:
//   - result: "delivered" (recipient online, push handed to its connection),
//     "offline" (no live connection, silently dropped), or "dropped"
//     (connection present but its send buffer was full)
var DeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Total number of realtime message delivery attempts, by result.",
	},
	[]string{"result"},
)

// ── Translation metrics ───────────────────────────────────────────────────────

// TranslationsTotal counts translation attempts.
// Label:
//   - result: "ok", "fallback" (upstream error or timeout, original text kept)
var TranslationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "translations_total",
		Help:      "Total number of translation calls, by result.",
	},
	[]string{"result"},
)

// TranslationCacheTotal counts translation cache lookups.
// Label:
//   - result: "hit" or "miss"
var TranslationCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "translation_cache_total",
		Help:      "Total number of translation cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// TranslationDuration measures the time spent in the upstream translation call.
var TranslationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "translation_duration_seconds",
		Help:      "Duration of upstream translation calls.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Presence metrics ──────────────────────────────────────────────────────────

// ConnectionsActive tracks the number of live websocket connections.
var ConnectionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections_active",
		Help:      "Current number of live websocket connections.",
	},
)

// PresenceBroadcastsTotal counts full online-user-set broadcasts, which happen
// on every connect and disconnect.
var PresenceBroadcastsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "presence_broadcasts_total",
		Help:      "Total number of online-user presence broadcasts.",
	},
)
