// Package metrics exposes the prometheus counters and gauges the
// supervisor and the mediator and CSP sessions update; scraping is left to the host
// process (e.g. serving Registry over an http.Handler).
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ReflectionsSent counts outbound reflect() calls, labeled by outcome.
	ReflectionsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devicelink",
		Name:      "reflections_sent_total",
		Help:      "Reflection envelopes sent to the mediator, by outcome.",
	}, []string{"outcome"})

	// MessagesSent counts outgoing CSP messages, labeled by type and outcome.
	MessagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devicelink",
		Name:      "messages_sent_total",
		Help:      "Outgoing CSP messages, by message type and outcome.",
	}, []string{"type", "outcome"})

	// MessagesReceived counts incoming CSP messages, labeled by type.
	MessagesReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "devicelink",
		Name:      "messages_received_total",
		Help:      "Incoming CSP messages, by message type.",
	}, []string{"type"})

	// DedupeHits counts messages skipped because they were already seen.
	DedupeHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "devicelink",
		Name:      "dedupe_hits_total",
		Help:      "Reflected messages skipped as duplicates.",
	})

	// ReconnectAttempts counts mediator reconnect attempts.
	ReconnectAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "devicelink",
		Name:      "reconnect_attempts_total",
		Help:      "Mediator reconnect attempts made by the supervisor.",
	})

	// SessionUp reports 1 while the mediator session is connected.
	SessionUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "devicelink",
		Name:      "session_up",
		Help:      "1 while a mediator WebSocket session is connected, else 0.",
	})

	// IsLeader reports 1 while this device holds the CSP leader role.
	IsLeader = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "devicelink",
		Name:      "is_leader",
		Help:      "1 while this device is the mediator-promoted CSP leader.",
	})
)

// Registry is a dedicated registry so embedding hosts choose whether and
// how to expose it, rather than polluting the default global registry.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		ReflectionsSent,
		MessagesSent,
		MessagesReceived,
		DedupeHits,
		ReconnectAttempts,
		SessionUp,
		IsLeader,
	)
}
