// Package metrics объявляет метрики prometheus шлюза доступа.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AccessDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_gate_access_decisions_total",
			Help: "Total number of computed access decisions",
		},
		[]string{"surface", "tier", "decision"},
	)

	UnlockGrants = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_gate_unlock_grants_total",
			Help: "Total number of unlock grants by source and persistence result",
		},
		[]string{"source", "result"},
	)

	BridgeMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_gate_bridge_messages_total",
			Help: "Total number of bridge messages by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	LedgerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_gate_ledger_failures_total",
			Help: "Total number of failed ledger operations",
		},
		[]string{"operation"},
	)

	PlatformFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_gate_platform_fetches_total",
			Help: "Total number of platform entitlement fetches by result",
		},
		[]string{"result"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "content_gate_active_sessions",
			Help: "Number of live entitlement sessions",
		},
	)
)
