// Package metrics provides Prometheus metrics for Ember: completions
// recorded, awards granted, points flow, and ledger health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Activity ───────────────────────────────────────────────────────────────

// FocusCompletions counts recorded focus sessions.
var FocusCompletions = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ember",
	Name:      "focus_completions_total",
	Help:      "Total focus sessions recorded.",
})

// TaskCompletions counts recorded task completions.
var TaskCompletions = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ember",
	Name:      "task_completions_total",
	Help:      "Total task completions recorded.",
})

// ─── Awards ─────────────────────────────────────────────────────────────────

// AwardsGranted counts committed award events by rule kind.
var AwardsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ember",
	Name:      "awards_granted_total",
	Help:      "Total award events committed, by rule kind.",
}, []string{"kind"})

// PointsGranted tracks the total points committed to the ledger.
var PointsGranted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ember",
	Name:      "points_granted_total",
	Help:      "Total points granted across all users.",
})

// LedgerCommitFailures counts award batches that failed to commit.
var LedgerCommitFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ember",
	Name:      "ledger_commit_failures_total",
	Help:      "Total award batches discarded because the commit failed.",
})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "ember",
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})
