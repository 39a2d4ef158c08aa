// Package metrics provides Prometheus metrics for FitProof: counters and
// histograms for engine recomputes, submission approvals, and protection
// tokens.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Engine ─────────────────────────────────────────────────────────────────

// RecomputeDuration tracks one full profile recompute in seconds.
var RecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "fitproof",
	Name:      "recompute_duration_seconds",
	Help:      "Duration of one profile recompute.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
})

// Recomputes counts profile recomputes by trigger.
var Recomputes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fitproof",
	Name:      "recomputes_total",
	Help:      "Total profile recomputes.",
}, []string{"trigger"})

// ─── Submissions ────────────────────────────────────────────────────────────

// SubmissionsApproved counts approved submissions; revivals are labeled.
var SubmissionsApproved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fitproof",
	Name:      "submissions_approved_total",
	Help:      "Total approved submissions.",
}, []string{"revival"})

// ─── Shields ────────────────────────────────────────────────────────────────

// ShieldsApplied counts successfully applied protection tokens.
var ShieldsApplied = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "fitproof",
	Name:      "shields_applied_total",
	Help:      "Total protection tokens applied.",
})

// ShieldsRejected counts rejected token applications by reason.
var ShieldsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fitproof",
	Name:      "shields_rejected_total",
	Help:      "Total rejected token applications.",
}, []string{"reason"})
