package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// evaluationsTotal counts condition-tree evaluations by outcome, exposed
// on /metrics for scrape.
var evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "condition_lingo_evaluations_total",
	Help: "Total number of condition-lingo evaluate requests, by outcome.",
}, []string{"outcome"})

// evaluationDuration tracks evaluate-request latency.
var evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "condition_lingo_evaluation_duration_seconds",
	Help:    "Duration of condition-lingo evaluate requests in seconds.",
	Buckets: prometheus.DefBuckets,
})
