// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeSuppressed = "suppressed"
	OutcomeInvalid    = "invalid_input"
	OutcomeError      = "error"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "symptomrx_analyses_total",
			Help: "Total number of symptom analyses by outcome",
		},
		[]string{"outcome"},
	)

	RedFlagSuppressions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "symptomrx_red_flag_suppressions_total",
			Help: "Analyses whose medication section was suppressed by a red flag",
		},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "symptomrx_analysis_duration_seconds",
			Help:    "Duration of the prediction and safety pipeline in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	FeedbackSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "symptomrx_feedback_saved_total",
			Help: "Feedback records persisted by store",
		},
		[]string{"store"},
	)
)
