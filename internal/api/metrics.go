package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ahpCalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commeval_ahp_calculations_total",
		Help: "AHP weight calculations by consistency outcome.",
	}, []string{"consistent"})

	scoringRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commeval_scoring_runs_total",
		Help: "Composite scoring passes by weight source.",
	}, []string{"weights_source"})

	recordsScored = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "commeval_records_scored",
		Help:    "Test batches scored per pass.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	measurementsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "commeval_measurements_ingested_total",
		Help: "Test batch measurements stored through the API.",
	})

	evaluatorCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commeval_evaluator_calls_total",
		Help: "External evaluator invocations by outcome.",
	}, []string{"outcome"})
)
