package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "match_predictor"

var (
	// PredictionsTotal counts reconciled predictions by convergence ("aligned", "divergent", "degraded")
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Reconciled predictions produced, by convergence.",
	}, []string{"convergence"})

	// ReasoningFailures counts reasoning service failures by reason
	ReasoningFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reasoning_failures_total",
		Help:      "Reasoning service failures (timeout, status, parse, transport).",
	}, []string{"reason"})

	ReasoningLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reasoning_request_seconds",
		Help:      "Latency of reasoning service calls including retries.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 45},
	})

	// CacheLookups counts cache reads by result ("hit", "miss", "expired", "error")
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Prediction cache lookups by result.",
	}, []string{"result"})

	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_evictions_total",
		Help:      "Expired predictions removed from the cache.",
	})

	// PregeneratedMatches counts matches handled by pregeneration ("generated", "cached", "failed")
	PregeneratedMatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pregenerated_matches_total",
		Help:      "Matches processed by background pregeneration, by outcome.",
	}, []string{"outcome"})

	PregenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pregeneration_run_seconds",
		Help:      "Duration of a pregeneration run.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
)
