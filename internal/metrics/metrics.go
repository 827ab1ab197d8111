package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutor_evaluations_total",
			Help: "Total number of Java submissions evaluated",
		},
		[]string{"status"},
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tutor_evaluation_duration_ms",
			Help:    "Evaluation duration in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 15000},
		},
		[]string{"phase"},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tutor_queue_depth",
			Help: "Current number of submissions waiting in the queue",
		},
	)

	ActiveWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tutor_active_workers",
			Help: "Number of workers currently evaluating submissions",
		},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tutor_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	HintFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tutor_hint_failures_total",
			Help: "Total number of failed LLM hint generations",
		},
	)
)
