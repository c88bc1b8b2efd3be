package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	scoringRequestsTotal  *prometheus.CounterVec
	scoringLatencySeconds *prometheus.HistogramVec
	scoringErrorsTotal    *prometheus.CounterVec
	strategyRunsTotal     *prometheus.CounterVec
	deadLettersTotal      prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the scoring
// pipeline and its HTTP surface.
func RegisterMetrics() {
	registerOnce.Do(func() {
		scoringRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_requests_total",
			Help: "Total number of scoring API requests served.",
		}, []string{"method", "route", "status"})

		scoringLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scoring_latency_seconds",
			Help:    "Latency distribution for scoring API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		scoringErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_errors_total",
			Help: "Total number of error responses returned by scoring endpoints.",
		}, []string{"method", "route", "status"})

		strategyRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_strategy_runs_total",
			Help: "Number of completed grading runs per strategy.",
		}, []string{"algorithm"})

		deadLettersTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoring_dead_letters_total",
			Help: "Number of scoring messages routed to the dead-letter subject.",
		})

		prometheus.MustRegister(scoringRequestsTotal, scoringLatencySeconds, scoringErrorsTotal, strategyRunsTotal, deadLettersTotal)
	})
}

// ScoringRequests exposes the counter for scoring API requests.
func ScoringRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return scoringRequestsTotal
}

// ScoringLatency exposes the latency histogram for scoring API requests.
func ScoringLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return scoringLatencySeconds
}

// ScoringErrors exposes the counter for error responses.
func ScoringErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return scoringErrorsTotal
}

// StrategyRuns exposes the per-algorithm grading counter.
func StrategyRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return strategyRunsTotal
}

// DeadLetters exposes the dead-letter counter.
func DeadLetters() prometheus.Counter {
	RegisterMetrics()
	return deadLettersTotal
}
