// Package metrics provides Prometheus metrics for the analytics pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics collects and exposes pipeline-related Prometheus metrics.
type PipelineMetrics struct {
	registry *prometheus.Registry

	// Prediction metrics
	PredictionsTotal  *prometheus.CounterVec
	PredictionLatency *prometheus.HistogramVec

	// Oracle metrics
	OracleCalls   *prometheus.CounterVec
	OracleLatency *prometheus.HistogramVec
	OracleErrors  *prometheus.CounterVec

	// Cache metrics
	CacheLookups *prometheus.CounterVec

	// Store metrics
	StoreWrites *prometheus.CounterVec

	// Consumer metrics
	BatchesConsumed  prometheus.Counter
	FixturesConsumed *prometheus.CounterVec

	// Accumulator metrics
	AccumulatorBuilds *prometheus.CounterVec
	AccumulatorLegs   prometheus.Histogram
}

// NewPipelineMetrics creates a new pipeline metrics collector backed by its
// own registry, so tests and multiple instances never collide.
func NewPipelineMetrics() *PipelineMetrics {
	registry := prometheus.NewRegistry()

	pm := &PipelineMetrics{
		registry: registry,

		PredictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_analytics_predictions_total",
				Help: "Total number of match predictions computed",
			},
			[]string{"source", "sport"},
		),
		PredictionLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "match_analytics_prediction_latency_seconds",
				Help:    "Per-fixture prediction latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"source"},
		),

		OracleCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_analytics_oracle_calls_total",
				Help: "Total number of oracle model calls",
			},
			[]string{"status"},
		),
		OracleLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "match_analytics_oracle_latency_seconds",
				Help:    "Oracle model call latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~100s
			},
			[]string{},
		),
		OracleErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_analytics_oracle_errors_total",
				Help: "Total number of oracle errors",
			},
			[]string{"error_type"},
		),

		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_analytics_cache_lookups_total",
				Help: "Total number of prediction cache lookups",
			},
			[]string{"result"},
		),

		StoreWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_analytics_store_writes_total",
				Help: "Total number of prediction store upserts",
			},
			[]string{"status"},
		),

		BatchesConsumed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "match_analytics_batches_consumed_total",
				Help: "Total number of fixture batches consumed",
			},
		),
		FixturesConsumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_analytics_fixtures_consumed_total",
				Help: "Total number of fixtures consumed from batches",
			},
			[]string{"status"},
		),

		AccumulatorBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_analytics_accumulator_builds_total",
				Help: "Total number of accumulator build requests",
			},
			[]string{"status"},
		),
		AccumulatorLegs: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "match_analytics_accumulator_legs",
				Help:    "Number of legs in built accumulators",
				Buckets: prometheus.LinearBuckets(1, 1, 10), // 1 to 10 legs
			},
		),
	}

	pm.registerAll()

	return pm
}

func (pm *PipelineMetrics) registerAll() {
	pm.registry.MustRegister(
		pm.PredictionsTotal,
		pm.PredictionLatency,
		pm.OracleCalls,
		pm.OracleLatency,
		pm.OracleErrors,
		pm.CacheLookups,
		pm.StoreWrites,
		pm.BatchesConsumed,
		pm.FixturesConsumed,
		pm.AccumulatorBuilds,
		pm.AccumulatorLegs,
	)
}

// Registry returns the prometheus registry.
func (pm *PipelineMetrics) Registry() *prometheus.Registry {
	return pm.registry
}

// Handler returns an HTTP handler serving the collected metrics.
func (pm *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
}

// --- Helper methods for recording metrics ---

// RecordPrediction records a computed prediction.
func (pm *PipelineMetrics) RecordPrediction(source, sport string, latencySec float64) {
	pm.PredictionsTotal.WithLabelValues(source, sport).Inc()
	if latencySec > 0 {
		pm.PredictionLatency.WithLabelValues(source).Observe(latencySec)
	}
}

// RecordOracleCall records an oracle model call.
func (pm *PipelineMetrics) RecordOracleCall(status string, latencySec float64) {
	pm.OracleCalls.WithLabelValues(status).Inc()
	if latencySec > 0 {
		pm.OracleLatency.WithLabelValues().Observe(latencySec)
	}
}

// RecordOracleError records an oracle error.
func (pm *PipelineMetrics) RecordOracleError(errorType string) {
	pm.OracleErrors.WithLabelValues(errorType).Inc()
}

// RecordCacheLookup records a cache lookup outcome.
func (pm *PipelineMetrics) RecordCacheLookup(hit bool) {
	if hit {
		pm.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		pm.CacheLookups.WithLabelValues("miss").Inc()
	}
}

// RecordStoreWrite records a prediction upsert outcome.
func (pm *PipelineMetrics) RecordStoreWrite(success bool) {
	if success {
		pm.StoreWrites.WithLabelValues("ok").Inc()
	} else {
		pm.StoreWrites.WithLabelValues("error").Inc()
	}
}

// RecordBatch records a consumed fixture batch.
func (pm *PipelineMetrics) RecordBatch(processed, failed int) {
	pm.BatchesConsumed.Inc()
	if processed > 0 {
		pm.FixturesConsumed.WithLabelValues("ok").Add(float64(processed))
	}
	if failed > 0 {
		pm.FixturesConsumed.WithLabelValues("failed").Add(float64(failed))
	}
}

// RecordAccumulator records an accumulator build attempt.
func (pm *PipelineMetrics) RecordAccumulator(status string, legs int) {
	pm.AccumulatorBuilds.WithLabelValues(status).Inc()
	if legs > 0 {
		pm.AccumulatorLegs.Observe(float64(legs))
	}
}
