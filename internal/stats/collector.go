// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the pipeline.
const (
	// Batch metrics.
	MetricGamesAnalyzed = "chessprof_games_analyzed_total"
	MetricGamesFailed   = "chessprof_games_failed_total"

	// Engine metrics.
	MetricEngineEvals    = "chessprof_engine_evals_total"
	MetricEngineFailures = "chessprof_engine_failures_total"
	MetricEvalSeconds    = "chessprof_eval_seconds"

	// Evaluation cache metrics.
	MetricEvalCacheHits   = "chessprof_eval_cache_hits_total"
	MetricEvalCacheMisses = "chessprof_eval_cache_misses_total"

	// Opening classification metrics.
	MetricOpeningsClassified = "chessprof_openings_classified_total"
	MetricOpeningMisses      = "chessprof_opening_misses_total"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
