// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	RawRowsLoaded    prometheus.Counter
	RowsDropped      *prometheus.CounterVec
	SnapshotProducts prometheus.Gauge

	// Table metrics
	HistoryRows  prometheus.Gauge
	HistoryDates prometheus.Gauge

	// Run metrics
	RunsTotal        *prometheus.CounterVec
	MergeDuration    prometheus.Histogram
	AnalyzeDuration  prometheus.Histogram
	ArtifactsWritten prometheus.Counter

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "retail_price_lab"
	}

	return &Metrics{
		RawRowsLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "raw_rows_loaded_total",
			Help:      "Total number of raw snapshot rows loaded",
		}),
		RowsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "rows_dropped_total",
			Help:      "Total number of raw rows dropped during normalization",
		}, []string{"reason"}),
		SnapshotProducts: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "snapshot_products",
			Help:      "Number of valid products in the last merged snapshot",
		}),
		HistoryRows: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "table",
			Name:      "history_rows",
			Help:      "Number of rows in the historical table after the last run",
		}),
		HistoryDates: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "table",
			Name:      "history_dates",
			Help:      "Number of distinct dates in the historical table",
		}),
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "total",
			Help:      "Total analytics runs by outcome",
		}, []string{"outcome"}),
		MergeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "merge_duration_seconds",
			Help:      "Time spent merging the snapshot into the table",
			Buckets:   prometheus.DefBuckets,
		}),
		AnalyzeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "analyze_duration_seconds",
			Help:      "Time spent computing and writing artifacts",
			Buckets:   prometheus.DefBuckets,
		}),
		ArtifactsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "artifacts_written_total",
			Help:      "Total number of artifact files written",
		}),
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp_seconds",
			Help:      "Unix timestamp of the last successful run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
