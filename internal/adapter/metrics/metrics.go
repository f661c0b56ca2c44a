package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics holds all Prometheus metrics for the lake pipeline.
type PipelineMetrics struct {
	BatchesProcessed   *prometheus.CounterVec
	BatchParseFailures *prometheus.CounterVec
	RowsCleaned        *prometheus.CounterVec
	DuplicatesRemoved  *prometheus.CounterVec
	RepairsApplied     prometheus.Counter
	SnapshotsWritten   *prometheus.CounterVec
	RunFailures        *prometheus.CounterVec
	LastRunTimestamp   *prometheus.GaugeVec
}

// NewPipelineMetrics initializes and registers the pipeline metrics on the
// given registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)
	return &PipelineMetrics{
		BatchesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datalake",
			Subsystem: "silver",
			Name:      "batches_processed_total",
			Help:      "Total number of raw batches folded into the cleaned layer.",
		}, []string{"domain"}),
		BatchParseFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datalake",
			Subsystem: "silver",
			Name:      "batch_parse_failures_total",
			Help:      "Total number of raw batches skipped because they could not be decoded.",
		}, []string{"domain"}),
		RowsCleaned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datalake",
			Subsystem: "silver",
			Name:      "rows_cleaned_total",
			Help:      "Total number of cleaned rows written, by validity.",
		}, []string{"domain", "validity"}), // validity: valid, invalid
		DuplicatesRemoved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datalake",
			Subsystem: "silver",
			Name:      "duplicates_removed_total",
			Help:      "Total number of duplicate rows dropped during cleaning.",
		}, []string{"domain"}),
		RepairsApplied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "datalake",
			Subsystem: "silver",
			Name:      "repairs_applied_total",
			Help:      "Total number of derived values recomputed and overwritten.",
		}),
		SnapshotsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datalake",
			Subsystem: "gold",
			Name:      "snapshots_written_total",
			Help:      "Total number of aggregate snapshots written, by table.",
		}, []string{"table"}),
		RunFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datalake",
			Subsystem: "pipeline",
			Name:      "run_failures_total",
			Help:      "Total number of failed stage runs.",
		}, []string{"stage"}), // stage: clean, aggregate
		LastRunTimestamp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "datalake",
			Subsystem: "pipeline",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last successful stage run.",
		}, []string{"stage"}),
	}
}
