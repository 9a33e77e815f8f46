// Package metrics records run counters in a private Prometheus registry and
// writes them in the text exposition format for node_exporter's textfile
// collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "anomalabel"

// FileCounts is the per-file outcome the recorder needs.
type FileCounts struct {
	Failed    bool
	Rows      int
	Anomalies int
}

// Recorder owns the run's collectors.
type Recorder struct {
	reg *prometheus.Registry

	filesProcessed prometheus.Counter
	filesFailed    prometheus.Counter
	rows           prometheus.Counter
	anomalyRows    prometheus.Counter
	lastRun        prometheus.Gauge
}

// New builds a Recorder whose series carry run_id and mode labels.
func New(runID, mode string) *Recorder {
	constLabels := prometheus.Labels{"run_id": runID, "mode": mode}
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		filesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "files_processed_total",
			Help:        "Files labeled and written successfully.",
			ConstLabels: constLabels,
		}),
		filesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "files_failed_total",
			Help:        "Files skipped or failed during labeling.",
			ConstLabels: constLabels,
		}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "rows_total",
			Help:        "Rows labeled across all processed files.",
			ConstLabels: constLabels,
		}),
		anomalyRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "anomaly_rows_total",
			Help:        "Rows labeled anomalous across all processed files.",
			ConstLabels: constLabels,
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_run_timestamp_seconds",
			Help:        "Unix time at which the run finished.",
			ConstLabels: constLabels,
		}),
	}
	r.reg.MustRegister(r.filesProcessed, r.filesFailed, r.rows, r.anomalyRows, r.lastRun)
	return r
}

// Observe adds one file's outcome.
func (r *Recorder) Observe(fc FileCounts) {
	if fc.Failed {
		r.filesFailed.Inc()
		return
	}
	r.filesProcessed.Inc()
	r.rows.Add(float64(fc.Rows))
	r.anomalyRows.Add(float64(fc.Anomalies))
}

// Finish stamps the completion time.
func (r *Recorder) Finish(at time.Time) {
	r.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile atomically writes all metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
