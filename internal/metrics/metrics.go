// Package metrics records run metrics in a private Prometheus registry and
// writes them out in the text exposition format for node_exporter's
// textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "surfresults"

// Recorder collects subject outcomes and per-tool stage durations. It
// implements stage.Observer and is safe for concurrent use.
type Recorder struct {
	reg *prometheus.Registry

	subjects      *prometheus.CounterVec
	subjectTime   prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	runDuration   prometheus.Gauge
	lastRun       prometheus.Gauge
}

// NewRecorder returns a Recorder whose collectors carry the run_id constant
// label.
func NewRecorder(runID string) *Recorder {
	labels := prometheus.Labels{"run_id": runID}
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		subjects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "subjects_total",
			Help:        "Subjects attempted, by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		subjectTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "subject_duration_seconds",
			Help:        "Wall time of processed subjects.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 12),
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "stage_duration_seconds",
			Help:        "Wall time of external tool invocations.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.25, 2, 12),
		}, []string{"tool"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "stage_failures_total",
			Help:        "External tool invocations that did not exit cleanly.",
			ConstLabels: labels,
		}, []string{"tool"}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "run_duration_seconds",
			Help:        "Wall time of the whole run.",
			ConstLabels: labels,
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_run_timestamp_seconds",
			Help:        "Unix time the run finished.",
			ConstLabels: labels,
		}),
	}
	r.reg.MustRegister(r.subjects, r.subjectTime, r.stageDuration, r.stageFailures, r.runDuration, r.lastRun)
	return r
}

// ObserveStage records one tool invocation.
func (r *Recorder) ObserveStage(tool string, elapsed time.Duration, err error) {
	r.stageDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
	if err != nil {
		r.stageFailures.WithLabelValues(tool).Inc()
	}
}

// ObserveSubject records the outcome of one subject. Durations are only
// observed for processed subjects.
func (r *Recorder) ObserveSubject(outcome string, elapsed time.Duration) {
	r.subjects.WithLabelValues(outcome).Inc()
	if outcome == "processed" {
		r.subjectTime.Observe(elapsed.Seconds())
	}
}

// ObserveRun records the total run time and stamps the finish time.
func (r *Recorder) ObserveRun(elapsed time.Duration) {
	r.runDuration.Set(elapsed.Seconds())
	r.lastRun.SetToCurrentTime()
}

// Gatherer exposes the private registry, for tests and custom exporters.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile atomically writes all metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
