// Package metrics records per-stage results of a routerctl run and exports
// them in the Prometheus text format for the node-exporter textfile
// collector.
//
// A [Recorder] owns its own registry: one run writes one file, and the file
// holds the state of the last run only.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"routerctl/internal/workflow"
)

const namespace = "routerctl"

// ResultSuccess labels a stage that completed.
const ResultSuccess = "success"

// Recorder collects stage and run metrics. It implements [workflow.Observer].
type Recorder struct {
	registry *prometheus.Registry
	now      func() time.Time

	stepTotal          *prometheus.CounterVec
	stepDuration       *prometheus.HistogramVec
	lastRunSuccess     *prometheus.GaugeVec
	lastRunTimestamp   *prometheus.GaugeVec
	lastRunFailureKind *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		now:      time.Now,
		stepTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_total",
			Help:      "Count of executed workflow stages by result",
		}, []string{"workflow", "step", "result"}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of workflow stages including the completion wait",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"workflow", "step"}),
		lastRunSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run of the operation succeeded, 0 otherwise",
		}, []string{"operation"}),
		lastRunTimestamp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run of the operation finished",
		}, []string{"operation"}),
		lastRunFailureKind: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_failure",
			Help:      "1 for the failure kind that stopped the last run",
		}, []string{"operation", "kind"}),
	}
}

// StageStarted implements [workflow.Observer].
func (r *Recorder) StageStarted(wf, stage string) {}

// StageFinished implements [workflow.Observer].
func (r *Recorder) StageFinished(wf, stage string, elapsed time.Duration, err error) {
	r.stepTotal.WithLabelValues(wf, stage, resultLabel(err)).Inc()
	r.stepDuration.WithLabelValues(wf, stage).Observe(elapsed.Seconds())
}

// RunFinished records the outcome of an operation.
func (r *Recorder) RunFinished(op string, err error) {
	success := 0.0
	if err == nil {
		success = 1
	} else {
		r.lastRunFailureKind.WithLabelValues(op, resultLabel(err)).Set(1)
	}
	r.lastRunSuccess.WithLabelValues(op).Set(success)
	r.lastRunTimestamp.WithLabelValues(op).Set(float64(r.now().Unix()))
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return errors.New("metrics textfile path is empty")
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// resultLabel is "success" or the failure kind of err.
func resultLabel(err error) string {
	if err == nil {
		return ResultSuccess
	}
	if kind, ok := workflow.KindOf(err); ok {
		return string(kind)
	}
	return string(workflow.SessionError)
}
