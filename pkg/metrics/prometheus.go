// Package metrics provides Prometheus metrics for the plate pairing pipeline.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared with callers.
const (
	StageRead     = "read"
	StageDedupe   = "dedupe"
	StageAnnotate = "annotate"
	StagePair     = "pair"

	RunSuccess = "success"
	RunFailure = "failure"
)

// Manager owns the Prometheus collectors of the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Ingest
	recordsIngested  prometheus.Counter
	recordsDuplicate prometheus.Counter

	// Annotation and pairing outcomes
	recordsAnnotated  *prometheus.CounterVec
	pairingOutcomes   *prometheus.CounterVec
	pairingAmbiguous  prometheus.Counter
	layoutBeforeWells *prometheus.GaugeVec

	// Execution
	stageDuration       *prometheus.HistogramVec
	workerCount         prometheus.Gauge
	workerChunkDuration prometheus.Histogram
	runs                *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "facspair",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_ingested_total",
		Help:      "Total number of records handed to the pipeline",
	})
	m.recordsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_duplicate_total",
		Help:      "Total number of records dropped because their record id was already seen",
	})
	m.recordsAnnotated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_annotated_total",
		Help:      "Records annotated against a layout, by measurement kind",
	}, []string{"measurement"})
	m.pairingOutcomes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairing_outcomes_total",
		Help:      "Before records visited by the pairer, by outcome",
	}, []string{"outcome"})
	m.pairingAmbiguous = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairing_ambiguous_total",
		Help:      "Pairing passes aborted because a before record had several candidates",
	})
	m.layoutBeforeWells = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "layout_before_wells",
		Help:      "Number of before wells per layout",
	}, []string{"layout"})
	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_duration_seconds",
		Help:      "Duration of pipeline stages",
		Buckets:   m.histogramBuckets,
	}, []string{"stage"})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "workers",
		Help:      "Configured worker pool size",
	})
	m.workerChunkDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_chunk_duration_seconds",
		Help:      "Time a worker spent on one contiguous chunk of records",
		Buckets:   m.histogramBuckets,
	})
	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Pipeline runs by result",
	}, []string{"result"})
	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Errors by component and type",
	}, []string{"component", "type"})
}

// RecordIngested adds n records to the ingest counter.
func (m *Manager) RecordIngested(n int) {
	if m.enabled && n > 0 {
		m.recordsIngested.Add(float64(n))
	}
}

// RecordDuplicate counts one dropped duplicate record.
func (m *Manager) RecordDuplicate() {
	if m.enabled {
		m.recordsDuplicate.Inc()
	}
}

// RecordAnnotated adds n annotated records of the given measurement kind.
func (m *Manager) RecordAnnotated(measurement string, n int) {
	if m.enabled && n > 0 {
		m.recordsAnnotated.WithLabelValues(measurement).Add(float64(n))
	}
}

// RecordPairingOutcome adds n before records that ended with outcome.
func (m *Manager) RecordPairingOutcome(outcome string, n int) {
	if m.enabled && n > 0 {
		m.pairingOutcomes.WithLabelValues(outcome).Add(float64(n))
	}
}

// RecordAmbiguousPairing counts one aborted pairing pass.
func (m *Manager) RecordAmbiguousPairing() {
	if m.enabled {
		m.pairingAmbiguous.Inc()
	}
}

// UpdateLayoutWells sets the before-well count of a layout.
func (m *Manager) UpdateLayoutWells(layout string, n int) {
	if m.enabled {
		m.layoutBeforeWells.WithLabelValues(layout).Set(float64(n))
	}
}

// ObserveStageDuration records how long a stage took.
func (m *Manager) ObserveStageDuration(stage string, d time.Duration) {
	if m.enabled {
		m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// UpdateWorkerCount sets the worker pool size.
func (m *Manager) UpdateWorkerCount(n int) {
	if m.enabled {
		m.workerCount.Set(float64(n))
	}
}

// ObserveWorkerChunk records the time spent on one chunk.
func (m *Manager) ObserveWorkerChunk(d time.Duration) {
	if m.enabled {
		m.workerChunkDuration.Observe(d.Seconds())
	}
}

// RecordRun counts a finished run.
func (m *Manager) RecordRun(result string) {
	if m.enabled {
		m.runs.WithLabelValues(result).Inc()
	}
}

// RecordErrorByComponent counts an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// Package-level recorders on the global manager.

// RecordIngested adds n records to the ingest counter.
func RecordIngested(n int) { globalManager.RecordIngested(n) }

// RecordDuplicate counts one dropped duplicate record.
func RecordDuplicate() { globalManager.RecordDuplicate() }

// RecordAnnotated adds n annotated records of the given measurement kind.
func RecordAnnotated(measurement string, n int) { globalManager.RecordAnnotated(measurement, n) }

// RecordPairingOutcome adds n before records that ended with outcome.
func RecordPairingOutcome(outcome string, n int) { globalManager.RecordPairingOutcome(outcome, n) }

// RecordAmbiguousPairing counts one aborted pairing pass.
func RecordAmbiguousPairing() { globalManager.RecordAmbiguousPairing() }

// UpdateLayoutWells sets the before-well count of a layout.
func UpdateLayoutWells(layout string, n int) { globalManager.UpdateLayoutWells(layout, n) }

// ObserveStageDuration records how long a stage took.
func ObserveStageDuration(stage string, d time.Duration) {
	globalManager.ObserveStageDuration(stage, d)
}

// UpdateWorkerCount sets the worker pool size.
func UpdateWorkerCount(n int) { globalManager.UpdateWorkerCount(n) }

// ObserveWorkerChunk records the time spent on one chunk.
func ObserveWorkerChunk(d time.Duration) { globalManager.ObserveWorkerChunk(d) }

// RecordRun counts a finished run.
func RecordRun(result string) { globalManager.RecordRun(result) }

// RecordErrorByComponent counts an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current metrics in text exposition format to
// path, for pickup by a node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}
