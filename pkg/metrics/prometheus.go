// Package metrics provides Prometheus metrics for the opteams enumerator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the team builder.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Catalog metrics
	catalogLoads  prometheus.Counter
	recordsLoaded prometheus.Counter
	catalogSize   prometheus.Gauge

	// Enumeration metrics
	runsStarted         prometheus.Counter
	teamsEmitted        prometheus.Counter
	candidatesRejected  prometheus.Counter
	branchesPruned      prometheus.Counter
	enumerationDuration prometheus.Histogram

	// Error metrics
	loadErrors *prometheus.CounterVec
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
		namespace:        "opteams",
		subsystem:        "enumerator",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.catalogLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_loads_total",
		Help:      "Total number of catalogs successfully loaded",
	})

	m.recordsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_loaded_total",
		Help:      "Total number of character records loaded into catalogs",
	})

	m.catalogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_size",
		Help:      "Number of records in the most recently loaded catalog",
	})

	m.runsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_started_total",
		Help:      "Total number of enumeration runs started",
	})

	m.teamsEmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_emitted_total",
		Help:      "Total number of valid teams emitted",
	})

	m.candidatesRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_rejected_total",
		Help:      "Total number of exact-sum candidates that failed a validity predicate",
	})

	m.branchesPruned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "branches_pruned_total",
		Help:      "Total number of search branches abandoned by a prune",
	})

	m.enumerationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "enumeration_duration_seconds",
		Help:      "Wall-clock duration of complete enumeration runs",
		Buckets:   m.histogramBuckets,
	})

	m.loadErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "load_errors_total",
			Help:      "Total number of catalog load failures by kind",
		},
		[]string{"kind"},
	)
}

// RecordCatalogLoad increments the catalog loads counter and sets the size gauge.
func RecordCatalogLoad(size int) {
	globalManager.catalogLoads.Inc()
	globalManager.catalogSize.Set(float64(size))
}

// RecordRecordsLoaded adds to the records loaded counter.
func RecordRecordsLoaded(n int) {
	globalManager.recordsLoaded.Add(float64(n))
}

// RecordRunStarted increments the runs started counter.
func RecordRunStarted() {
	globalManager.runsStarted.Inc()
}

// RecordTeamEmitted increments the teams emitted counter.
func RecordTeamEmitted() {
	globalManager.teamsEmitted.Inc()
}

// RecordCandidateRejected increments the rejected candidates counter.
func RecordCandidateRejected() {
	globalManager.candidatesRejected.Inc()
}

// RecordBranchPruned increments the pruned branches counter.
func RecordBranchPruned() {
	globalManager.branchesPruned.Inc()
}

// RecordEnumerationDuration records the duration of a complete run in seconds.
func RecordEnumerationDuration(seconds float64) {
	globalManager.enumerationDuration.Observe(seconds)
}

// RecordLoadError increments the load errors counter for the given kind.
func RecordLoadError(kind string) {
	globalManager.loadErrors.WithLabelValues(kind).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
