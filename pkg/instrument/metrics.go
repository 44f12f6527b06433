package instrument

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/props/pkg/property"
)

// MetricsConfig configures the Prometheus monitor.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "props").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for propagation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus monitor.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "props",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a property.Monitor and binding.PropagationMonitor backed by
// Prometheus collectors.
type Metrics struct {
	notifications       *prometheus.CounterVec
	listenerFaults      *prometheus.CounterVec
	listenersPerRound   prometheus.Histogram
	propagations        prometheus.Counter
	droppedPropagations prometheus.Counter
	propagationDuration prometheus.Histogram
	activeBindings      prometheus.Gauge
}

var (
	globalMetrics   *Metrics
	globalMetricsMu sync.Mutex
)

// Prometheus returns the process-wide Metrics, registering it on first use.
// Options are only honored by the first call.
func Prometheus(opts ...MetricsOption) *Metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = NewMetrics(opts...)
	}
	return globalMetrics
}

// NewMetrics creates and registers a fresh set of collectors. Registering
// twice on the same registry panics, as promauto does.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Notification rounds that reached at least one listener",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		listenerFaults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listener_faults_total",
			Help:        "Listener panics recovered during notification",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		listenersPerRound: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listeners_per_notification",
			Help:        "Listeners reached by a single notification round",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32, 64},
		}),

		propagations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "propagations_total",
			Help:        "Binding recomputes",
			ConstLabels: config.ConstLabels,
		}),

		droppedPropagations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "propagations_dropped_total",
			Help:        "Binding recomputes dropped by the propagation depth bound",
			ConstLabels: config.ConstLabels,
		}),

		propagationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "propagation_duration_seconds",
			Help:        "Duration of a binding recompute including everything it triggered",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		activeBindings: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_bindings",
			Help:        "Bindings created and not yet disposed",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Notified implements property.Monitor.
func (m *Metrics) Notified(kind property.Kind, listeners int) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind.String()).Inc()
	m.listenersPerRound.Observe(float64(listeners))
}

// ListenerFailed implements property.Monitor.
func (m *Metrics) ListenerFailed(kind property.Kind, _ error) {
	if m == nil {
		return
	}
	m.listenerFaults.WithLabelValues(kind.String()).Inc()
}

// BindingCreated implements binding.PropagationMonitor.
func (m *Metrics) BindingCreated(string, string) {
	if m == nil {
		return
	}
	m.activeBindings.Inc()
}

// BindingDisposed implements binding.PropagationMonitor.
func (m *Metrics) BindingDisposed(string, string) {
	if m == nil {
		return
	}
	m.activeBindings.Dec()
}

// StartPropagation implements binding.PropagationMonitor.
func (m *Metrics) StartPropagation(string, string) func() {
	if m == nil {
		return func() {}
	}
	m.propagations.Inc()
	start := time.Now()
	return func() {
		m.propagationDuration.Observe(time.Since(start).Seconds())
	}
}

// PropagationDropped implements binding.PropagationMonitor.
func (m *Metrics) PropagationDropped(string, string, int) {
	if m == nil {
		return
	}
	m.droppedPropagations.Inc()
}
