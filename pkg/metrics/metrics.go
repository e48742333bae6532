package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/filament-ui/filament/pkg/reactive"
)

// Config configures the Prometheus collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "filament").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for event and flush durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "filament",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for a live server.
type Metrics struct {
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	eventErrors    *prometheus.CounterVec
	patchesSent    prometheus.Counter
	patchBytes     prometheus.Counter
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter
	flushDuration  prometheus.Histogram
	flushJobs      prometheus.Histogram
	wsErrors       *prometheus.CounterVec
}

// New creates the collectors and registers them with the configured registry.
// Calling New twice against the same registry panics, as promauto does.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	if len(config.Buckets) == 0 {
		config.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of client events processed",
			ConstLabels: config.ConstLabels,
		}, []string{"event"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_duration_seconds",
			Help:        "Event dispatch duration in seconds",
			Buckets:     config.Buckets,
			ConstLabels: config.ConstLabels,
		}, []string{"event"}),

		eventErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_errors_total",
			Help:        "Total number of events that failed to dispatch",
			ConstLabels: config.ConstLabels,
		}, []string{"event"}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_sent_total",
			Help:        "Total number of HTML patches pushed to clients",
			ConstLabels: config.ConstLabels,
		}),

		patchBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_bytes_total",
			Help:        "Total bytes of HTML patches pushed to clients",
			ConstLabels: config.ConstLabels,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of currently active live sessions",
			ConstLabels: config.ConstLabels,
		}),

		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions_total",
			Help:        "Total number of live sessions created",
			ConstLabels: config.ConstLabels,
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			Buckets:     config.Buckets,
			ConstLabels: config.ConstLabels,
		}),

		flushJobs: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_jobs",
			Help:        "Number of jobs executed per scheduler flush",
			Buckets:     []float64{1, 2, 5, 10, 25, 50, 100, 250},
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total number of WebSocket errors by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),
	}
}

// ObserveEvent records a dispatched event and its duration.
func (m *Metrics) ObserveEvent(event string, d time.Duration) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(event).Inc()
	m.eventDuration.WithLabelValues(event).Observe(d.Seconds())
}

// ObserveEventError records a failed event dispatch.
func (m *Metrics) ObserveEventError(event string) {
	if m == nil {
		return
	}
	m.eventErrors.WithLabelValues(event).Inc()
}

// ObservePatch records a patch pushed to a client.
func (m *Metrics) ObservePatch(bytes int) {
	if m == nil {
		return
	}
	m.patchesSent.Inc()
	m.patchBytes.Add(float64(bytes))
}

// SessionStarted records a new live session.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.sessionsTotal.Inc()
	m.activeSessions.Inc()
}

// SessionEnded records a closed live session.
func (m *Metrics) SessionEnded() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// ObserveWSError records a WebSocket error by kind ("read", "write",
// "upgrade", "decode").
func (m *Metrics) ObserveWSError(kind string) {
	if m == nil {
		return
	}
	m.wsErrors.WithLabelValues(kind).Inc()
}

// FlushObserver returns an observer suitable for
// reactive.Scheduler.SetObserver. It records flush duration and job
// counts. Safe to fan out to several schedulers.
func (m *Metrics) FlushObserver() reactive.FlushObserver {
	return func(jobs int, duration time.Duration) {
		if m == nil || jobs == 0 {
			return
		}
		m.flushDuration.Observe(duration.Seconds())
		m.flushJobs.Observe(float64(jobs))
	}
}
