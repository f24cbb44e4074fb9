// Package metrics exposes Prometheus instrumentation for template fills,
// state notifications, dialogs and live connections.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures a Recorder.
type Config struct {
	// Namespace is the metrics namespace (default: "mumulib").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Recorder.
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

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "mumulib",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Recorder holds the collectors. A nil *Recorder records nothing.
type Recorder struct {
	fillsTotal         *prometheus.CounterVec
	fillTargetsTotal   *prometheus.CounterVec
	clonesTotal        *prometheus.CounterVec
	templateFetches    *prometheus.CounterVec
	notificationsTotal prometheus.Counter
	flushesTotal       prometheus.Counter
	patchesTotal       prometheus.Counter
	activeConnections  prometheus.Gauge
	wsErrors           *prometheus.CounterVec
	dialogsTotal       *prometheus.CounterVec
}

// New registers a fresh set of collectors.
func New(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}

	return &Recorder{
		fillsTotal:         counterVec("slot_fills_total", "Total number of slot fills by mode", "mode"),
		fillTargetsTotal:   counterVec("slot_fill_targets_total", "Total number of slot nodes written by mode", "mode"),
		clonesTotal:        counterVec("pattern_clones_total", "Total number of pattern clones by status", "status"),
		templateFetches:    counterVec("template_fetches_total", "Total number of template fetches by scheme and status", "scheme", "status"),
		notificationsTotal: counter("state_notifications_total", "Total number of state notification passes"),
		flushesTotal:       counter("state_deferred_flushes_total", "Total number of coalesced state flushes"),
		patchesTotal:       counter("patches_total", "Total number of patches produced by morphing"),
		activeConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_connections",
			Help:        "Number of open live connections",
			ConstLabels: config.ConstLabels,
		}),
		wsErrors:     counterVec("websocket_errors_total", "Total WebSocket errors by type", "type"),
		dialogsTotal: counterVec("dialogs_total", "Total number of dialog interactions by outcome", "outcome"),
	}
}

var (
	defaultRecorder     *Recorder
	defaultRecorderOnce sync.Once
)

// Default returns the process-wide Recorder, registered with the default
// Prometheus registerer on first use.
func Default() *Recorder {
	defaultRecorderOnce.Do(func() {
		defaultRecorder = New()
	})
	return defaultRecorder
}

// RecordFill records one slot fill that wrote targets nodes.
func (r *Recorder) RecordFill(mode string, targets int) {
	if r == nil {
		return
	}
	r.fillsTotal.WithLabelValues(mode).Inc()
	r.fillTargetsTotal.WithLabelValues(mode).Add(float64(targets))
}

// RecordClone records a pattern clone with status "ok" or "error".
func (r *Recorder) RecordClone(status string) {
	if r == nil {
		return
	}
	r.clonesTotal.WithLabelValues(status).Inc()
}

// RecordFetch records a template fetch.
func (r *Recorder) RecordFetch(scheme, status string) {
	if r == nil {
		return
	}
	if scheme == "" {
		scheme = "path"
	}
	r.templateFetches.WithLabelValues(scheme, status).Inc()
}

// RecordNotification records one pass over the state subscribers.
func (r *Recorder) RecordNotification() {
	if r == nil {
		return
	}
	r.notificationsTotal.Inc()
}

// RecordFlush records a deferred flush of coalesced state changes.
func (r *Recorder) RecordFlush() {
	if r == nil {
		return
	}
	r.flushesTotal.Inc()
}

// RecordPatches records the number of patches a morph produced.
func (r *Recorder) RecordPatches(count int) {
	if r == nil || count == 0 {
		return
	}
	r.patchesTotal.Add(float64(count))
}

// RecordConnectionOpen records a new live connection.
func (r *Recorder) RecordConnectionOpen() {
	if r == nil {
		return
	}
	r.activeConnections.Inc()
}

// RecordConnectionClose records a closed live connection.
func (r *Recorder) RecordConnectionClose() {
	if r == nil {
		return
	}
	r.activeConnections.Dec()
}

// RecordWebSocketError records a WebSocket error.
func (r *Recorder) RecordWebSocketError(errorType string) {
	if r == nil {
		return
	}
	r.wsErrors.WithLabelValues(errorType).Inc()
}

// RecordDialog records how a dialog was closed: "cancel", "method",
// "fields" or "error".
func (r *Recorder) RecordDialog(outcome string) {
	if r == nil {
		return
	}
	r.dialogsTotal.WithLabelValues(outcome).Inc()
}
