// Package metrics holds the Prometheus collectors for navigation, view
// transitions and the window registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "screenflow"

// Warning reasons for WarningsTotal.
const (
	ReasonNotRegistered = "not_registered"
	ReasonEmptyStack    = "empty_stack"
)

// Metrics holds the collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Navigation
	NavigationsTotal *prometheus.CounterVec
	WarningsTotal    *prometheus.CounterVec
	StackDepth       *prometheus.GaugeVec

	// Transitions
	TransitionsTotal   *prometheus.CounterVec
	TransitionDuration *prometheus.HistogramVec

	// Registry
	AssetLoadsTotal    prometheus.Counter
	HandleReusesTotal  prometheus.Counter
	WindowsCreated     *prometheus.CounterVec
	WindowsLive        prometheus.Gauge
	CreateErrorsTotal  *prometheus.CounterVec
	DetachedTaskErrors prometheus.Counter
}

// New creates the collectors on a private registry.
//
// Metrics:
//   - screenflow_navigations_total{coordinator,kind}
//   - screenflow_navigation_warnings_total{coordinator,reason}
//   - screenflow_back_stack_depth{coordinator}
//   - screenflow_view_transitions_total{to}
//   - screenflow_view_transition_seconds{to}
//   - screenflow_asset_loads_total
//   - screenflow_asset_handle_reuses_total
//   - screenflow_windows_created_total{type}
//   - screenflow_windows_live
//   - screenflow_window_create_errors_total{reason}
//   - screenflow_detached_task_errors_total
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		NavigationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Total navigations performed, by kind (to, back, overlay_show, overlay_close).",
		}, []string{"coordinator", "kind"}),
		WarningsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigation_warnings_total",
			Help:      "Navigation requests ignored with a warning.",
		}, []string{"coordinator", "reason"}),
		StackDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "back_stack_depth",
			Help:      "Current back stack depth.",
		}, []string{"coordinator"}),
		TransitionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_transitions_total",
			Help:      "View state changes, by destination state.",
		}, []string{"to"}),
		TransitionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_transition_seconds",
			Help:      "Time from the start of a transition to its resting state.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 8), // 10ms to ~1.3s
		}, []string{"to"}),
		AssetLoadsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_loads_total",
			Help:      "Window assets loaded from the loader.",
		}),
		HandleReusesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_handle_reuses_total",
			Help:      "Window creations served by a cached asset handle.",
		}),
		WindowsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "windows_created_total",
			Help:      "Window instances created, by type.",
		}, []string{"type"}),
		WindowsLive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "windows_live",
			Help:      "Window instances currently registered.",
		}),
		CreateErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "window_create_errors_total",
			Help:      "Failed window creations, by reason.",
		}, []string{"reason"}),
		DetachedTaskErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detached_task_errors_total",
			Help:      "Detached tasks that returned an error or panicked.",
		}),
	}
}

// Registry returns the private registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordNavigation counts a navigation.
func (m *Metrics) RecordNavigation(coordinator, kind string) {
	if m == nil {
		return
	}
	m.NavigationsTotal.WithLabelValues(coordinator, kind).Inc()
}

// RecordWarning counts an ignored navigation request.
func (m *Metrics) RecordWarning(coordinator, reason string) {
	if m == nil {
		return
	}
	m.WarningsTotal.WithLabelValues(coordinator, reason).Inc()
}

// SetStackDepth records the back stack depth.
func (m *Metrics) SetStackDepth(coordinator string, depth int) {
	if m == nil {
		return
	}
	m.StackDepth.WithLabelValues(coordinator).Set(float64(depth))
}

// RecordTransition counts a state change and, for resting states, its duration.
func (m *Metrics) RecordTransition(to string, d time.Duration) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(to).Inc()
	if d > 0 {
		m.TransitionDuration.WithLabelValues(to).Observe(d.Seconds())
	}
}

// RecordAssetLoad counts a loader round trip.
func (m *Metrics) RecordAssetLoad() {
	if m == nil {
		return
	}
	m.AssetLoadsTotal.Inc()
}

// RecordHandleReuse counts a creation that reused a cached handle.
func (m *Metrics) RecordHandleReuse() {
	if m == nil {
		return
	}
	m.HandleReusesTotal.Inc()
}

// RecordWindowCreated counts a new instance.
func (m *Metrics) RecordWindowCreated(typeName string) {
	if m == nil {
		return
	}
	m.WindowsCreated.WithLabelValues(typeName).Inc()
	m.WindowsLive.Inc()
}

// RecordWindowDestroyed decrements the live gauge.
func (m *Metrics) RecordWindowDestroyed() {
	if m == nil {
		return
	}
	m.WindowsLive.Dec()
}

// RecordCreateError counts a failed creation.
func (m *Metrics) RecordCreateError(reason string) {
	if m == nil {
		return
	}
	m.CreateErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordTaskError counts a failed detached task.
func (m *Metrics) RecordTaskError() {
	if m == nil {
		return
	}
	m.DetachedTaskErrors.Inc()
}
