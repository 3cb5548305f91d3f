// Package runtime owns the UI state that would otherwise be process-wide:
// the current scope, the window registry, the asset loader and the ambient
// logger, tracer and metrics. The entry point constructs one Runtime and
// hands it to everything that needs it.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"screenflow/internal/anim"
	"screenflow/internal/asset"
	"screenflow/internal/config"
	"screenflow/internal/logging"
	"screenflow/internal/metrics"
	"screenflow/internal/nav"
	"screenflow/internal/task"
	"screenflow/internal/telemetry"
	"screenflow/internal/view"
	"screenflow/internal/window"
)

// Option overrides a Runtime collaborator.
type Option func(*Runtime)

// WithLogger replaces the logger built from config.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithTelemetry sets the tracer provider. Tracing is a no-op without it.
func WithTelemetry(p *telemetry.Provider) Option {
	return func(r *Runtime) { r.telemetry = p }
}

// WithMetrics replaces the metrics created by New.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runtime) { r.metrics = m }
}

// WithLoader replaces the loader chosen from config.
func WithLoader(l asset.Loader) Option {
	return func(r *Runtime) { r.loader = l }
}

// Runtime is the explicit UI context.
type Runtime struct {
	cfg       *config.Config
	logger    *zap.Logger
	telemetry *telemetry.Provider
	metrics   *metrics.Metrics
	tasks     *task.Tracker
	loader    asset.Loader
	registry  *window.Registry

	mu    sync.RWMutex
	scope string
}

// New builds a runtime from cfg.
func New(cfg *config.Config, opts ...Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	r := &Runtime{cfg: cfg, scope: cfg.UI.DefaultScope}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		logger, err := logging.New(cfg.Logging)
		if err != nil {
			return nil, err
		}
		r.logger = logger
	}
	if r.metrics == nil {
		r.metrics = metrics.New()
	}
	if r.loader == nil {
		if cfg.Assets.Dir != "" {
			r.loader = asset.NewFSLoader(os.DirFS(cfg.Assets.Dir))
		} else {
			r.loader = asset.NewFSLoader(asset.Builtin())
		}
	}
	r.tasks = task.NewTracker(r.logger, r.metrics)
	r.registry = window.NewRegistry(r.loader,
		window.WithLogger(r.logger),
		window.WithTracer(r.Tracer()),
		window.WithMetrics(r.metrics),
		window.WithScope(r.CurrentScope),
		window.WithAnimation(cfg.Animation),
		window.WithEmitter(r.metrics.Transitions()),
	)

	r.logger.Debug("runtime ready",
		zap.String("scope", r.scope),
		zap.String("assets", cfg.Assets.Dir),
		zap.Bool("tracing", r.telemetry.Enabled()),
	)
	return r, nil
}

// SetCurrentScope sets the scope used by creations that omit one.
func (r *Runtime) SetCurrentScope(scope string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scope = scope
}

// CurrentScope returns the scope used by creations that omit one.
func (r *Runtime) CurrentScope() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scope
}

func (r *Runtime) Config() *config.Config      { return r.cfg }
func (r *Runtime) Logger() *zap.Logger         { return r.logger }
func (r *Runtime) Metrics() *metrics.Metrics   { return r.metrics }
func (r *Runtime) Tasks() *task.Tracker        { return r.tasks }
func (r *Runtime) Loader() asset.Loader        { return r.loader }
func (r *Runtime) Registry() *window.Registry  { return r.registry }
func (r *Runtime) Tracer() oteltrace.Tracer    { return r.telemetry.Tracer() }

// Animator builds the strategy for a window from its resolved animation.
func (r *Runtime) Animator(a config.Animation) (view.Animator, error) {
	return anim.FromConfig(a)
}

// NewCoordinator builds a coordinator sharing the runtime's logger, tracer,
// metrics and task tracker. Back navigation and the NavigateTo close policy
// default to the UI config; opts override them.
func (r *Runtime) NewCoordinator(name string, opts ...nav.Option) *nav.Coordinator {
	base := []nav.Option{
		nav.WithLogger(r.logger),
		nav.WithTracer(r.Tracer()),
		nav.WithMetrics(r.metrics),
		nav.WithTasks(r.tasks),
		nav.WithBackNavigation(r.cfg.UI.BackNavigation),
		nav.WithDefaultWaitForClose(r.cfg.UI.WaitForClose),
	}
	return nav.New(name, append(base, opts...)...)
}

// Shutdown waits for detached tasks, destroys live windows and flushes
// telemetry.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error
	if err := r.tasks.Wait(ctx); err != nil {
		errs = append(errs, err)
	}
	r.registry.DestroyAll()
	if err := r.telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}
	_ = r.logger.Sync()
	return errors.Join(errs...)
}
