// Package window implements the window registry: a type-keyed lazy factory
// and singleton cache whose instances are created under a named scope.
//
// The registry keeps at most one live instance per window type. Loaded asset
// handles are cached per asset key and shared by every instance created from
// them; a handle is released when the last of those instances is destroyed.
// Concurrent creations for the same type and scope share a single load and a
// single instance.
package window

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"screenflow/internal/asset"
	"screenflow/internal/config"
	"screenflow/internal/metrics"
	"screenflow/internal/telemetry"
	"screenflow/internal/view"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithTracer sets the tracer used for window.Create spans.
func WithTracer(t oteltrace.Tracer) Option {
	return func(r *Registry) { r.tracer = t }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithScope sets the function that supplies the current scope when a
// creation call omits one.
func WithScope(fn func() string) Option {
	return func(r *Registry) { r.currentScope = fn }
}

// WithAnimation sets the default animation handed to factories.
func WithAnimation(a config.Animation) Option {
	return func(r *Registry) { r.animation = a }
}

// WithEmitter subscribes e to the lifecycle events of every created window.
func WithEmitter(e view.Emitter) Option {
	return func(r *Registry) { r.emitters = append(r.emitters, e) }
}

// entry is a cached asset handle shared by the instances created from it.
type entry struct {
	handle asset.Handle
	refs   int
}

// Registry creates and caches windows.
type Registry struct {
	loader       asset.Loader
	logger       *zap.Logger
	tracer       oteltrace.Tracer
	metrics      *metrics.Metrics
	currentScope func() string
	animation    config.Animation
	emitters     []view.Emitter

	mu        sync.Mutex
	hosts     map[string]Host
	factories map[string]Factory
	instances map[string]Window
	handles   map[string]*entry

	group singleflight.Group
}

// NewRegistry creates a registry loading assets through loader.
func NewRegistry(loader asset.Loader, opts ...Option) *Registry {
	r := &Registry{
		loader:       loader,
		logger:       zap.NewNop(),
		tracer:       noop.NewTracerProvider().Tracer(telemetry.InstrumentationName),
		currentScope: func() string { return "" },
		animation:    config.Default().Animation,
		hosts:        make(map[string]Host),
		factories:    make(map[string]Factory),
		instances:    make(map[string]Window),
		handles:      make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("window")
	return r
}

// RegisterHost makes h the owner of scope, replacing any previous owner.
func (r *Registry) RegisterHost(scope string, h Host) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hosts[scope] = h
}

// UnregisterHost removes the owner of scope. Windows already created under
// it are not affected.
func (r *Registry) UnregisterHost(scope string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hosts, scope)
}

// Host returns the owner of scope.
func (r *Registry) Host(scope string) (Host, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hosts[scope]
	return h, ok
}

// Provide registers the factory for a window type.
func (r *Registry) Provide(typeName string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[typeName] = f
}

// Lookup returns the live instance registered under typeName.
func (r *Registry) Lookup(typeName string) (Window, bool) {
	r.mu.Lock()
	w, ok := r.instances[typeName]
	r.mu.Unlock()
	if !ok || !w.Lifecycle().Alive() {
		return nil, false
	}
	return w, true
}

// Register records w as the live instance of its type. Destroying w's view
// removes it again.
func (r *Registry) Register(w Window) {
	if w == nil || w.Lifecycle() == nil {
		return
	}
	name := typeName(reflect.TypeOf(w))
	r.register(name, w, "", nil)
	r.metrics.RecordWindowCreated(name)
}

// Live returns the number of registered instances.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

// CachedHandles returns the number of cached asset handles.
func (r *Registry) CachedHandles() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// DestroyAll destroys every registered instance.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	live := make([]Window, 0, len(r.instances))
	for _, w := range r.instances {
		live = append(live, w)
	}
	r.mu.Unlock()
	for _, w := range live {
		w.Lifecycle().Destroy()
	}
}

// GetOrCreate returns the live instance of typeName, creating one if needed.
func (r *Registry) GetOrCreate(ctx context.Context, typeName, scope string) (Window, error) {
	if w, ok := r.Lookup(typeName); ok {
		return w, nil
	}
	return r.Create(ctx, typeName, scope)
}

// Create instantiates a new window of typeName under scope and registers it
// as the live instance. An empty scope falls back to the current scope.
//
// Concurrent calls that resolve to the same type and scope share one
// creation, and with it the asset key of the call that started it.
//
// Create returns a *ConfigurationError when no host owns the scope and
// ErrMissingComponent when the asset does not yield a typeName window.
func (r *Registry) Create(ctx context.Context, typeName, scope string) (Window, error) {
	resolved := scope
	if resolved == "" {
		resolved = r.currentScope()
	}
	v, err, _ := r.group.Do(typeName+"\x00"+resolved, func() (any, error) {
		return r.create(ctx, typeName, scope, resolved)
	})
	if err != nil {
		return nil, err
	}
	return v.(Window), nil
}

func (r *Registry) create(ctx context.Context, typeName, scope, resolved string) (w Window, err error) {
	key := asset.Key(scope, typeName)
	id := uuid.New()

	ctx, span := r.tracer.Start(ctx, "window.Create", oteltrace.WithAttributes(
		telemetry.Attr("type", typeName),
		telemetry.Attr("scope", resolved),
		telemetry.Attr("asset", key),
		telemetry.Attr("id", id.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	log := r.logger.With(
		zap.String("type", typeName),
		zap.String("scope", resolved),
		zap.String("id", id.String()),
	)

	host, ok := r.Host(resolved)
	if !ok {
		r.metrics.RecordCreateError("configuration")
		return nil, &ConfigurationError{Scope: resolved}
	}

	e, err := r.acquire(ctx, key)
	if err != nil {
		r.metrics.RecordCreateError("load")
		return nil, fmt.Errorf("load window %s: %w", typeName, err)
	}

	w, err = r.instantiate(ctx, e, Spec{ID: id, Type: typeName, Scope: resolved, Host: host})
	if err != nil {
		r.unref(key, e)
		if errors.Is(err, ErrMissingComponent) {
			r.metrics.RecordCreateError("missing_component")
			log.Error("window asset has no usable component", zap.String("asset", key), zap.Error(err))
		} else {
			r.metrics.RecordCreateError("factory")
		}
		return nil, err
	}

	v := w.Lifecycle()
	v.SetLayout(v.Layout().Normalized())
	v.Attach(host)
	for _, em := range r.emitters {
		v.Subscribe(em)
	}
	r.register(typeName, w, key, e)
	r.metrics.RecordWindowCreated(typeName)
	log.Debug("window created", zap.String("asset", key))
	return w, nil
}

// acquire returns the cached handle entry for key, loading it if needed,
// with a reference taken for the caller.
func (r *Registry) acquire(ctx context.Context, key string) (*entry, error) {
	r.mu.Lock()
	if e, ok := r.handles[key]; ok && e.handle.Valid() {
		e.refs++
		r.mu.Unlock()
		r.metrics.RecordHandleReuse()
		return e, nil
	}
	r.mu.Unlock()

	h, err := r.loader.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordAssetLoad()

	e := &entry{handle: h, refs: 1}
	r.mu.Lock()
	r.handles[key] = e
	r.mu.Unlock()
	return e, nil
}

// unref drops one reference to e and releases its handle once nothing
// references it.
func (r *Registry) unref(key string, e *entry) {
	r.mu.Lock()
	e.refs--
	release := e.refs == 0
	if release && r.handles[key] == e {
		delete(r.handles, key)
	}
	r.mu.Unlock()
	if release {
		r.loader.Release(e.handle)
	}
}

func (r *Registry) instantiate(ctx context.Context, e *entry, spec Spec) (Window, error) {
	tpl, err := asset.Resolve(e.handle)
	if err != nil {
		return nil, err
	}
	if tpl.Component != spec.Type {
		return nil, fmt.Errorf("%w: asset %s declares %q, want %q",
			ErrMissingComponent, e.handle.Key(), tpl.Component, spec.Type)
	}

	r.mu.Lock()
	f, ok := r.factories[spec.Type]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: no factory for %s", ErrMissingComponent, spec.Type)
	}

	spec.Template = tpl
	spec.Animation = tpl.AnimationConfig(r.animation)
	w, err := f(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("create window %s: %w", spec.Type, err)
	}
	if w == nil || w.Lifecycle() == nil {
		return nil, fmt.Errorf("%w: factory for %s returned no view", ErrMissingComponent, spec.Type)
	}
	return w, nil
}

// register records w and wires its removal to the view's destruction. e is
// the entry acquired for w, or nil for windows created outside the registry.
func (r *Registry) register(typeName string, w Window, key string, e *entry) {
	r.mu.Lock()
	r.instances[typeName] = w
	r.mu.Unlock()

	w.Lifecycle().OnDestroy(func() {
		r.mu.Lock()
		if cur, ok := r.instances[typeName]; ok && cur == w {
			delete(r.instances, typeName)
		}
		r.mu.Unlock()

		if e != nil {
			r.unref(key, e)
		}
		r.metrics.RecordWindowDestroyed()
		r.logger.Debug("window destroyed", zap.String("type", typeName))
	})
}
