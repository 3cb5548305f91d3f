// Package nav implements the navigation coordinator: a per-flow router over
// registered views with a current screen, an optional back stack and
// overlays.
//
// Requests that reference unknown keys, and back navigation with an empty
// stack, are logged at warn level and ignored. They never return an error.
//
// A view registered in two coordinators can receive conflicting transitions.
// Nothing prevents it; callers must not share views between coordinators.
package nav

import (
	"context"
	"errors"
	"sync"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"screenflow/internal/metrics"
	"screenflow/internal/task"
	"screenflow/internal/telemetry"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithTracer sets the tracer for navigation spans.
func WithTracer(t oteltrace.Tracer) Option {
	return func(c *Coordinator) { c.tracer = t }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithTasks sets the tracker that runs detached closes.
func WithTasks(t *task.Tracker) Option {
	return func(c *Coordinator) { c.tasks = t }
}

// WithBackNavigation enables the back stack from the start.
func WithBackNavigation(enabled bool) Option {
	return func(c *Coordinator) { c.backEnabled = enabled }
}

// WithDefaultWaitForClose sets the NavigateTo default. It is false unless set.
func WithDefaultWaitForClose(wait bool) Option {
	return func(c *Coordinator) { c.waitForClose = wait }
}

// NavOption adjusts a single navigation.
type NavOption func(*navOptions)

type navOptions struct {
	waitForClose bool
}

// WaitForClose makes the navigation await the close of the current screen
// before showing the target. When false the close runs detached and the
// show starts immediately.
func WaitForClose(wait bool) NavOption {
	return func(o *navOptions) { o.waitForClose = wait }
}

// Coordinator routes between registered views.
type Coordinator struct {
	name         string
	logger       *zap.Logger
	tracer       oteltrace.Tracer
	metrics      *metrics.Metrics
	tasks        *task.Tracker
	waitForClose bool

	mu          sync.Mutex
	registered  map[Key]Presentable
	current     Key
	hasCurrent  bool
	stack       *Stack // allocated on first enable
	backEnabled bool
}

// New creates a coordinator. name labels its logs, spans and metrics.
func New(name string, opts ...Option) *Coordinator {
	c := &Coordinator{
		name:       name,
		logger:     zap.NewNop(),
		tracer:     noop.NewTracerProvider().Tracer(telemetry.InstrumentationName),
		registered: make(map[Key]Presentable),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("nav").With(zap.String("coordinator", name))
	if c.tasks == nil {
		c.tasks = task.NewTracker(c.logger, c.metrics)
	}
	if c.backEnabled {
		c.stack = &Stack{}
	}
	return c
}

// Name returns the coordinator's name.
func (c *Coordinator) Name() string { return c.name }

// Register binds p to key if the key is free and runs setup once on
// success. A second registration for the same key is ignored. A nil p is
// skipped.
func (c *Coordinator) Register(key Key, p Presentable, setup func(Presentable)) bool {
	if isNil(p) {
		return false
	}
	c.mu.Lock()
	if _, exists := c.registered[key]; exists {
		c.mu.Unlock()
		return false
	}
	c.registered[key] = p
	c.mu.Unlock()

	if setup != nil {
		setup(p)
	}
	return true
}

// Register binds p under KeyOf[T].
func Register[T Presentable](c *Coordinator, p T, setup func(T)) bool {
	var wrapped func(Presentable)
	if setup != nil {
		wrapped = func(Presentable) { setup(p) }
	}
	return c.Register(KeyOf[T](), p, wrapped)
}

// Unregister removes the view bound to key.
func (c *Coordinator) Unregister(key Key) {
	c.mu.Lock()
	_, ok := c.registered[key]
	delete(c.registered, key)
	c.mu.Unlock()
	if !ok {
		c.warnNotRegistered("unregister", key)
	}
}

// Registered reports whether key is bound.
func (c *Coordinator) Registered(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.registered[key]
	return ok
}

// Lookup returns the view bound to key.
func (c *Coordinator) Lookup(key Key) (Presentable, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.registered[key]
	return p, ok
}

// EnableBackNavigation starts recording history.
func (c *Coordinator) EnableBackNavigation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stack == nil {
		c.stack = &Stack{}
	}
	c.backEnabled = true
}

// DisableBackNavigation stops recording history. Existing entries are kept,
// so enabling again resumes where it left off.
func (c *Coordinator) DisableBackNavigation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backEnabled = false
}

// BackEnabled reports whether history is recorded.
func (c *Coordinator) BackEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backEnabled
}

// Current returns the current screen key.
func (c *Coordinator) Current() (Key, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.hasCurrent
}

// StackKeys returns the back history, bottom first.
func (c *Coordinator) StackKeys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stack.Keys()
}

// SetCurrent declares key as the current screen without any transition,
// e.g. for a view shown before the coordinator took over.
func (c *Coordinator) SetCurrent(key Key) {
	c.mu.Lock()
	_, ok := c.registered[key]
	if ok {
		c.current, c.hasCurrent = key, true
	}
	c.mu.Unlock()
	if !ok {
		c.warnNotRegistered("set_current", key)
	}
}

// NavigateTo closes the current screen and shows key. The current screen is
// pushed onto the back stack when back navigation is enabled. Navigating to
// the current screen does nothing.
func (c *Coordinator) NavigateTo(ctx context.Context, key Key, opts ...NavOption) error {
	o := navOptions{waitForClose: c.waitForClose}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, span := c.tracer.Start(ctx, "nav.NavigateTo", oteltrace.WithAttributes(
		telemetry.Attr("coordinator", c.name),
		telemetry.Attr("key", string(key)),
	))
	defer span.End()

	c.mu.Lock()
	target, ok := c.registered[key]
	if !ok {
		c.mu.Unlock()
		c.warnNotRegistered("navigate_to", key)
		return nil
	}
	if c.hasCurrent && c.current == key {
		c.mu.Unlock()
		return nil
	}
	prev, prevKey := c.currentLocked()
	if c.hasCurrent && c.backEnabled {
		c.stack.Push(c.current)
	}
	c.current, c.hasCurrent = key, true
	depth := c.stack.Len()
	c.mu.Unlock()

	if prevKey != "" {
		span.SetAttributes(telemetry.Attr("from", string(prevKey)))
	}
	c.metrics.RecordNavigation(c.name, "to")
	c.metrics.SetStackDepth(c.name, depth)
	c.logger.Debug("navigate", zap.String("key", string(key)), zap.String("from", string(prevKey)))

	return c.transition(ctx, prev, prevKey, target, o.waitForClose)
}

// NavigateBack closes the current screen and shows the top of the back
// stack, which is popped. Back navigation defaults to awaiting the close.
func (c *Coordinator) NavigateBack(ctx context.Context, opts ...NavOption) error {
	o := navOptions{waitForClose: true}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, span := c.tracer.Start(ctx, "nav.NavigateBack", oteltrace.WithAttributes(
		telemetry.Attr("coordinator", c.name),
	))
	defer span.End()

	c.mu.Lock()
	key, ok := c.stack.popOrEmpty()
	if !ok {
		c.mu.Unlock()
		c.logger.Warn("back stack is empty")
		c.metrics.RecordWarning(c.name, metrics.ReasonEmptyStack)
		return nil
	}
	target, ok := c.registered[key]
	depth := c.stack.Len()
	if !ok {
		c.mu.Unlock()
		c.metrics.SetStackDepth(c.name, depth)
		c.warnNotRegistered("navigate_back", key)
		return nil
	}
	prev, prevKey := c.currentLocked()
	c.current, c.hasCurrent = key, true
	c.mu.Unlock()

	span.SetAttributes(telemetry.Attr("key", string(key)))
	c.metrics.RecordNavigation(c.name, "back")
	c.metrics.SetStackDepth(c.name, depth)
	c.logger.Debug("navigate back", zap.String("key", string(key)), zap.String("from", string(prevKey)))

	return c.transition(ctx, prev, prevKey, target, o.waitForClose)
}

// ShowOverlay shows key without touching the current screen or the stack.
func (c *Coordinator) ShowOverlay(ctx context.Context, key Key) error {
	p, ok := c.Lookup(key)
	if !ok {
		c.warnNotRegistered("show_overlay", key)
		return nil
	}
	ctx, span := c.tracer.Start(ctx, "nav.ShowOverlay", oteltrace.WithAttributes(
		telemetry.Attr("coordinator", c.name),
		telemetry.Attr("key", string(key)),
	))
	defer span.End()
	c.metrics.RecordNavigation(c.name, "overlay_show")
	return p.Lifecycle().Show(ctx)
}

// CloseOverlay closes key without touching the current screen or the stack.
func (c *Coordinator) CloseOverlay(ctx context.Context, key Key) error {
	p, ok := c.Lookup(key)
	if !ok {
		c.warnNotRegistered("close_overlay", key)
		return nil
	}
	ctx, span := c.tracer.Start(ctx, "nav.CloseOverlay", oteltrace.WithAttributes(
		telemetry.Attr("coordinator", c.name),
		telemetry.Attr("key", string(key)),
	))
	defer span.End()
	c.metrics.RecordNavigation(c.name, "overlay_close")
	return p.Lifecycle().Close(ctx)
}

// Wait blocks until detached closes started by this coordinator finish.
func (c *Coordinator) Wait(ctx context.Context) error {
	return c.tasks.Wait(ctx)
}

// transition closes prev (awaited or detached) and then shows target.
func (c *Coordinator) transition(ctx context.Context, prev Presentable, prevKey Key, target Presentable, wait bool) error {
	var closeErr error
	if prev != nil {
		if wait {
			closeErr = prev.Lifecycle().Close(ctx)
		} else {
			// The close starts here so a later Show of prev supersedes it;
			// only the hide transition runs detached.
			done := prev.Lifecycle().BeginClose(context.WithoutCancel(ctx))
			c.tasks.Go(ctx, "close "+string(prevKey), func(context.Context) error {
				return done()
			})
		}
	}
	return errors.Join(closeErr, target.Lifecycle().Show(ctx))
}

// currentLocked returns the current view, or nil if there is none or it was
// unregistered.
func (c *Coordinator) currentLocked() (Presentable, Key) {
	if !c.hasCurrent {
		return nil, ""
	}
	return c.registered[c.current], c.current
}

func (c *Coordinator) warnNotRegistered(op string, key Key) {
	c.logger.Warn("view not registered", zap.String("op", op), zap.String("key", string(key)))
	c.metrics.RecordWarning(c.name, metrics.ReasonNotRegistered)
}

func (s *Stack) popOrEmpty() (Key, bool) {
	if s == nil {
		return "", false
	}
	return s.Pop()
}
