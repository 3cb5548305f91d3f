// Package view implements the per-view visibility lifecycle.
//
// A View moves between Hidden and Visible through the transient Showing and
// Hiding states. Show, Close (and its split form BeginClose), ShowImmediate
// and CloseImmediate are the only operations that change the state. Starting a transition abandons any
// transition already in flight on the same view: the newest request wins and
// the abandoned one never applies its resting side effects.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Animator is a pluggable show/hide transition strategy.
//
// Show and Hide block until the transition completes or ctx is done.
// Implementations must cancel their own in-flight transition on the same
// target before starting a new one.
type Animator interface {
	Show(ctx context.Context, t Target) error
	Hide(ctx context.Context, t Target) error
	ShowImmediate(t Target)
	HideImmediate(t Target)
}

// Target is the visual surface an Animator drives.
type Target interface {
	Name() string
	Size() Size
	Opacity() float64
	SetOpacity(float64)
	Offset() Point
	SetOffset(Point)
}

// Surface is where a view is presented.
type Surface interface {
	// Active reports whether the surface is currently presenting.
	Active() bool
	// Size is the surface size in cells.
	Size() Size
}

// Option configures a View.
type Option func(*View)

// WithAnimator attaches a transition strategy.
func WithAnimator(a Animator) Option {
	return func(v *View) { v.animator = a }
}

// WithInteractable sets the interactable flag applied when a show completes.
// Defaults to true.
func WithInteractable(interactable bool) Option {
	return func(v *View) { v.restInteractable = interactable }
}

// WithLayout sets the initial layout. Defaults to FullRect.
func WithLayout(l Layout) Option {
	return func(v *View) { v.layout = l }
}

// WithEmitter subscribes e to lifecycle events.
func WithEmitter(e Emitter) Option {
	return func(v *View) { v.emitters = append(v.emitters, e) }
}

// View is a presentable surface with show/hide state.
// Safe for concurrent use.
type View struct {
	name string

	mu               sync.Mutex
	state            State
	interactable     bool
	restInteractable bool
	animator         Animator
	surface          Surface
	layout           Layout
	gen              uint64 // bumped by every transition start
	cancel           context.CancelFunc
	destroyed        bool
	onDestroy        []func()
	emitters         []Emitter

	vmu     sync.RWMutex // guards visual properties only
	opacity float64
	offset  Point
}

// New creates a hidden, detached view.
func New(name string, opts ...Option) *View {
	v := &View{
		name:             name,
		state:            Hidden,
		restInteractable: true,
		layout:           FullRect(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Lifecycle returns v. It lets *View satisfy interfaces that wrap a view.
func (v *View) Lifecycle() *View { return v }

// Name returns the view's logical name.
func (v *View) Name() string { return v.name }

// State returns the current visibility state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Interactable reports whether the view currently accepts input.
func (v *View) Interactable() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.interactable
}

// Alive reports whether Destroy has not been called.
func (v *View) Alive() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.destroyed
}

// SetAnimator replaces the transition strategy. It applies to the next transition.
func (v *View) SetAnimator(a Animator) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.animator = a
}

// Subscribe adds a lifecycle event emitter.
func (v *View) Subscribe(e Emitter) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.emitters = append(v.emitters, e)
}

// Attach places the view on a surface.
func (v *View) Attach(s Surface) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.surface = s
}

// Detach removes the view from its surface. Later transitions apply without animation.
func (v *View) Detach() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.surface = nil
}

// Surface returns the surface the view is attached to, or nil.
func (v *View) Surface() Surface {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.surface
}

// Layout returns the current layout.
func (v *View) Layout() Layout {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.layout
}

// SetLayout replaces the layout.
func (v *View) SetLayout(l Layout) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.layout = l
}

// Size is the resolved size of the view on its surface.
func (v *View) Size() Size {
	v.mu.Lock()
	l, s := v.layout, v.surface
	v.mu.Unlock()
	var parent Size
	if s != nil {
		parent = s.Size()
	}
	return l.Size(parent)
}

// Opacity returns the current opacity in [0, 1].
func (v *View) Opacity() float64 {
	v.vmu.RLock()
	defer v.vmu.RUnlock()
	return v.opacity
}

// SetOpacity sets the opacity, clamped to [0, 1].
func (v *View) SetOpacity(o float64) {
	v.vmu.Lock()
	defer v.vmu.Unlock()
	v.opacity = min(max(o, 0), 1)
}

// Offset returns the current visual offset from the layout origin.
func (v *View) Offset() Point {
	v.vmu.RLock()
	defer v.vmu.RUnlock()
	return v.offset
}

// SetOffset sets the visual offset.
func (v *View) SetOffset(p Point) {
	v.vmu.Lock()
	defer v.vmu.Unlock()
	v.offset = p
}

// OnDestroy registers fn to run once when the view is destroyed.
// Hooks run in reverse registration order. If the view is already
// destroyed, fn runs immediately.
func (v *View) OnDestroy(fn func()) {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		fn()
		return
	}
	v.onDestroy = append(v.onDestroy, fn)
	v.mu.Unlock()
}

// Destroy abandons any transition, detaches the view and runs destroy hooks.
// Later operations on the view are no-ops.
func (v *View) Destroy() {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return
	}
	v.destroyed = true
	v.abandonLocked()
	v.surface = nil
	v.interactable = false
	hooks := v.onDestroy
	v.onDestroy = nil
	v.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// Show makes the view visible, playing the show transition when an animator
// is attached and the surface is active. It is a no-op when the view is
// already Visible or Showing.
//
// If a newer transition supersedes this one, Show returns nil without
// applying the resting state. If ctx is done first, the view snaps to
// Visible and ctx.Err() is returned.
func (v *View) Show(ctx context.Context) error {
	v.mu.Lock()
	if v.destroyed || v.state.VisibleIntent() {
		v.mu.Unlock()
		return nil
	}
	anim := v.animator
	if anim == nil || !v.surfaceActiveLocked() {
		v.abandonLocked()
		ev := v.setStateLocked(Visible)
		v.interactable = v.restInteractable
		v.mu.Unlock()
		v.showVisuals(anim)
		v.emit(ev)
		return nil
	}
	tctx, token := v.beginLocked(ctx)
	ev := v.setStateLocked(Showing)
	v.mu.Unlock()
	v.emit(ev)

	err := anim.Show(tctx, v)
	return v.finish(ctx, token, anim, Visible, err)
}

// Close hides the view. Input is disabled immediately, then the hide
// transition plays when an animator is attached and the surface is active.
// It is a no-op when the view is already Hidden or Hiding.
func (v *View) Close(ctx context.Context) error {
	return v.BeginClose(ctx)()
}

// BeginClose starts closing the view and returns a func that plays the hide
// transition and applies the resting state. Input is disabled and the state
// leaves Visible before BeginClose returns, so a Show issued after it
// supersedes this close even if wait has not run yet.
func (v *View) BeginClose(ctx context.Context) (wait func() error) {
	v.mu.Lock()
	if v.destroyed || v.state.HiddenIntent() {
		v.mu.Unlock()
		return noWait
	}
	v.interactable = false
	anim := v.animator
	if anim == nil || !v.surfaceActiveLocked() {
		v.abandonLocked()
		ev := v.setStateLocked(Hidden)
		v.mu.Unlock()
		v.hideVisuals(anim)
		v.emit(ev)
		return noWait
	}
	tctx, token := v.beginLocked(ctx)
	ev := v.setStateLocked(Hiding)
	v.mu.Unlock()
	v.emit(ev)

	return func() error {
		err := anim.Hide(tctx, v)
		return v.finish(ctx, token, anim, Hidden, err)
	}
}

func noWait() error { return nil }

// ShowImmediate applies the visible resting state synchronously.
func (v *View) ShowImmediate() {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return
	}
	v.abandonLocked()
	ev := v.setStateLocked(Visible)
	v.interactable = v.restInteractable
	anim := v.animator
	v.mu.Unlock()
	v.showVisuals(anim)
	v.emit(ev)
}

// CloseImmediate applies the hidden resting state synchronously.
func (v *View) CloseImmediate() {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return
	}
	v.abandonLocked()
	ev := v.setStateLocked(Hidden)
	v.interactable = false
	anim := v.animator
	v.mu.Unlock()
	v.hideVisuals(anim)
	v.emit(ev)
}

// finish applies the resting state for a transition unless it was superseded.
func (v *View) finish(ctx context.Context, token uint64, anim Animator, rest State, animErr error) error {
	v.mu.Lock()
	if v.destroyed || token != v.gen {
		v.mu.Unlock()
		return nil
	}
	v.abandonLocked()
	ev := v.setStateLocked(rest)
	if rest == Visible {
		v.interactable = v.restInteractable
	}
	v.mu.Unlock()

	if err := ctx.Err(); err != nil {
		v.snap(anim, rest)
		v.emit(ev)
		return err
	}
	v.emit(ev)
	if animErr != nil && !errors.Is(animErr, context.Canceled) {
		v.snap(anim, rest)
		return fmt.Errorf("view %s: transition to %s: %w", v.name, rest, animErr)
	}
	return nil
}

// beginLocked abandons the in-flight transition and starts a new one.
func (v *View) beginLocked(ctx context.Context) (context.Context, uint64) {
	v.abandonLocked()
	tctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	return tctx, v.gen
}

// abandonLocked cancels the in-flight transition, if any, and invalidates its token.
func (v *View) abandonLocked() {
	v.gen++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *View) surfaceActiveLocked() bool {
	return v.surface != nil && v.surface.Active()
}

// setStateLocked changes the state and returns the event to emit after unlocking.
func (v *View) setStateLocked(to State) *Event {
	from := v.state
	if from == to {
		return nil
	}
	v.state = to
	return &Event{View: v.name, From: from, To: to, At: time.Now()}
}

func (v *View) emit(ev *Event) {
	if ev == nil {
		return
	}
	v.mu.Lock()
	emitters := v.emitters
	v.mu.Unlock()
	for _, e := range emitters {
		e.Emit(*ev)
	}
}

func (v *View) snap(anim Animator, rest State) {
	if rest == Visible {
		v.showVisuals(anim)
	} else {
		v.hideVisuals(anim)
	}
}

func (v *View) showVisuals(anim Animator) {
	if anim != nil {
		anim.ShowImmediate(v)
		return
	}
	v.SetOpacity(1)
	v.SetOffset(Point{})
}

func (v *View) hideVisuals(anim Animator) {
	if anim != nil {
		anim.HideImmediate(v)
		return
	}
	v.SetOpacity(0)
}
