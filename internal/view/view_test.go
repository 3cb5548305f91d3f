package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSurface struct {
	active bool
	size   Size
}

func (s stubSurface) Active() bool { return s.active }
func (s stubSurface) Size() Size   { return s.size }

// fakeAnimator records transitions. Blocking transitions wait for release
// or cancellation; only transitions that run to completion "arrive".
type fakeAnimator struct {
	mu        sync.Mutex
	started   chan string
	release   chan struct{}
	blockShow bool
	blockHide bool
	fail      error
	arrived   []string
	immediate []string
}

func newFakeAnimator() *fakeAnimator {
	return &fakeAnimator{
		started: make(chan string, 16),
		release: make(chan struct{}),
	}
}

func (f *fakeAnimator) run(ctx context.Context, t Target, kind string, block bool) error {
	f.started <- kind
	if block {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.release:
		}
	}
	if f.fail != nil {
		return f.fail
	}
	if kind == "show" {
		t.SetOpacity(1)
	} else {
		t.SetOpacity(0)
	}
	f.mu.Lock()
	f.arrived = append(f.arrived, kind)
	f.mu.Unlock()
	return nil
}

func (f *fakeAnimator) Show(ctx context.Context, t Target) error {
	return f.run(ctx, t, "show", f.blockShow)
}

func (f *fakeAnimator) Hide(ctx context.Context, t Target) error {
	return f.run(ctx, t, "hide", f.blockHide)
}

func (f *fakeAnimator) ShowImmediate(t Target) {
	t.SetOpacity(1)
	f.mu.Lock()
	f.immediate = append(f.immediate, "show")
	f.mu.Unlock()
}

func (f *fakeAnimator) HideImmediate(t Target) {
	t.SetOpacity(0)
	f.mu.Lock()
	f.immediate = append(f.immediate, "hide")
	f.mu.Unlock()
}

func (f *fakeAnimator) Arrived() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.arrived...)
}

func (f *fakeAnimator) waitStarted(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-f.started:
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s transition to start", want)
	}
}

func newAttached(anim Animator, opts ...Option) *View {
	v := New("Settings", append([]Option{WithAnimator(anim)}, opts...)...)
	v.Attach(stubSurface{active: true, size: Size{W: 80, H: 24}})
	return v
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Hidden", Hidden.String())
	assert.Equal(t, "Showing", Showing.String())
	assert.Equal(t, "Visible", Visible.String())
	assert.Equal(t, "Hiding", Hiding.String())
	assert.Equal(t, "Unknown", State(42).String())
}

func TestNew_Defaults(t *testing.T) {
	v := New("Main")
	assert.Equal(t, Hidden, v.State())
	assert.False(t, v.Interactable())
	assert.True(t, v.Alive())
	assert.Equal(t, FullRect(), v.Layout())
	assert.Same(t, v, v.Lifecycle())
}

func TestShow_AlreadyVisibleIsNoop(t *testing.T) {
	anim := newFakeAnimator()
	v := newAttached(anim)
	v.ShowImmediate()

	require.NoError(t, v.Show(context.Background()))
	assert.Equal(t, Visible, v.State())
	assert.Empty(t, anim.Arrived())
	assert.Len(t, anim.started, 0, "no animation should be invoked")
}

func TestClose_AlreadyHiddenIsNoop(t *testing.T) {
	anim := newFakeAnimator()
	v := newAttached(anim)

	require.NoError(t, v.Close(context.Background()))
	assert.Equal(t, Hidden, v.State())
	assert.Len(t, anim.started, 0)
	assert.Empty(t, anim.immediate)
}

func TestShow_DetachedAppliesImmediately(t *testing.T) {
	anim := newFakeAnimator()
	v := New("Settings", WithAnimator(anim))

	require.NoError(t, v.Show(context.Background()))
	assert.Equal(t, Visible, v.State())
	assert.True(t, v.Interactable())
	assert.Len(t, anim.started, 0)
	assert.Equal(t, []string{"show"}, anim.immediate)
	assert.Equal(t, 1.0, v.Opacity())
}

func TestShow_InactiveSurfaceAppliesImmediately(t *testing.T) {
	anim := newFakeAnimator()
	v := New("Settings", WithAnimator(anim))
	v.Attach(stubSurface{active: false})

	require.NoError(t, v.Show(context.Background()))
	assert.Equal(t, Visible, v.State())
	assert.Len(t, anim.started, 0)
}

func TestShow_NoAnimatorAppliesImmediately(t *testing.T) {
	v := New("Settings")
	v.Attach(stubSurface{active: true})
	v.SetOffset(Point{X: 3})

	require.NoError(t, v.Show(context.Background()))
	assert.Equal(t, Visible, v.State())
	assert.Equal(t, 1.0, v.Opacity())
	assert.Equal(t, Point{}, v.Offset())
}

func TestShow_Animated(t *testing.T) {
	anim := newFakeAnimator()
	anim.blockShow = true
	v := newAttached(anim)

	done := make(chan error, 1)
	go func() { done <- v.Show(context.Background()) }()

	anim.waitStarted(t, "show")
	assert.Equal(t, Showing, v.State())
	assert.False(t, v.Interactable(), "interactable only after the show completes")

	// Re-entrant show while Showing does nothing.
	require.NoError(t, v.Show(context.Background()))

	close(anim.release)
	require.NoError(t, <-done)
	assert.Equal(t, Visible, v.State())
	assert.True(t, v.Interactable())
	assert.Equal(t, []string{"show"}, anim.Arrived())
}

func TestShow_RestingInteractableFlag(t *testing.T) {
	v := New("Toast", WithInteractable(false))
	v.ShowImmediate()
	assert.Equal(t, Visible, v.State())
	assert.False(t, v.Interactable())
}

func TestClose_DisablesInputImmediately(t *testing.T) {
	anim := newFakeAnimator()
	anim.blockHide = true
	v := newAttached(anim)
	v.ShowImmediate()
	require.True(t, v.Interactable())

	done := make(chan error, 1)
	go func() { done <- v.Close(context.Background()) }()

	anim.waitStarted(t, "hide")
	assert.Equal(t, Hiding, v.State())
	assert.False(t, v.Interactable())

	close(anim.release)
	require.NoError(t, <-done)
	assert.Equal(t, Hidden, v.State())
	assert.Equal(t, 0.0, v.Opacity())
}

func TestShowThenClose_LastRequestWins(t *testing.T) {
	anim := newFakeAnimator()
	anim.blockShow = true
	v := newAttached(anim)

	showDone := make(chan error, 1)
	go func() { showDone <- v.Show(context.Background()) }()
	anim.waitStarted(t, "show")

	require.NoError(t, v.Close(context.Background()))
	require.NoError(t, <-showDone)

	assert.Equal(t, Hidden, v.State())
	assert.False(t, v.Interactable(), "abandoned show must not apply its resting flag")
	assert.Equal(t, []string{"hide"}, anim.Arrived(), "exactly one animation arrives")
}

func TestCloseThenShow_LastRequestWins(t *testing.T) {
	anim := newFakeAnimator()
	anim.blockHide = true
	v := newAttached(anim)
	v.ShowImmediate()

	closeDone := make(chan error, 1)
	go func() { closeDone <- v.Close(context.Background()) }()
	anim.waitStarted(t, "hide")

	require.NoError(t, v.Show(context.Background()))
	require.NoError(t, <-closeDone)

	assert.Equal(t, Visible, v.State())
	assert.True(t, v.Interactable())
	assert.Equal(t, []string{"show"}, anim.Arrived())
}

func TestBeginClose_StateChangesBeforeWait(t *testing.T) {
	anim := newFakeAnimator()
	anim.blockHide = true
	v := newAttached(anim)
	v.ShowImmediate()

	wait := v.BeginClose(context.Background())
	assert.Equal(t, Hiding, v.State())
	assert.False(t, v.Interactable())

	// A show issued before the hide even starts supersedes it.
	require.NoError(t, v.Show(context.Background()))
	require.NoError(t, wait())

	assert.Equal(t, Visible, v.State())
	assert.True(t, v.Interactable())
	assert.Equal(t, []string{"show"}, anim.Arrived())
}

func TestBeginClose_NoopWhenHidden(t *testing.T) {
	v := newAttached(newFakeAnimator())
	require.NoError(t, v.BeginClose(context.Background())())
	assert.Equal(t, Hidden, v.State())
}

func TestShow_CallerCancelSnapsToVisible(t *testing.T) {
	anim := newFakeAnimator()
	anim.blockShow = true
	v := newAttached(anim)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Show(ctx) }()
	anim.waitStarted(t, "show")
	cancel()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Visible, v.State())
	assert.Equal(t, 1.0, v.Opacity())
	assert.Contains(t, anim.immediate, "show")
}

func TestShow_AnimationFailureStillRests(t *testing.T) {
	anim := newFakeAnimator()
	anim.fail = errors.New("tween exploded")
	v := newAttached(anim)

	err := v.Show(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tween exploded")
	assert.Equal(t, Visible, v.State())
}

func TestImmediate_AbandonsInFlight(t *testing.T) {
	anim := newFakeAnimator()
	anim.blockShow = true
	v := newAttached(anim)

	done := make(chan error, 1)
	go func() { done <- v.Show(context.Background()) }()
	anim.waitStarted(t, "show")

	v.CloseImmediate()
	require.NoError(t, <-done)
	assert.Equal(t, Hidden, v.State())
	assert.Empty(t, anim.Arrived())
}

func TestEvents(t *testing.T) {
	ch := make(chan Event, 8)
	v := New("Main", WithEmitter(&ChanEmitter{Ch: ch}))

	v.ShowImmediate()
	v.ShowImmediate() // no change, no event
	v.CloseImmediate()

	require.Len(t, ch, 2)
	first := <-ch
	assert.Equal(t, "Main", first.View)
	assert.Equal(t, Hidden, first.From)
	assert.Equal(t, Visible, first.To)
	assert.False(t, first.At.IsZero())
	second := <-ch
	assert.Equal(t, Visible, second.From)
	assert.Equal(t, Hidden, second.To)
}

func TestChanEmitter_DropsWhenFull(t *testing.T) {
	ch := make(chan Event, 1)
	e := &ChanEmitter{Ch: ch}
	e.Emit(Event{View: "a"})
	e.Emit(Event{View: "b"})
	assert.Len(t, ch, 1)
	assert.Equal(t, "a", (<-ch).View)
}

func TestDestroy(t *testing.T) {
	v := New("Main")
	v.Attach(stubSurface{active: true})
	v.ShowImmediate()

	var order []int
	v.OnDestroy(func() { order = append(order, 1) })
	v.OnDestroy(func() { order = append(order, 2) })

	v.Destroy()
	v.Destroy()
	assert.Equal(t, []int{2, 1}, order, "hooks run once, LIFO")
	assert.False(t, v.Alive())
	assert.Nil(t, v.Surface())
	assert.False(t, v.Interactable())

	require.NoError(t, v.Close(context.Background()))
	assert.Equal(t, Visible, v.State(), "destroyed views ignore transitions")

	ran := false
	v.OnDestroy(func() { ran = true })
	assert.True(t, ran, "late hooks run immediately")
}

func TestLayout_Normalized(t *testing.T) {
	l := Layout{
		AnchorMin: Point{0.25, 0.1},
		AnchorMax: Point{0.75, 0.9},
		OffsetMin: Point{-3, 2},
		OffsetMax: Point{5, 5},
		Position:  Point{10, 10},
		Scale:     0.5,
	}
	n := l.Normalized()
	assert.Equal(t, Layout{AnchorMin: l.AnchorMin, AnchorMax: l.AnchorMax, Scale: 1}, n)
	assert.Equal(t, FullRect(), Layout{}.Normalized())
}

func TestLayout_SizeAndOrigin(t *testing.T) {
	parent := Size{W: 100, H: 40}
	l := Layout{AnchorMin: Point{0.1, 0.25}, AnchorMax: Point{0.6, 0.75}, OffsetMax: Point{2, 0}, Scale: 1}
	assert.Equal(t, Size{W: 52, H: 20}, l.Size(parent))
	assert.Equal(t, Point{X: 10, Y: 10}, l.Origin(parent))

	assert.Equal(t, Size{}, Layout{AnchorMin: Point{1, 1}}.Size(parent), "inverted rects clamp to zero")
}

func TestView_Size(t *testing.T) {
	v := New("Main")
	assert.Equal(t, Size{}, v.Size(), "detached views have no parent size")
	v.Attach(stubSurface{active: true, size: Size{W: 80, H: 24}})
	assert.Equal(t, Size{W: 80, H: 24}, v.Size())
}

func TestOpacityClamped(t *testing.T) {
	v := New("Main")
	v.SetOpacity(2)
	assert.Equal(t, 1.0, v.Opacity())
	v.SetOpacity(-1)
	assert.Equal(t, 0.0, v.Opacity())
}
