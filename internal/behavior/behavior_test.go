package behavior

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"screenflow/internal/logging"
	"screenflow/internal/nav"
	"screenflow/internal/task"
	"screenflow/internal/view"
)

// recorder records the events it receives.
type recorder struct {
	Base
	mu     sync.Mutex
	events []Event
	always bool
	block  chan struct{}
	err    error
}

func (r *recorder) record(e Event) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) got() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) Initialize(context.Context) error { return r.record(Initialize) }
func (r *recorder) OnEnabled(context.Context) error  { return r.record(Enabled) }
func (r *recorder) OnDisabled(context.Context) error { return r.record(Disabled) }
func (r *recorder) OnHover(context.Context) error    { return r.record(Hover) }
func (r *recorder) OnLeave(context.Context) error    { return r.record(Leave) }
func (r *recorder) OnClick(context.Context) error    { return r.record(Click) }
func (r *recorder) FiresWhenNonInteractable() bool   { return r.always }

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "click", Click.String())
	assert.Equal(t, "initialize", Initialize.String())
	assert.Equal(t, "event(42)", Event(42).String())
}

func TestDispatch_AllEvents(t *testing.T) {
	tasks := task.NewTracker(nil, nil)
	v := view.New("menu")
	v.ShowImmediate()
	r := &recorder{}
	b := NewButton("ok", v, tasks, r)

	for _, e := range []Event{Initialize, Enabled, Disabled, Hover, Leave, Click} {
		assert.Equal(t, 1, b.Dispatch(context.Background(), e))
		require.NoError(t, tasks.Wait(context.Background()))
	}
	assert.Equal(t, []Event{Initialize, Enabled, Disabled, Hover, Leave, Click}, r.got())
}

func TestDispatch_SkipsNil(t *testing.T) {
	tasks := task.NewTracker(nil, nil)
	r := &recorder{}
	b := NewButton("ok", nil, tasks, nil, r, nil)

	assert.Equal(t, 1, b.Dispatch(context.Background(), Click))
	require.NoError(t, tasks.Wait(context.Background()))
	assert.Equal(t, []Event{Click}, r.got())
}

func TestDispatch_NonInteractable(t *testing.T) {
	tasks := task.NewTracker(nil, nil)
	v := view.New("menu") // hidden, so not interactable
	gated, always := &recorder{}, &recorder{always: true}
	b := NewButton("ok", v, tasks, gated, always)

	assert.Equal(t, 1, b.Dispatch(context.Background(), Click))
	assert.Equal(t, 2, b.Dispatch(context.Background(), Initialize))
	require.NoError(t, tasks.Wait(context.Background()))

	assert.Equal(t, []Event{Initialize}, gated.got())
	assert.ElementsMatch(t, []Event{Click, Initialize}, always.got())
}

func TestDispatch_DetachedAndIsolated(t *testing.T) {
	logger, logs := logging.NewObserved(zapcore.DebugLevel)
	tasks := task.NewTracker(logger, nil)
	slow := &recorder{block: make(chan struct{})}
	failing := &recorder{err: errors.New("no sound card")}
	fast := &recorder{}
	b := NewButton("ok", nil, tasks, slow, failing, fast)

	assert.Equal(t, 3, b.Dispatch(context.Background(), Click))

	// The slow behavior does not hold back the others.
	require.Eventually(t, func() bool {
		return len(fast.got()) == 1 && len(failing.got()) == 1
	}, time.Second, time.Millisecond)
	assert.Empty(t, slow.got())

	close(slow.block)
	require.NoError(t, tasks.Wait(context.Background()))
	assert.Equal(t, []Event{Click}, slow.got())
	assert.Equal(t, 1, logs.FilterMessage("detached task failed").Len())
}

func TestBuiltins(t *testing.T) {
	ctx := context.Background()
	tasks := task.NewTracker(nil, nil)
	c := nav.New("main", nav.WithBackNavigation(true), nav.WithTasks(tasks))
	home, settings, help := view.New("Home"), view.New("Settings"), view.New("Help")
	require.True(t, c.Register("Home", home, nil))
	require.True(t, c.Register("Settings", settings, nil))
	require.True(t, c.Register("Help", help, nil))
	require.NoError(t, c.NavigateTo(ctx, "Home"))

	button := view.New("button")
	button.ShowImmediate()

	b := NewButton("settings", button, tasks, Navigate{Coordinator: c, Key: "Settings", WaitForClose: true})
	b.Dispatch(ctx, Click)
	require.NoError(t, tasks.Wait(ctx))
	cur, _ := c.Current()
	assert.Equal(t, nav.Key("Settings"), cur)
	assert.Equal(t, view.Hidden, home.State())

	toggle := NewButton("help", button, tasks, ToggleOverlay{Coordinator: c, Key: "Help"})
	toggle.Dispatch(ctx, Click)
	require.NoError(t, tasks.Wait(ctx))
	assert.Equal(t, view.Visible, help.State())
	toggle.Dispatch(ctx, Click)
	require.NoError(t, tasks.Wait(ctx))
	assert.Equal(t, view.Hidden, help.State())

	back := NewButton("back", button, tasks, Back{Coordinator: c})
	back.Dispatch(ctx, Click)
	require.NoError(t, tasks.Wait(ctx))
	cur, _ = c.Current()
	assert.Equal(t, nav.Key("Home"), cur)
	assert.Equal(t, view.Visible, home.State())
	assert.Equal(t, view.Hidden, settings.State())
}
