// Package behavior defines button reactions and dispatches them.
//
// Every behavior attached to a button reacts to an event independently: the
// dispatcher starts each one as a detached task, so a slow or failing
// behavior never delays or aborts its siblings.
package behavior

import (
	"context"
	"fmt"

	"screenflow/internal/task"
	"screenflow/internal/view"
)

// Event is a button interaction.
type Event int

const (
	Initialize Event = iota
	Enabled
	Disabled
	Hover
	Leave
	Click
)

func (e Event) String() string {
	switch e {
	case Initialize:
		return "initialize"
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	case Hover:
		return "hover"
	case Leave:
		return "leave"
	case Click:
		return "click"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Behavior reacts to button events.
type Behavior interface {
	Initialize(ctx context.Context) error
	OnEnabled(ctx context.Context) error
	OnDisabled(ctx context.Context) error
	OnHover(ctx context.Context) error
	OnLeave(ctx context.Context) error
	OnClick(ctx context.Context) error
	// FiresWhenNonInteractable reports whether the behavior still reacts
	// while the owning view does not accept input.
	FiresWhenNonInteractable() bool
}

// Base implements Behavior with no-ops. Embed it and override what you need.
type Base struct{}

func (Base) Initialize(context.Context) error { return nil }
func (Base) OnEnabled(context.Context) error  { return nil }
func (Base) OnDisabled(context.Context) error { return nil }
func (Base) OnHover(context.Context) error    { return nil }
func (Base) OnLeave(context.Context) error    { return nil }
func (Base) OnClick(context.Context) error    { return nil }
func (Base) FiresWhenNonInteractable() bool   { return false }

// handler returns the method of b that handles e.
func handler(b Behavior, e Event) task.Func {
	switch e {
	case Initialize:
		return b.Initialize
	case Enabled:
		return b.OnEnabled
	case Disabled:
		return b.OnDisabled
	case Hover:
		return b.OnHover
	case Leave:
		return b.OnLeave
	case Click:
		return b.OnClick
	default:
		return nil
	}
}

// Button fans events out to its behaviors.
type Button struct {
	Name      string
	View      *view.View
	Behaviors []Behavior

	tasks *task.Tracker
}

// NewButton creates a button on v. Behaviors run on tasks.
func NewButton(name string, v *view.View, tasks *task.Tracker, behaviors ...Behavior) *Button {
	return &Button{Name: name, View: v, Behaviors: behaviors, tasks: tasks}
}

// Dispatch starts every eligible behavior for e and returns how many were
// started. It does not wait for them. Nil behaviors are skipped. While the
// view is not interactable only behaviors that fire anyway are started;
// Initialize always fires.
func (b *Button) Dispatch(ctx context.Context, e Event) int {
	interactable := b.View == nil || b.View.Interactable()
	started := 0
	for _, beh := range b.Behaviors {
		if beh == nil {
			continue
		}
		if e != Initialize && !interactable && !beh.FiresWhenNonInteractable() {
			continue
		}
		fn := handler(beh, e)
		if fn == nil {
			continue
		}
		b.tasks.Go(ctx, b.Name+" "+e.String(), fn)
		started++
	}
	return started
}
