package behavior

import (
	"context"

	"screenflow/internal/nav"
)

// Navigate moves the coordinator to Key on click.
type Navigate struct {
	Base
	Coordinator  *nav.Coordinator
	Key          nav.Key
	WaitForClose bool
}

func (n Navigate) OnClick(ctx context.Context) error {
	return n.Coordinator.NavigateTo(ctx, n.Key, nav.WaitForClose(n.WaitForClose))
}

// Back pops the coordinator's back stack on click.
type Back struct {
	Base
	Coordinator *nav.Coordinator
}

func (b Back) OnClick(ctx context.Context) error {
	return b.Coordinator.NavigateBack(ctx)
}

// ToggleOverlay shows Key as an overlay on click, or closes it if it is
// already up.
type ToggleOverlay struct {
	Base
	Coordinator *nav.Coordinator
	Key         nav.Key
}

func (t ToggleOverlay) OnClick(ctx context.Context) error {
	p, ok := t.Coordinator.Lookup(t.Key)
	if ok && p.Lifecycle().State().VisibleIntent() {
		return t.Coordinator.CloseOverlay(ctx, t.Key)
	}
	return t.Coordinator.ShowOverlay(ctx, t.Key)
}
