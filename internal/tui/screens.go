package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"screenflow/internal/behavior"
	"screenflow/internal/nav"
	"screenflow/internal/runtime"
	"screenflow/internal/view"
	"screenflow/internal/window"
)

// Demo screens. Each is its own type so the registry keys them apart.
type (
	Home     struct{ *Panel }
	Settings struct{ *Panel }
	Profile  struct{ *Panel }
	Help     struct{ *Panel }
	Toast    struct{ *Panel }
)

// Provide registers a factory for every demo screen.
func Provide(rt *runtime.Runtime) {
	reg := rt.Registry()
	animator := func(spec window.Spec) (view.Animator, error) {
		return rt.Animator(spec.Animation)
	}
	window.Provide(reg, func(ctx context.Context, s window.Spec) (*Home, error) {
		p, err := NewPanel(ctx, s, animator, false)
		return &Home{p}, err
	})
	window.Provide(reg, func(ctx context.Context, s window.Spec) (*Settings, error) {
		p, err := NewPanel(ctx, s, animator, false)
		return &Settings{p}, err
	})
	window.Provide(reg, func(ctx context.Context, s window.Spec) (*Profile, error) {
		p, err := NewPanel(ctx, s, animator, false)
		return &Profile{p}, err
	})
	window.Provide(reg, func(ctx context.Context, s window.Spec) (*Help, error) {
		p, err := NewPanel(ctx, s, animator, true)
		return &Help{p}, err
	})
	window.Provide(reg, func(ctx context.Context, s window.Spec) (*Toast, error) {
		p, err := NewPanel(ctx, s, animator, true)
		return &Toast{p}, err
	})
}

// Screens holds the mounted demo screens.
type Screens struct {
	Home     *Home
	Settings *Settings
	Profile  *Profile
	Help     *Help
	Toast    *Toast
}

// Mount creates the demo screens under scope, registers them with coord and
// the stage, and binds their keys. Toast has no scope of its own and is
// created under the runtime's current scope.
func Mount(ctx context.Context, rt *runtime.Runtime, coord *nav.Coordinator, stage *Stage, scope string) (*Screens, error) {
	Provide(rt)
	reg := rt.Registry()

	var (
		s   Screens
		err error
	)
	if s.Home, err = window.GetOrCreate[*Home](ctx, reg, scope); err != nil {
		return nil, fmt.Errorf("mount home: %w", err)
	}
	if s.Settings, err = window.GetOrCreate[*Settings](ctx, reg, scope); err != nil {
		return nil, fmt.Errorf("mount settings: %w", err)
	}
	if s.Profile, err = window.GetOrCreate[*Profile](ctx, reg, scope); err != nil {
		return nil, fmt.Errorf("mount profile: %w", err)
	}
	if s.Help, err = window.GetOrCreate[*Help](ctx, reg, scope); err != nil {
		return nil, fmt.Errorf("mount help: %w", err)
	}
	if s.Toast, err = window.GetOrCreate[*Toast](ctx, reg, ""); err != nil {
		return nil, fmt.Errorf("mount toast: %w", err)
	}

	nav.Register(coord, s.Home, func(h *Home) { stage.Add(nav.KeyOf[*Home](), h.Panel) })
	nav.Register(coord, s.Settings, func(p *Settings) { stage.Add(nav.KeyOf[*Settings](), p.Panel) })
	nav.Register(coord, s.Profile, func(p *Profile) { stage.Add(nav.KeyOf[*Profile](), p.Panel) })
	nav.Register(coord, s.Help, func(p *Help) { stage.Add(nav.KeyOf[*Help](), p.Panel) })
	nav.Register(coord, s.Toast, func(p *Toast) { stage.Add(nav.KeyOf[*Toast](), p.Panel) })

	bindDefaults(ctx, rt, coord, stage, &s)
	return &s, nil
}

// clickedMsg reports how many behaviors a key press started.
type clickedMsg struct {
	Button  string
	Started int
}

// click returns a command that clicks b.
func click(ctx context.Context, b *behavior.Button) tea.Cmd {
	return func() tea.Msg {
		return clickedMsg{Button: b.Name, Started: b.Dispatch(ctx, behavior.Click)}
	}
}

func bindDefaults(ctx context.Context, rt *runtime.Runtime, coord *nav.Coordinator, stage *Stage, s *Screens) {
	tasks := rt.Tasks()
	home, settings, profile := nav.KeyOf[*Home](), nav.KeyOf[*Settings](), nav.KeyOf[*Profile]()
	help, toast := nav.KeyOf[*Help](), nav.KeyOf[*Toast]()
	reg := stage.Keys().Registry

	// Screen buttons only fire while their screen accepts input.
	toSettings := behavior.NewButton("settings", s.Home.Lifecycle(), tasks, behavior.Navigate{Coordinator: coord, Key: settings})
	toProfile := behavior.NewButton("profile", s.Home.Lifecycle(), tasks, behavior.Navigate{Coordinator: coord, Key: profile})
	reg.BindForScreens("s", click(ctx, toSettings), "settings", []nav.Key{home})
	reg.BindForScreens("p", click(ctx, toProfile), "profile", []nav.Key{home})

	back := behavior.NewButton("back", nil, tasks, behavior.Back{Coordinator: coord})
	stage.SetBack(click(ctx, back))
	reg.BindForScreens("backspace", click(ctx, back), "back", []nav.Key{settings, profile})

	reg.BindWithDesc("?", click(ctx, behavior.NewButton("help", nil, tasks,
		behavior.ToggleOverlay{Coordinator: coord, Key: help})), "help")
	reg.BindWithDesc("t", click(ctx, behavior.NewButton("toast", nil, tasks,
		behavior.ToggleOverlay{Coordinator: coord, Key: toast})), "toast")
	reg.BindWithDesc("q", tea.Quit, "quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "quit")

	reg.Group("g", "go")
	for seq, key := range map[string]nav.Key{"SPC g h": home, "SPC g s": settings, "SPC g p": profile} {
		b := behavior.NewButton("go "+string(key), nil, tasks, behavior.Navigate{Coordinator: coord, Key: key})
		reg.BindWithDesc(seq, click(ctx, b), string(key))
	}
}
