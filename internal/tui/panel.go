package tui

import (
	"context"
	"math"

	"github.com/charmbracelet/lipgloss"

	"screenflow/internal/view"
	"screenflow/internal/window"
)

// AnimatorFunc builds the animator for a resolved animation config.
type AnimatorFunc func(spec window.Spec) (view.Animator, error)

// Panel is a titled box that owns a view lifecycle.
type Panel struct {
	view    *view.View
	title   string
	body    string
	overlay bool
}

// NewPanel builds a panel from a window spec.
func NewPanel(_ context.Context, spec window.Spec, animator AnimatorFunc, overlay bool) (*Panel, error) {
	tpl := spec.Template
	opts := []view.Option{
		view.WithLayout(tpl.ViewLayout()),
		view.WithInteractable(tpl.IsInteractable()),
	}
	if animator != nil {
		a, err := animator(spec)
		if err != nil {
			return nil, err
		}
		if a != nil {
			opts = append(opts, view.WithAnimator(a))
		}
	}
	return &Panel{
		view:    view.New(spec.Type, opts...),
		title:   tpl.Title,
		body:    tpl.Body,
		overlay: overlay,
	}, nil
}

// Lifecycle implements window.Window.
func (p *Panel) Lifecycle() *view.View { return p.view }

func (p *Panel) Title() string { return p.title }

// Overlay reports whether the panel is drawn above screens.
func (p *Panel) Overlay() bool { return p.overlay }

// Render draws the panel for a surface of the given size. It returns the box,
// its top-left cell, and false when the panel is hidden.
func (p *Panel) Render(surface view.Size) (string, int, int, bool) {
	if p.view.State() == view.Hidden {
		return "", 0, 0, false
	}
	layout := p.view.Layout()
	size := layout.Size(surface)
	origin := layout.Origin(surface)
	offset := p.view.Offset()
	opacity := p.view.Opacity()

	w := max(int(math.Round(size.W)), 4)
	h := max(int(math.Round(size.H)), 3)

	border := ColorHighlight
	if p.overlay {
		border = ColorOverlay
	}
	title := Styles.Title.Foreground(fade(ColorAccent, opacity)).Render(p.title)
	body := Styles.Body.Foreground(fade(ColorText, opacity)).Render(p.body)
	box := Styles.Box.
		BorderForeground(fade(border, opacity)).
		Width(w - 2).
		Height(h - 2).
		MaxHeight(h).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body))

	x := int(math.Round(origin.X + offset.X))
	y := int(math.Round(origin.Y + offset.Y))
	return box, x, y, true
}
