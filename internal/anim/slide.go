package anim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"screenflow/internal/view"
)

// Direction is the side a sliding view enters from and leaves towards.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// ParseDirection parses "left", "right", "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return Left, fmt.Errorf("unknown slide direction %q", s)
}

// SlideConfig configures a Slide.
type SlideConfig struct {
	Fade      FadeConfig
	Direction Direction
	Distance  float64 // fraction of the view size; 0 means 1
}

// Slide moves the view in from Direction while fading it in, and back out
// while fading it out. The opacity half is delegated to a Fade.
type Slide struct {
	cfg  SlideConfig
	fade *Fade
	runs inflight
}

var _ view.Animator = (*Slide)(nil)

// NewSlide creates a slide strategy.
func NewSlide(cfg SlideConfig) *Slide {
	if cfg.Distance == 0 {
		cfg.Distance = 1
	}
	return &Slide{cfg: cfg, fade: NewFade(cfg.Fade)}
}

// hiddenOffset is where the view rests while hidden.
func (s *Slide) hiddenOffset(t view.Target) view.Point {
	size := t.Size()
	switch s.cfg.Direction {
	case Right:
		return view.Point{X: size.W * s.cfg.Distance}
	case Up:
		return view.Point{Y: -size.H * s.cfg.Distance}
	case Down:
		return view.Point{Y: size.H * s.cfg.Distance}
	default:
		return view.Point{X: -size.W * s.cfg.Distance}
	}
}

// Show implements view.Animator.
func (s *Slide) Show(ctx context.Context, t view.Target) error {
	ctx, done := s.runs.start(ctx, t)
	defer done()

	from := t.Offset()
	if t.Opacity() == 0 {
		from = s.hiddenOffset(t)
		t.SetOffset(from)
	}
	return s.both(ctx, t, s.fade.Show, from, view.Point{})
}

// Hide implements view.Animator.
func (s *Slide) Hide(ctx context.Context, t view.Target) error {
	ctx, done := s.runs.start(ctx, t)
	defer done()
	return s.both(ctx, t, s.fade.Hide, t.Offset(), s.hiddenOffset(t))
}

func (s *Slide) both(ctx context.Context, t view.Target, fade func(context.Context, view.Target) error, from, to view.Point) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return fade(gctx, t) })
	g.Go(func() error {
		return tween(gctx, s.cfg.Fade.Spring, 0, 1, func(p float64) {
			t.SetOffset(lerp(from, to, p))
		})
	})
	return g.Wait()
}

// ShowImmediate implements view.Animator.
func (s *Slide) ShowImmediate(t view.Target) {
	s.runs.stop(t)
	s.fade.ShowImmediate(t)
	t.SetOffset(view.Point{})
}

// HideImmediate implements view.Animator.
func (s *Slide) HideImmediate(t view.Target) {
	s.runs.stop(t)
	s.fade.HideImmediate(t)
	t.SetOffset(s.hiddenOffset(t))
}
