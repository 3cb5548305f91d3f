// Package anim provides the built-in show/hide transition strategies.
package anim

import (
	"context"

	"screenflow/internal/view"
)

// FadeConfig configures a Fade.
type FadeConfig struct {
	Spring Spring
}

// Fade tweens opacity: towards 1 on show, towards 0 on hide.
type Fade struct {
	cfg  FadeConfig
	runs inflight
}

var _ view.Animator = (*Fade)(nil)

// NewFade creates a fade strategy.
func NewFade(cfg FadeConfig) *Fade {
	return &Fade{cfg: cfg}
}

// Show implements view.Animator.
func (f *Fade) Show(ctx context.Context, t view.Target) error {
	ctx, done := f.runs.start(ctx, t)
	defer done()
	return tween(ctx, f.cfg.Spring, t.Opacity(), 1, t.SetOpacity)
}

// Hide implements view.Animator.
func (f *Fade) Hide(ctx context.Context, t view.Target) error {
	ctx, done := f.runs.start(ctx, t)
	defer done()
	return tween(ctx, f.cfg.Spring, t.Opacity(), 0, t.SetOpacity)
}

// ShowImmediate implements view.Animator.
func (f *Fade) ShowImmediate(t view.Target) {
	f.runs.stop(t)
	t.SetOpacity(1)
}

// HideImmediate implements view.Animator.
func (f *Fade) HideImmediate(t view.Target) {
	f.runs.stop(t)
	t.SetOpacity(0)
}
