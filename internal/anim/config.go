package anim

import (
	"fmt"

	"screenflow/internal/config"
	"screenflow/internal/view"
)

// FromConfig builds the strategy named by cfg.Kind. "none" yields a nil
// Animator, which makes views show and hide without transitions.
func FromConfig(cfg config.Animation) (view.Animator, error) {
	spring := Spring{
		FPS:       cfg.FPS,
		Frequency: cfg.Frequency,
		Damping:   cfg.Damping,
		Timeout:   cfg.Timeout.Duration(),
	}
	switch cfg.Kind {
	case "fade":
		return NewFade(FadeConfig{Spring: spring}), nil
	case "slide":
		dir, err := ParseDirection(cfg.Direction)
		if err != nil {
			return nil, err
		}
		return NewSlide(SlideConfig{
			Fade:      FadeConfig{Spring: spring},
			Direction: dir,
			Distance:  cfg.Distance,
		}), nil
	case "none", "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown animation kind %q", cfg.Kind)
}
