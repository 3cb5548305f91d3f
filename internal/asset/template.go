package asset

import (
	"fmt"

	"screenflow/internal/config"
	"screenflow/internal/view"
)

// Template is the decoded form of a window asset.
type Template struct {
	// Component names the window type the asset instantiates.
	Component    string             `yaml:"component"`
	Title        string             `yaml:"title"`
	Body         string             `yaml:"body"`
	Interactable *bool              `yaml:"interactable"`
	Layout       *LayoutSpec        `yaml:"layout"`
	Animation    *AnimationOverride `yaml:"animation"`
}

// PointSpec is a YAML point.
type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p PointSpec) point() view.Point { return view.Point{X: p.X, Y: p.Y} }

// LayoutSpec is the authored layout of a window.
type LayoutSpec struct {
	AnchorMin *PointSpec `yaml:"anchor_min"`
	AnchorMax *PointSpec `yaml:"anchor_max"`
	OffsetMin PointSpec  `yaml:"offset_min"`
	OffsetMax PointSpec  `yaml:"offset_max"`
	Position  PointSpec  `yaml:"position"`
	Scale     float64    `yaml:"scale"`
}

// AnimationOverride replaces parts of the default animation for one window.
type AnimationOverride struct {
	Kind      string `yaml:"kind"`
	Direction string `yaml:"direction"`
}

// IsInteractable reports the resting interactable flag; true when unset.
func (t *Template) IsInteractable() bool {
	return t.Interactable == nil || *t.Interactable
}

// ViewLayout converts the authored layout. Missing anchors default to the
// full rect.
func (t *Template) ViewLayout() view.Layout {
	l := view.FullRect()
	if t.Layout == nil {
		return l
	}
	if t.Layout.AnchorMin != nil {
		l.AnchorMin = t.Layout.AnchorMin.point()
	}
	if t.Layout.AnchorMax != nil {
		l.AnchorMax = t.Layout.AnchorMax.point()
	}
	l.OffsetMin = t.Layout.OffsetMin.point()
	l.OffsetMax = t.Layout.OffsetMax.point()
	l.Position = t.Layout.Position.point()
	if t.Layout.Scale != 0 {
		l.Scale = t.Layout.Scale
	}
	return l
}

// AnimationConfig applies the template's override on top of base.
func (t *Template) AnimationConfig(base config.Animation) config.Animation {
	if t.Animation == nil {
		return base
	}
	if t.Animation.Kind != "" {
		base.Kind = t.Animation.Kind
	}
	if t.Animation.Direction != "" {
		base.Direction = t.Animation.Direction
	}
	return base
}

// Validate checks the fields every template needs.
func (t *Template) Validate() error {
	if t.Component == "" {
		return fmt.Errorf("template has no component")
	}
	if t.Animation != nil {
		switch t.Animation.Kind {
		case "", "fade", "slide", "none":
		default:
			return fmt.Errorf("unknown animation kind %q", t.Animation.Kind)
		}
	}
	return nil
}
