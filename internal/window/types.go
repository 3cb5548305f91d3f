package window

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"screenflow/internal/asset"
	"screenflow/internal/config"
	"screenflow/internal/view"
)

// Host owns a scope and presents the windows created under it.
type Host interface {
	Active() bool
	Size() view.Size
}

// Window is anything that owns a view lifecycle.
type Window interface {
	Lifecycle() *view.View
}

// Spec is what a factory receives for one instantiation.
type Spec struct {
	ID    uuid.UUID
	Type  string
	Scope string
	Host  Host
	// Template is the decoded asset. It stays valid while the window lives.
	Template *asset.Template
	// Animation is the default animation with the template override applied.
	Animation config.Animation
}

// Factory instantiates a window from a loaded template.
type Factory func(ctx context.Context, spec Spec) (Window, error)

// TypeName is the registry key for T: the Go type name with pointers removed.
func TypeName[T any]() string {
	return typeName(reflect.TypeFor[T]())
}

func typeName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
