package nav

import (
	"reflect"

	"screenflow/internal/view"
	"screenflow/internal/window"
)

// Key identifies a registered view within a coordinator.
type Key string

// KeyOf derives the key for T from its type name.
func KeyOf[T any]() Key {
	return Key(window.TypeName[T]())
}

// Presentable is anything that owns a view lifecycle.
type Presentable interface {
	Lifecycle() *view.View
}

func isNil(p Presentable) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
