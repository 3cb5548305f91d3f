package window

import (
	"context"
	"fmt"
)

// Provide registers fn as the factory for T.
func Provide[T Window](r *Registry, fn func(ctx context.Context, spec Spec) (T, error)) {
	r.Provide(TypeName[T](), func(ctx context.Context, spec Spec) (Window, error) {
		w, err := fn(ctx, spec)
		if err != nil {
			return nil, err
		}
		return w, nil
	})
}

// Get returns the live instance of T, if any. It has no side effects.
func Get[T Window](r *Registry) (T, bool) {
	var zero T
	w, ok := r.Lookup(TypeName[T]())
	if !ok {
		return zero, false
	}
	t, ok := w.(T)
	return t, ok
}

// GetOrCreate returns the live instance of T, creating one under scope if
// there is none.
func GetOrCreate[T Window](ctx context.Context, r *Registry, scope string) (T, error) {
	if t, ok := Get[T](r); ok {
		return t, nil
	}
	return Create[T](ctx, r, scope)
}

// Create instantiates a new T under scope and makes it the live instance.
func Create[T Window](ctx context.Context, r *Registry, scope string) (T, error) {
	var zero T
	w, err := r.Create(ctx, TypeName[T](), scope)
	if err != nil {
		return zero, err
	}
	t, ok := w.(T)
	if !ok {
		return zero, fmt.Errorf("%w: factory for %s returned %T", ErrMissingComponent, TypeName[T](), w)
	}
	return t, nil
}
