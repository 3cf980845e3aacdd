package registry

import (
	"fmt"

	"github.com/skillsenselab/containerkit/errors"
)

// Resolve fetches the finished component under name with type safety.
//
// Example:
//
//	repo, err := registry.Resolve[OrderRepository](reg, "orderRepository")
//	if err != nil {
//	    return fmt.Errorf("failed to get order repository: %w", err)
//	}
func Resolve[T any](r *Registry, name string) (T, error) {
	var zero T
	instance, ok := r.Lookup(name, false)
	if !ok {
		return zero, errors.NotFound(name)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, errors.TypeMismatch(name,
			fmt.Sprintf("%T", zero), fmt.Sprintf("%T", instance))
	}
	return result, nil
}

// MustResolve fetches a component with type safety, panicking on error.
// Use in wiring code where a missing component is a programming error.
func MustResolve[T any](r *Registry, name string) T {
	result, err := Resolve[T](r, name)
	if err != nil {
		panic(fmt.Sprintf("registry: failed to resolve %s: %v", name, err))
	}
	return result
}

// TryResolve fetches a component, reporting false when it is absent or
// of the wrong type. Use when the dependency is optional.
//
// Example:
//
//	if metrics, ok := registry.TryResolve[*observability.Metrics](reg, "metrics"); ok {
//	    metrics.RecordCreation(ctx, name, "ok", elapsed)
//	}
func TryResolve[T any](r *Registry, name string) (T, bool) {
	result, err := Resolve[T](r, name)
	return result, err == nil
}

// GetResolver returns a typed resolver bound to name, for deferred
// resolution.
func GetResolver[T any](r *Registry, name string) func() (T, error) {
	return func() (T, error) {
		return Resolve[T](r, name)
	}
}
