package autoproxy

import "reflect"

// Behavior is one unit of decoration attached to a proxy. The container
// only routes behaviors; executing them is the proxy consumer's concern.
type Behavior struct {
	// Name identifies the behavior in logs and introspection.
	Name string
	// Value carries the behavior implementation, opaque to the
	// container.
	Value any
}

// Selector decides which behaviors apply to a component. It is the
// domain-specific policy the proxy creator consults for every candidate.
type Selector interface {
	// BehaviorsFor returns the behaviors specific to the component, or
	// false when the component must not be proxied at all. An empty
	// slice with true means proxy with shared behaviors only.
	BehaviorsFor(kind reflect.Type, name string) ([]Behavior, bool)
}

// SelectorFunc adapts a plain func to Selector.
type SelectorFunc func(kind reflect.Type, name string) ([]Behavior, bool)

func (f SelectorFunc) BehaviorsFor(kind reflect.Type, name string) ([]Behavior, bool) {
	return f(kind, name)
}

// TargetProvider supplies substitute targets for components whose real
// instance lives elsewhere (a pool, a remote stub). A provided target
// short-circuits construction: the component is proxied immediately
// around the substitute.
type TargetProvider interface {
	TargetFor(kind reflect.Type, name string) (any, bool)
}

// TargetProviderFunc adapts a plain func to TargetProvider.
type TargetProviderFunc func(kind reflect.Type, name string) (any, bool)

func (f TargetProviderFunc) TargetFor(kind reflect.Type, name string) (any, bool) {
	return f(kind, name)
}

// ObjectSource marks a component that manufactures another object
// rather than being the object itself. Cache keys for such components
// carry a distinguishing prefix so the source and its product never
// collide.
type ObjectSource interface {
	Object() (any, error)
}

var objectSourceType = reflect.TypeOf((*ObjectSource)(nil)).Elem()
