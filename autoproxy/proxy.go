package autoproxy

import (
	"github.com/skillsenselab/containerkit/match"
)

// Proxy is a transparent wrapper around a target component. It exposes
// the target, the behaviors routed to it, and a call-through Invoke so
// holders can drive the target without knowing its concrete type.
type Proxy struct {
	name      string
	target    any
	behaviors []Behavior
	overloads *match.Set
}

// NewProxy wraps target with the given behaviors.
func NewProxy(name string, target any, behaviors []Behavior) *Proxy {
	return &Proxy{name: name, target: target, behaviors: behaviors}
}

// Name returns the proxied component's name.
func (p *Proxy) Name() string { return p.name }

// Target returns the wrapped component.
func (p *Proxy) Target() any { return p.target }

// Behaviors returns the behaviors attached to this proxy.
func (p *Proxy) Behaviors() []Behavior {
	out := make([]Behavior, len(p.behaviors))
	copy(out, p.behaviors)
	return out
}

// RegisterOverload adds an extra callable consulted by Invoke when the
// target's own method cannot bind the arguments.
func (p *Proxy) RegisterOverload(method string, fn any) error {
	if p.overloads == nil {
		p.overloads = match.NewSet()
	}
	return p.overloads.Register(method, fn)
}

// Invoke calls method on the target, resolving overloads by argument
// types.
func (p *Proxy) Invoke(method string, args ...any) ([]any, error) {
	inv := &match.Invoker{
		TargetObject: p.target,
		TargetMethod: method,
		Arguments:    args,
		Overloads:    p.overloads,
	}
	return inv.Invoke()
}
