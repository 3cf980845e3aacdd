package lifecycle

import (
	"reflect"
	"sync"

	"github.com/skillsenselab/containerkit/errors"
)

// InstantiationHook can short-circuit construction by supplying a
// replacement object before the component's own constructor runs.
type InstantiationHook interface {
	// BeforeInstantiation returns a replacement instance and true to
	// short-circuit construction, or false to let it proceed.
	BeforeInstantiation(kind reflect.Type, name string) (any, bool)
}

// EarlyReferenceHook transforms the reference exposed for a component
// that is still being constructed, so mid-cycle consumers already see
// the final shape (a proxy, typically).
type EarlyReferenceHook interface {
	EarlyReference(raw any, name string) any
}

// InitializationHook transforms a component after it is fully
// initialized. Returning the input unchanged is the common case.
type InitializationHook interface {
	AfterInitialization(instance any, name string) any
}

// Hooks is an ordered chain of lifecycle hooks. A registered hook may
// implement any subset of the capability interfaces; each phase applies
// only the hooks that support it, in registration order.
type Hooks struct {
	mu    sync.RWMutex
	hooks []any
}

// NewHooks creates an empty hook chain.
func NewHooks() *Hooks {
	return &Hooks{}
}

// Register appends h to the chain. h must implement at least one of the
// hook capability interfaces.
func (h *Hooks) Register(hook any) error {
	switch hook.(type) {
	case InstantiationHook, EarlyReferenceHook, InitializationHook:
	default:
		return errors.InvalidInput("lifecycle", "hook implements no lifecycle capability")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
	return nil
}

// Len returns the number of registered hooks.
func (h *Hooks) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.hooks)
}

func (h *Hooks) snapshot() []any {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]any, len(h.hooks))
	copy(out, h.hooks)
	return out
}

// ApplyBeforeInstantiation runs the instantiation hooks until one
// supplies a replacement.
func (h *Hooks) ApplyBeforeInstantiation(kind reflect.Type, name string) (any, bool) {
	for _, hook := range h.snapshot() {
		ih, ok := hook.(InstantiationHook)
		if !ok {
			continue
		}
		if replacement, short := ih.BeforeInstantiation(kind, name); short && replacement != nil {
			return replacement, true
		}
	}
	return nil, false
}

// ApplyEarlyReference threads raw through every early-reference hook.
func (h *Hooks) ApplyEarlyReference(raw any, name string) any {
	exposed := raw
	for _, hook := range h.snapshot() {
		if eh, ok := hook.(EarlyReferenceHook); ok {
			exposed = eh.EarlyReference(exposed, name)
		}
	}
	return exposed
}

// ApplyAfterInitialization threads instance through every
// initialization hook. A hook returning nil stops the chain and keeps
// the last non-nil result.
func (h *Hooks) ApplyAfterInitialization(instance any, name string) any {
	result := instance
	for _, hook := range h.snapshot() {
		ih, ok := hook.(InitializationHook)
		if !ok {
			continue
		}
		next := ih.AfterInitialization(result, name)
		if next == nil {
			return result
		}
		result = next
	}
	return result
}
