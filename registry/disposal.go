package registry

import (
	"github.com/skillsenselab/containerkit/logger"
)

// Disposable is a component with teardown work.
type Disposable interface {
	Destroy() error
}

// DisposableFunc adapts a plain func to Disposable.
type DisposableFunc func() error

func (f DisposableFunc) Destroy() error { return f() }

// RegisterDisposable binds teardown work to name. Insertion order is
// remembered: DestroyAll tears components down in reverse registration
// order so late registrations, which usually depend on earlier ones, go
// first.
func (r *Registry) RegisterDisposable(name string, d Disposable) {
	r.disposablesMu.Lock()
	defer r.disposablesMu.Unlock()
	if _, seen := r.disposables[name]; !seen {
		r.disposalOrder = append(r.disposalOrder, name)
	}
	r.disposables[name] = d
}

// InDestruction reports whether a full teardown is in progress. New
// creations are refused while it is.
func (r *Registry) InDestruction() bool {
	return r.inDestruction.Load()
}

// DestroyAll tears down every registered component. Disposables run in
// reverse registration order, dependents before their dependencies.
// Teardown is best-effort and total: individual failures are logged and
// the pass continues. Afterwards all tiers and relationship maps are
// empty and the registry accepts new components again.
func (r *Registry) DestroyAll() {
	r.inDestruction.Store(true)

	r.disposablesMu.Lock()
	names := make([]string, len(r.disposalOrder))
	copy(names, r.disposalOrder)
	r.disposablesMu.Unlock()

	for i := len(names) - 1; i >= 0; i-- {
		r.DestroyOne(names[i])
	}

	r.containedMu.Lock()
	r.contained = make(map[string]map[string]struct{})
	r.containedMu.Unlock()
	r.dependentsMu.Lock()
	r.dependents = make(map[string]map[string]struct{})
	r.dependentsMu.Unlock()
	r.dependenciesMu.Lock()
	r.dependencies = make(map[string]map[string]struct{})
	r.dependenciesMu.Unlock()

	r.clearCache()
	r.log.Debug("registry destroyed")
}

// clearCache empties every cache tier and lifts the destruction flag.
func (r *Registry) clearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.singletons.Range(func(key, _ any) bool {
		r.singletons.Delete(key)
		return true
	})
	r.early = make(map[string]any)
	r.factories = make(map[string]EarlyFactory)
	r.registered = nil
	r.registeredSet = make(map[string]struct{})
	r.inDestruction.Store(false)
}

// DestroyOne tears down the named component: evict it from the cache,
// destroy everything that depends on it, run its own teardown, then the
// components contained in it, and finally prune it from the dependency
// bookkeeping. Teardown failures are logged, never propagated.
func (r *Registry) DestroyOne(name string) {
	r.Remove(name)

	r.disposablesMu.Lock()
	d := r.disposables[name]
	delete(r.disposables, name)
	for i, n := range r.disposalOrder {
		if n == name {
			r.disposalOrder = append(r.disposalOrder[:i], r.disposalOrder[i+1:]...)
			break
		}
	}
	r.disposablesMu.Unlock()

	r.destroyResolved(name, d)
}

func (r *Registry) destroyResolved(name string, d Disposable) {
	// Dependents go first. Their edges are taken atomically so a
	// re-entrant destruction does not see them twice.
	r.dependentsMu.Lock()
	dependents := r.dependents[name]
	delete(r.dependents, name)
	r.dependentsMu.Unlock()

	for dependent := range dependents {
		r.DestroyOne(dependent)
	}

	if d != nil {
		if err := d.Destroy(); err != nil {
			r.log.Warn("component teardown failed", logger.MergeWithError(logger.Fields(
				logger.FieldComponent, name,
			), err))
		}
	}

	r.containedMu.Lock()
	contained := r.contained[name]
	delete(r.contained, name)
	r.containedMu.Unlock()

	for inner := range contained {
		r.DestroyOne(inner)
	}

	// Drop this component from other components' dependent sets.
	r.dependentsMu.Lock()
	for dependency, set := range r.dependents {
		delete(set, name)
		if len(set) == 0 {
			delete(r.dependents, dependency)
		}
	}
	r.dependentsMu.Unlock()

	r.dependenciesMu.Lock()
	delete(r.dependencies, name)
	r.dependenciesMu.Unlock()
}
