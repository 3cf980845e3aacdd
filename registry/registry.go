package registry

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/skillsenselab/containerkit/errors"
	"github.com/skillsenselab/containerkit/logger"
)

// Factory produces a fully-constructed component instance.
type Factory func() (any, error)

// EarlyFactory produces an early reference to a component that is still
// being constructed. It must be cheap: it runs while the registry mutex
// is held.
type EarlyFactory func() any

// Option configures a Registry.
type Option func(*Registry)

// WithCanonicalizer plugs an alias resolution function into the registry.
func WithCanonicalizer(c Canonicalizer) Option {
	return func(r *Registry) { r.canonicalize = c }
}

// WithLogger sets the logger the registry reports through.
func WithLogger(log *logger.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// Registry is a three-tier singleton cache. The finished tier holds
// fully-initialized components and is read lock-free. The early tier
// holds references exposed mid-construction to break circular
// dependencies. The pending tier holds factories that can produce an
// early reference on demand. A name occupies at most one tier at a time;
// tier transitions happen under one registry-wide mutex.
type Registry struct {
	id  string
	log *logger.Logger

	singletons sync.Map // finished tier: name -> instance

	mu            sync.Mutex // guards early, factories, registered, registeredSet
	early         map[string]any
	factories     map[string]EarlyFactory
	registered    []string // registration order
	registeredSet map[string]struct{}

	tracker creationTracker

	suppressedMu sync.Mutex
	suppressed   map[string][]error // in-flight creation name -> recorded causes

	inDestruction atomic.Bool

	canonicalize Canonicalizer

	// dependency graph and disposal state, see dependencies.go and
	// disposal.go
	dependentsMu   sync.Mutex
	dependents     map[string]map[string]struct{} // dependency -> dependents
	dependenciesMu sync.Mutex
	dependencies   map[string]map[string]struct{} // dependent -> dependencies
	containedMu    sync.Mutex
	contained      map[string]map[string]struct{} // outer -> inner
	disposablesMu  sync.Mutex
	disposables    map[string]Disposable
	disposalOrder  []string
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		id:            uuid.NewString(),
		early:         make(map[string]any),
		factories:     make(map[string]EarlyFactory),
		registeredSet: make(map[string]struct{}),
		suppressed:    make(map[string][]error),
		canonicalize:  func(name string) string { return name },
		dependents:    make(map[string]map[string]struct{}),
		dependencies:  make(map[string]map[string]struct{}),
		contained:     make(map[string]map[string]struct{}),
		disposables:   make(map[string]Disposable),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.GetGlobalLogger().WithComponent("registry").WithRegistry(r.id)
	}
	return r
}

// ID returns the registry instance identifier used in log fields.
func (r *Registry) ID() string { return r.id }

// Get returns the component under name, allowing early references to
// components still under construction.
func (r *Registry) Get(name string) (any, bool) {
	return r.Lookup(name, true)
}

// Lookup returns the component under name. The finished tier is checked
// lock-free; the early and pending tiers are consulted only while the
// name is actually in creation. With allowEarly false the pending
// factory is left untouched, so no early reference is manufactured.
func (r *Registry) Lookup(name string, allowEarly bool) (any, bool) {
	if instance, ok := r.singletons.Load(name); ok {
		return instance, true
	}
	if !r.tracker.isInCreation(name) {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// The creation may have finished between the lock-free read and
	// acquiring the mutex.
	if instance, ok := r.singletons.Load(name); ok {
		return instance, true
	}
	if instance, ok := r.early[name]; ok {
		return instance, true
	}
	if !allowEarly {
		return nil, false
	}
	factory, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	instance := factory()
	r.early[name] = instance
	delete(r.factories, name)
	return instance, true
}

// GetOrCreate returns the finished component under name, invoking
// factory to construct it on first use. Concurrent callers for the same
// name race: exactly one invokes the factory, the loser observes the
// winner's result. The factory runs without any registry lock held, so
// it may re-enter the registry for other names.
func (r *Registry) GetOrCreate(name string, factory Factory) (any, error) {
	if name == "" {
		return nil, errors.InvalidName(name)
	}
	if instance, ok := r.singletons.Load(name); ok {
		return instance, nil
	}

	if existing, done, err := r.beginCreation(name); done || err != nil {
		return existing, err
	}

	var (
		suppressed []error
		endErr     error
	)
	instance, err := func() (any, error) {
		// End-of-creation bookkeeping must run even when the factory
		// panics, or the name would stay marked in creation forever.
		defer func() {
			endErr = r.tracker.end(name)
			suppressed = r.drainSuppressed(name)
		}()
		return factory()
	}()

	if err != nil {
		// A re-entrant creation triggered from inside the factory may
		// have produced and registered the component already.
		if existing, ok := r.singletons.Load(name); ok {
			return existing, nil
		}
		cerr := errors.CreationFailed(name, err)
		for _, s := range suppressed {
			cerr.AddRelated(s)
		}
		r.log.Error("component creation failed", logger.MergeWithError(logger.Fields(
			logger.FieldComponent, name,
		), err))
		return nil, cerr
	}
	if endErr != nil {
		// The instance was built but cannot be trusted into the cache;
		// it is abandoned undisposed, so make the leak visible.
		r.log.Error("discarding constructed component after tracking violation",
			logger.MergeWithError(logger.Fields(
				logger.FieldComponent, name,
			), endErr))
		return nil, endErr
	}

	r.addSingleton(name, instance)
	r.log.Debug("component created", logger.Fields(logger.FieldComponent, name))
	return instance, nil
}

// beginCreation performs the locked preamble of GetOrCreate: double-check
// the finished tier, refuse work during destruction, and mark the name in
// creation. done=true means the component already exists and existing
// carries it. A begin failure means another goroutine (or this one,
// re-entrantly) is constructing the name; the finished tier is re-read
// once before surfacing a cycle, so a race loser returns the winner's
// instance instead of an error and never invokes its own factory.
func (r *Registry) beginCreation(name string) (existing any, done bool, err error) {
	r.mu.Lock()

	if instance, ok := r.singletons.Load(name); ok {
		r.mu.Unlock()
		return instance, true, nil
	}
	if r.inDestruction.Load() {
		r.mu.Unlock()
		return nil, false, errors.CreationNotAllowed(name)
	}
	if beginErr := r.tracker.begin(name); beginErr != nil {
		r.mu.Unlock()
		if instance, ok := r.singletons.Load(name); ok {
			return instance, true, nil
		}
		return nil, false, errors.CircularDependency(name).WithCause(beginErr)
	}

	// Open this creation's suppressed-cause collector. Each in-flight
	// creation collects independently so concurrent chains never see
	// each other's causes.
	r.suppressedMu.Lock()
	r.suppressed[name] = nil
	r.suppressedMu.Unlock()

	r.mu.Unlock()
	return nil, false, nil
}

// addSingleton promotes instance into the finished tier and clears the
// early and pending tiers for name. Registration order is preserved for
// SingletonNames and teardown.
func (r *Registry) addSingleton(name string, instance any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.singletons.Store(name, instance)
	delete(r.early, name)
	delete(r.factories, name)
	if _, seen := r.registeredSet[name]; !seen {
		r.registeredSet[name] = struct{}{}
		r.registered = append(r.registered, name)
	}
}

// RegisterSingleton binds a pre-built instance under name. Binding a
// name that already holds a finished component is an error.
func (r *Registry) RegisterSingleton(name string, instance any) error {
	if name == "" {
		return errors.InvalidName(name)
	}
	if _, ok := r.singletons.Load(name); ok {
		return errors.AlreadyExists(name)
	}
	r.addSingleton(name, instance)
	return nil
}

// RegisterEarlyFactory registers a factory able to expose an early
// reference for name while it is constructed. No-op when the finished
// tier already holds the name. A stale early reference for the name is
// discarded so the factory becomes authoritative.
func (r *Registry) RegisterEarlyFactory(name string, factory EarlyFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.singletons.Load(name); ok {
		return
	}
	r.factories[name] = factory
	delete(r.early, name)
}

// Remove clears name from every tier and drops its registration marker.
// Removing an absent name is a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(name)
}

func (r *Registry) removeLocked(name string) {
	r.singletons.Delete(name)
	delete(r.early, name)
	delete(r.factories, name)
	if _, seen := r.registeredSet[name]; seen {
		delete(r.registeredSet, name)
		for i, n := range r.registered {
			if n == name {
				r.registered = append(r.registered[:i], r.registered[i+1:]...)
				break
			}
		}
	}
}

// Contains reports whether name occupies any tier.
func (r *Registry) Contains(name string) bool {
	if _, ok := r.singletons.Load(name); ok {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.early[name]; ok {
		return true
	}
	_, ok := r.factories[name]
	return ok
}

// SingletonNames returns the finished component names in registration
// order.
func (r *Registry) SingletonNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.registered))
	copy(out, r.registered)
	return out
}

// SingletonCount returns the number of finished components.
func (r *Registry) SingletonCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.registered)
}

// IsCurrentlyInCreation reports whether name is being constructed.
func (r *Registry) IsCurrentlyInCreation(name string) bool {
	return r.tracker.isInCreation(name)
}

// SetCreationExcluded excludes name from creation tracking, for
// components that legitimately construct themselves re-entrantly.
func (r *Registry) SetCreationExcluded(name string, excluded bool) {
	r.tracker.setExcluded(name, excluded)
}

// RecordSuppressed attaches err to the creation error of the named
// component, which must currently be under construction. Collaborators
// that swallow secondary failures during a creation report them here
// against the creation they occurred in; a nested creation failure a
// factory recovers from is recorded against the factory's own name.
// Recording outside an in-flight creation is dropped, as is anything
// beyond the cap.
func (r *Registry) RecordSuppressed(name string, err error) {
	if err == nil {
		return
	}
	r.suppressedMu.Lock()
	defer r.suppressedMu.Unlock()
	causes, inFlight := r.suppressed[name]
	if !inFlight || len(causes) >= errors.RelatedCauseLimit {
		return
	}
	r.suppressed[name] = append(causes, err)
}

// drainSuppressed closes the named creation's collector and takes the
// recorded suppressed errors.
func (r *Registry) drainSuppressed(name string) []error {
	r.suppressedMu.Lock()
	defer r.suppressedMu.Unlock()
	out := r.suppressed[name]
	delete(r.suppressed, name)
	return out
}
