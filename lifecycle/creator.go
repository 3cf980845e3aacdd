package lifecycle

import (
	"reflect"

	"github.com/skillsenselab/containerkit/errors"
	"github.com/skillsenselab/containerkit/logger"
	"github.com/skillsenselab/containerkit/registry"
)

// Definition describes how to build one component.
type Definition struct {
	// Name is the component's registry name.
	Name string
	// Kind is the component's declared type, handed to instantiation
	// hooks for their short-circuit decision. May be nil.
	Kind reflect.Type
	// New constructs the raw instance.
	New func() (any, error)
	// Init initializes the raw instance after construction, before the
	// initialization hooks run. Optional.
	Init func(instance any) error
	// Destroy tears the component down; registered as a disposable.
	// Optional.
	Destroy func(instance any) error
	// DependsOn names components this one relies on; recorded in the
	// registry's dependency graph so teardown orders correctly.
	DependsOn []string
}

// CreatorOption configures a Creator.
type CreatorOption func(*Creator)

// WithEarlyExposure toggles whether constructed components expose an
// early reference for mid-cycle consumers. On by default.
func WithEarlyExposure(allow bool) CreatorOption {
	return func(c *Creator) { c.allowEarlyExposure = allow }
}

// WithCreatorLogger sets the logger the creator reports through.
func WithCreatorLogger(log *logger.Logger) CreatorOption {
	return func(c *Creator) { c.log = log }
}

// Creator orchestrates component construction through the hook chain:
// instantiation short-circuit, raw construction, early exposure,
// initialization, and the final reference-identity reconciliation.
type Creator struct {
	registry           *registry.Registry
	hooks              *Hooks
	log                *logger.Logger
	allowEarlyExposure bool
}

// NewCreator wires a creator to a registry and hook chain.
func NewCreator(reg *registry.Registry, hooks *Hooks, opts ...CreatorOption) *Creator {
	c := &Creator{
		registry:           reg,
		hooks:              hooks,
		allowEarlyExposure: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.GetGlobalLogger().WithComponent("lifecycle")
	}
	return c
}

// Registry returns the backing registry.
func (c *Creator) Registry() *registry.Registry { return c.registry }

// Hooks returns the hook chain.
func (c *Creator) Hooks() *Hooks { return c.hooks }

// Create returns the finished component for def, constructing it on
// first use. Construction is at-most-once per name even under
// concurrency; see registry.GetOrCreate for the race semantics.
//
// When the component exposes an early reference during construction and
// the initialization hooks return the raw object unchanged, the
// early-exposed reference becomes the canonical result. Every consumer,
// whether it obtained the component early or late, observes the same
// final object.
func (c *Creator) Create(def Definition) (any, error) {
	if def.Name == "" {
		return nil, errors.InvalidName(def.Name)
	}
	if instance, ok := c.registry.Lookup(def.Name, false); ok {
		return instance, nil
	}
	if def.New == nil {
		return nil, errors.InvalidInput("lifecycle", "definition for "+def.Name+" has no constructor")
	}

	for _, dep := range def.DependsOn {
		c.registry.RegisterDependent(dep, def.Name)
	}

	return c.registry.GetOrCreate(def.Name, func() (any, error) {
		return c.construct(def)
	})
}

// construct runs one complete construction. It executes inside
// registry.GetOrCreate, so exactly one goroutine runs it per name.
func (c *Creator) construct(def Definition) (any, error) {
	if replacement, short := c.hooks.ApplyBeforeInstantiation(def.Kind, def.Name); short {
		// A short-circuited component skips construction and
		// initialization but still sees the initialization hooks.
		c.log.Debug("construction short-circuited", logger.Fields(
			logger.FieldComponent, def.Name,
		))
		final := c.hooks.ApplyAfterInitialization(replacement, def.Name)
		c.registerDisposal(def, final)
		return final, nil
	}

	raw, err := def.New()
	if err != nil {
		return nil, err
	}

	if c.allowEarlyExposure {
		c.registry.RegisterEarlyFactory(def.Name, func() any {
			return c.hooks.ApplyEarlyReference(raw, def.Name)
		})
	}

	if def.Init != nil {
		if err := def.Init(raw); err != nil {
			return nil, err
		}
	}

	final := c.hooks.ApplyAfterInitialization(raw, def.Name)

	if identical(final, raw) {
		// A populated early tier means some consumer, possibly on
		// another goroutine, pulled the reference mid-construction.
		// That object is the canonical one, not the raw result the
		// hooks passed through. The read goes through the registry
		// mutex, so it observes any concurrent factory consumption.
		if early, ok := c.registry.Lookup(def.Name, false); ok {
			final = early
		}
	}

	c.registerDisposal(def, final)
	return final, nil
}

func (c *Creator) registerDisposal(def Definition, instance any) {
	if def.Destroy == nil {
		return
	}
	c.registry.RegisterDisposable(def.Name, registry.DisposableFunc(func() error {
		return def.Destroy(instance)
	}))
}

// identical reports whether a and b are the same object, tolerating
// uncomparable types.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Pointer && vb.Kind() == reflect.Pointer {
		return va.Pointer() == vb.Pointer()
	}
	if va.Type() != vb.Type() || !va.Comparable() {
		return false
	}
	return a == b
}
