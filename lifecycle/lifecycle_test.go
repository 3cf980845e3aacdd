package lifecycle

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/skillsenselab/containerkit/registry"
)

type widget struct {
	name        string
	initialized bool
}

// wrapper stands in for a proxy: it decorates whatever the chain hands it.
type wrapper struct {
	target any
}

// shortCircuitHook supplies a replacement for one specific name.
type shortCircuitHook struct {
	name        string
	replacement any
	calls       int
}

func (h *shortCircuitHook) BeforeInstantiation(kind reflect.Type, name string) (any, bool) {
	h.calls++
	if name == h.name {
		return h.replacement, true
	}
	return nil, false
}

// wrappingHook wraps both early references and initialized instances.
type wrappingHook struct {
	earlyCalls []string
	afterCalls []string
	wrapEarly  bool
	wrapAfter  bool
}

func (h *wrappingHook) EarlyReference(raw any, name string) any {
	h.earlyCalls = append(h.earlyCalls, name)
	if h.wrapEarly {
		return &wrapper{target: raw}
	}
	return raw
}

func (h *wrappingHook) AfterInitialization(instance any, name string) any {
	h.afterCalls = append(h.afterCalls, name)
	if h.wrapAfter {
		return &wrapper{target: instance}
	}
	return instance
}

func TestHooksRegister(t *testing.T) {
	h := NewHooks()
	if err := h.Register(&wrappingHook{}); err != nil {
		t.Fatal(err)
	}
	if h.Len() != 1 {
		t.Errorf("expected 1 hook, got %d", h.Len())
	}

	t.Run("rejects capability-free values", func(t *testing.T) {
		if err := h.Register("not a hook"); err == nil {
			t.Error("expected rejection of a value with no hook capability")
		}
	})
}

func TestHooksApplyInOrder(t *testing.T) {
	h := NewHooks()
	var order []string
	for _, tag := range []string{"first", "second"} {
		tag := tag
		hook := &orderedHook{record: func() { order = append(order, tag) }}
		if err := h.Register(hook); err != nil {
			t.Fatal(err)
		}
	}

	h.ApplyAfterInitialization(&widget{}, "w")
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected registration order, got %v", order)
	}
}

type orderedHook struct{ record func() }

func (h *orderedHook) AfterInitialization(instance any, name string) any {
	h.record()
	return instance
}

// nilReturningHook answers nil, which must stop the chain without
// discarding the instance.
type nilReturningHook struct{}

func (nilReturningHook) AfterInitialization(instance any, name string) any { return nil }

func TestHooksNilResultKeepsInstance(t *testing.T) {
	h := NewHooks()
	if err := h.Register(nilReturningHook{}); err != nil {
		t.Fatal(err)
	}
	w := &widget{name: "w"}
	if got := h.ApplyAfterInitialization(w, "w"); got != w {
		t.Error("expected the instance preserved when a hook returns nil")
	}
}

func TestCreatorBasicConstruction(t *testing.T) {
	reg := registry.New()
	c := NewCreator(reg, NewHooks())

	built, err := c.Create(Definition{
		Name: "w",
		New:  func() (any, error) { return &widget{name: "w"}, nil },
		Init: func(instance any) error {
			instance.(*widget).initialized = true
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	w := built.(*widget)
	if !w.initialized {
		t.Error("expected Init to run before the component finishes")
	}

	again, err := c.Create(Definition{Name: "w", New: func() (any, error) {
		t.Error("constructor must not run for a cached component")
		return nil, nil
	}})
	if err != nil {
		t.Fatal(err)
	}
	if again != built {
		t.Error("expected the cached instance")
	}
}

func TestCreatorShortCircuit(t *testing.T) {
	reg := registry.New()
	hooks := NewHooks()
	replacement := &widget{name: "canned"}
	sc := &shortCircuitHook{name: "w", replacement: replacement}
	wrap := &wrappingHook{}
	if err := hooks.Register(sc); err != nil {
		t.Fatal(err)
	}
	if err := hooks.Register(wrap); err != nil {
		t.Fatal(err)
	}
	c := NewCreator(reg, hooks)

	built, err := c.Create(Definition{
		Name: "w",
		New: func() (any, error) {
			t.Error("constructor must not run when a hook short-circuits")
			return nil, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if built != replacement {
		t.Error("expected the hook-supplied replacement")
	}
	// The short-circuited object still sees initialization hooks.
	if len(wrap.afterCalls) != 1 {
		t.Errorf("expected 1 after-initialization call, got %d", len(wrap.afterCalls))
	}
	if len(wrap.earlyCalls) != 0 {
		t.Error("early reference hooks must not run for a short-circuit")
	}
}

func TestCreatorConstructionError(t *testing.T) {
	reg := registry.New()
	c := NewCreator(reg, NewHooks())

	_, err := c.Create(Definition{
		Name: "w",
		New:  func() (any, error) { return nil, fmt.Errorf("no database") },
	})
	if err == nil {
		t.Fatal("expected construction error")
	}
	if _, ok := reg.Get("w"); ok {
		t.Error("failed construction must leave no cache entry")
	}
}

func TestCreatorInitError(t *testing.T) {
	reg := registry.New()
	c := NewCreator(reg, NewHooks())

	_, err := c.Create(Definition{
		Name: "w",
		New:  func() (any, error) { return &widget{}, nil },
		Init: func(any) error { return fmt.Errorf("bad wiring") },
	})
	if err == nil {
		t.Fatal("expected init error")
	}
	if _, ok := reg.Get("w"); ok {
		t.Error("failed initialization must leave no cache entry")
	}
}

func TestCreatorEarlyReferenceIdentity(t *testing.T) {
	t.Run("unconsumed early exposure changes nothing", func(t *testing.T) {
		reg := registry.New()
		hooks := NewHooks()
		wrap := &wrappingHook{}
		if err := hooks.Register(wrap); err != nil {
			t.Fatal(err)
		}
		c := NewCreator(reg, hooks)

		built, err := c.Create(Definition{
			Name: "w",
			New:  func() (any, error) { return &widget{name: "w"}, nil },
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := built.(*widget); !ok {
			t.Errorf("expected the raw widget, got %T", built)
		}
		if len(wrap.earlyCalls) != 0 {
			t.Error("nobody consumed the early reference, hook must not run")
		}
	})

	t.Run("consumed early reference becomes canonical", func(t *testing.T) {
		reg := registry.New()
		hooks := NewHooks()
		wrap := &wrappingHook{wrapEarly: true}
		if err := hooks.Register(wrap); err != nil {
			t.Fatal(err)
		}
		c := NewCreator(reg, hooks)

		var earlySeen any
		built, err := c.Create(Definition{
			Name: "w",
			New:  func() (any, error) { return &widget{name: "w"}, nil },
			Init: func(instance any) error {
				// A collaborator mid-cycle pulls the early reference.
				got, ok := reg.Get("w")
				if !ok {
					return fmt.Errorf("expected an early reference")
				}
				earlySeen = got
				return nil
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		if built != earlySeen {
			t.Error("late and early consumers must observe the same object")
		}
		if _, ok := built.(*wrapper); !ok {
			t.Errorf("expected the early-wrapped object, got %T", built)
		}
	})

	t.Run("early reference consumed on another goroutine", func(t *testing.T) {
		reg := registry.New()
		hooks := NewHooks()
		wrap := &wrappingHook{wrapEarly: true}
		if err := hooks.Register(wrap); err != nil {
			t.Fatal(err)
		}
		c := NewCreator(reg, hooks)

		consumed := make(chan any)
		var earlySeen any
		built, err := c.Create(Definition{
			Name: "w",
			New:  func() (any, error) { return &widget{name: "w"}, nil },
			Init: func(any) error {
				// A consumer on a second goroutine pulls the early
				// reference while initialization is still running.
				go func() {
					got, ok := reg.Get("w")
					if !ok {
						got = nil
					}
					consumed <- got
				}()
				earlySeen = <-consumed
				if earlySeen == nil {
					return fmt.Errorf("expected an early reference")
				}
				return nil
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		if built != earlySeen {
			t.Error("late and concurrent consumers must observe the same object")
		}
		if _, ok := built.(*wrapper); !ok {
			t.Errorf("expected the early-wrapped object, got %T", built)
		}
	})

	t.Run("after-hook replacement wins over raw early exposure", func(t *testing.T) {
		reg := registry.New()
		hooks := NewHooks()
		wrap := &wrappingHook{wrapAfter: true}
		if err := hooks.Register(wrap); err != nil {
			t.Fatal(err)
		}
		c := NewCreator(reg, hooks)

		built, err := c.Create(Definition{
			Name: "w",
			New:  func() (any, error) { return &widget{name: "w"}, nil },
			Init: func(any) error {
				reg.Get("w") // consume the (unwrapped) early reference
				return nil
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := built.(*wrapper); !ok {
			t.Errorf("expected the after-hook wrapper, got %T", built)
		}
	})

	t.Run("exposure disabled", func(t *testing.T) {
		reg := registry.New()
		c := NewCreator(reg, NewHooks(), WithEarlyExposure(false))

		_, err := c.Create(Definition{
			Name: "w",
			New:  func() (any, error) { return &widget{name: "w"}, nil },
			Init: func(any) error {
				if _, ok := reg.Get("w"); ok {
					t.Error("expected no early reference with exposure disabled")
				}
				return nil
			},
		})
		if err != nil {
			t.Fatal(err)
		}
	})
}

func TestCreatorDisposalAndDependencies(t *testing.T) {
	reg := registry.New()
	c := NewCreator(reg, NewHooks())

	destroyed := false
	if _, err := c.Create(Definition{
		Name: "base",
		New:  func() (any, error) { return &widget{name: "base"}, nil },
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Create(Definition{
		Name:      "dependent",
		New:       func() (any, error) { return &widget{name: "dependent"}, nil },
		Destroy:   func(any) error { destroyed = true; return nil },
		DependsOn: []string{"base"},
	}); err != nil {
		t.Fatal(err)
	}

	if !reg.IsDependent("base", "dependent") {
		t.Error("expected the dependency edge to be recorded")
	}

	reg.DestroyAll()
	if !destroyed {
		t.Error("expected the destroy handle to run on teardown")
	}
}

func TestIdentical(t *testing.T) {
	w := &widget{}
	if !identical(w, w) {
		t.Error("same pointer must be identical")
	}
	if identical(w, &widget{}) {
		t.Error("distinct pointers must differ")
	}
	if !identical(nil, nil) {
		t.Error("nil and nil are identical")
	}
	if identical(w, nil) {
		t.Error("value and nil differ")
	}
	// Uncomparable types must not panic.
	if identical([]int{1}, []int{1}) {
		t.Error("slices are never identical")
	}
}
