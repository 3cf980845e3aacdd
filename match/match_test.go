package match

import (
	"fmt"
	"reflect"
	"testing"
)

// Test fixture types forming an embedding chain: number embeds object,
// integer embeds number. sized is satisfied at every level of the chain.

type object struct{}

func (object) Size() int { return 0 }

type number struct{ object }

type integer struct{ number }

type sized interface{ Size() int }

// selfSized implements sized with its own method, no embedding.
type selfSized struct{}

func (selfSized) Size() int { return 1 }

var sizedType = reflect.TypeOf((*sized)(nil)).Elem()

func TestAssignableValue(t *testing.T) {
	t.Run("exact concrete type", func(t *testing.T) {
		if !AssignableValue(reflect.TypeOf(integer{}), integer{}) {
			t.Error("expected integer assignable to integer")
		}
	})

	t.Run("concrete to interface", func(t *testing.T) {
		if !AssignableValue(sizedType, integer{}) {
			t.Error("expected integer assignable to sized")
		}
	})

	t.Run("unrelated concrete types", func(t *testing.T) {
		if AssignableValue(reflect.TypeOf(integer{}), object{}) {
			t.Error("object must not be assignable to integer")
		}
	})

	t.Run("nil to pointer", func(t *testing.T) {
		if !AssignableValue(reflect.TypeOf(&integer{}), nil) {
			t.Error("nil must bind to a pointer parameter")
		}
	})

	t.Run("nil to value type", func(t *testing.T) {
		if AssignableValue(reflect.TypeOf(integer{}), nil) {
			t.Error("nil must not bind to a struct parameter")
		}
	})
}

func TestTypeDifferenceWeight(t *testing.T) {
	t.Run("exact match weighs zero", func(t *testing.T) {
		w := TypeDifferenceWeight([]reflect.Type{reflect.TypeOf(integer{})}, []any{integer{}})
		if w != 0 {
			t.Errorf("expected weight 0, got %d", w)
		}
	})

	t.Run("interface binding costs one for direct implementer", func(t *testing.T) {
		w := TypeDifferenceWeight([]reflect.Type{sizedType}, []any{selfSized{}})
		if w != 1 {
			t.Errorf("expected weight 1, got %d", w)
		}
	})

	t.Run("deeper embedding chains weigh more", func(t *testing.T) {
		wObject := TypeDifferenceWeight([]reflect.Type{sizedType}, []any{object{}})
		wNumber := TypeDifferenceWeight([]reflect.Type{sizedType}, []any{number{}})
		wInteger := TypeDifferenceWeight([]reflect.Type{sizedType}, []any{integer{}})

		if !(wObject < wNumber && wNumber < wInteger) {
			t.Errorf("expected object < number < integer, got %d %d %d",
				wObject, wNumber, wInteger)
		}
		if wNumber-wObject != 2 || wInteger-wNumber != 2 {
			t.Errorf("expected steps of 2, got %d %d %d", wObject, wNumber, wInteger)
		}
	})

	t.Run("not assignable yields NoMatch", func(t *testing.T) {
		w := TypeDifferenceWeight([]reflect.Type{reflect.TypeOf(0)}, []any{"seven"})
		if w != NoMatch {
			t.Errorf("expected NoMatch, got %d", w)
		}
	})

	t.Run("arity mismatch yields NoMatch", func(t *testing.T) {
		w := TypeDifferenceWeight([]reflect.Type{reflect.TypeOf(0)}, []any{1, 2})
		if w != NoMatch {
			t.Errorf("expected NoMatch, got %d", w)
		}
	})
}

func TestSelectBestMatch(t *testing.T) {
	exact := &Candidate{Name: "size", Fn: reflect.ValueOf(func(n integer) string { return "exact" })}
	iface := &Candidate{Name: "size", Fn: reflect.ValueOf(func(s sized) string { return "iface" })}
	twoArg := &Candidate{Name: "size", Fn: reflect.ValueOf(func(a, b integer) string { return "two" })}

	t.Run("exact beats interface", func(t *testing.T) {
		best, ok := SelectBestMatch([]*Candidate{iface, exact}, []any{integer{}})
		if !ok {
			t.Fatal("expected a match")
		}
		if got := best.Call([]any{integer{}})[0]; got != "exact" {
			t.Errorf("expected exact candidate, got %v", got)
		}
	})

	t.Run("arity filters candidates", func(t *testing.T) {
		best, ok := SelectBestMatch([]*Candidate{twoArg, exact}, []any{integer{}, integer{}})
		if !ok {
			t.Fatal("expected a match")
		}
		if got := best.Call([]any{integer{}, integer{}})[0]; got != "two" {
			t.Errorf("expected two-arg candidate, got %v", got)
		}
	})

	t.Run("first seen wins ties", func(t *testing.T) {
		a := &Candidate{Name: "size", Fn: reflect.ValueOf(func(s sized) string { return "a" })}
		b := &Candidate{Name: "size", Fn: reflect.ValueOf(func(s sized) string { return "b" })}
		best, ok := SelectBestMatch([]*Candidate{a, b}, []any{selfSized{}})
		if !ok {
			t.Fatal("expected a match")
		}
		if got := best.Call([]any{selfSized{}})[0]; got != "a" {
			t.Errorf("expected first candidate to win the tie, got %v", got)
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		if _, ok := SelectBestMatch(nil, []any{1}); ok {
			t.Error("expected no match for empty candidate list")
		}
	})
}

func TestSet(t *testing.T) {
	s := NewSet()
	if err := s.Register("describe", func(n int) string { return "int" }); err != nil {
		t.Fatal(err)
	}
	if err := s.Register("describe", func(v string) string { return "string" }); err != nil {
		t.Fatal(err)
	}

	t.Run("resolves by argument type", func(t *testing.T) {
		c, ok := s.Find("describe", []any{42})
		if !ok {
			t.Fatal("expected a match for int")
		}
		if got := c.Call([]any{42})[0]; got != "int" {
			t.Errorf("expected int candidate, got %v", got)
		}

		c, ok = s.Find("describe", []any{"x"})
		if !ok {
			t.Fatal("expected a match for string")
		}
		if got := c.Call([]any{"x"})[0]; got != "string" {
			t.Errorf("expected string candidate, got %v", got)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		if _, ok := s.Find("nope", []any{1}); ok {
			t.Error("expected no match for unknown name")
		}
	})

	t.Run("variadic candidates", func(t *testing.T) {
		v := NewSet()
		if err := v.Register("sum", func(ns ...int) int {
			total := 0
			for _, n := range ns {
				total += n
			}
			return total
		}); err != nil {
			t.Fatal(err)
		}
		if err := v.Register("sum", func(label string, ns ...int) string {
			return fmt.Sprintf("%s:%d", label, len(ns))
		}); err != nil {
			t.Fatal(err)
		}

		c, ok := v.Find("sum", []any{1, 2, 3})
		if !ok {
			t.Fatal("expected the variadic candidate to take three ints")
		}
		if got := c.Call([]any{1, 2, 3})[0]; got != 6 {
			t.Errorf("expected 6, got %v", got)
		}

		c, ok = v.Find("sum", []any{})
		if !ok {
			t.Fatal("expected the variadic candidate to take zero arguments")
		}
		if got := c.Call([]any{})[0]; got != 0 {
			t.Errorf("expected 0, got %v", got)
		}

		c, ok = v.Find("sum", []any{"tags", 4, 5})
		if !ok {
			t.Fatal("expected the mixed candidate to take a string head")
		}
		if got := c.Call([]any{"tags", 4, 5})[0]; got != "tags:2" {
			t.Errorf("expected tags:2, got %v", got)
		}

		if _, ok := v.Find("sum", []any{"tags", "not-an-int"}); ok {
			t.Error("expected no match when a trailing argument cannot bind")
		}
	})

	t.Run("rejects non-func", func(t *testing.T) {
		if err := s.Register("broken", 42); err == nil {
			t.Error("expected error registering a non-func")
		}
	})
}

type greeter struct{ prefix string }

func (g *greeter) Greet(name string) string { return g.prefix + name }

func TestInvoker(t *testing.T) {
	t.Run("prepares and invokes a receiver method", func(t *testing.T) {
		inv := &Invoker{
			TargetObject: &greeter{prefix: "hello "},
			TargetMethod: "Greet",
			Arguments:    []any{"world"},
		}
		if err := inv.Prepare(); err != nil {
			t.Fatal(err)
		}
		out, err := inv.Invoke()
		if err != nil {
			t.Fatal(err)
		}
		if out[0] != "hello world" {
			t.Errorf("expected 'hello world', got %v", out[0])
		}
	})

	t.Run("falls back to overload set", func(t *testing.T) {
		overloads := NewSet()
		if err := overloads.Register("Greet", func(n int) string { return "numbered" }); err != nil {
			t.Fatal(err)
		}
		inv := &Invoker{
			TargetObject: &greeter{},
			TargetMethod: "Greet",
			Arguments:    []any{7},
			Overloads:    overloads,
		}
		out, err := inv.Invoke()
		if err != nil {
			t.Fatal(err)
		}
		if out[0] != "numbered" {
			t.Errorf("expected overload result, got %v", out[0])
		}
	})

	t.Run("unknown method", func(t *testing.T) {
		inv := &Invoker{TargetObject: &greeter{}, TargetMethod: "Missing"}
		if err := inv.Prepare(); err == nil {
			t.Error("expected error for unknown method")
		}
	})

	t.Run("unbindable arguments", func(t *testing.T) {
		inv := &Invoker{
			TargetObject: &greeter{},
			TargetMethod: "Greet",
			Arguments:    []any{42},
		}
		if err := inv.Prepare(); err == nil {
			t.Error("expected error when no overload accepts the arguments")
		}
	})
}
