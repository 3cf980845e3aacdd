package match

import (
	"math"
	"reflect"
)

// NoMatch is the weight returned when an argument list cannot be bound
// to a parameter list at all.
const NoMatch = math.MaxInt32

// AssignableValue reports whether arg can be passed where a parameter of
// type param is declared. Untyped nil binds to any type that can hold nil.
func AssignableValue(param reflect.Type, arg any) bool {
	if arg == nil {
		return nilable(param)
	}
	return reflect.TypeOf(arg).AssignableTo(param)
}

// TypeDifferenceWeight computes how closely an argument list fits a
// parameter list. Lower is tighter: an exact concrete match costs 0,
// binding to an interface parameter costs 1, and each embedding step
// between the argument's own type and the type that satisfies the
// interface costs 2 more. Returns NoMatch when any argument is not
// assignable to its parameter.
func TypeDifferenceWeight(paramTypes []reflect.Type, args []any) int {
	if len(paramTypes) != len(args) {
		return NoMatch
	}

	result := 0
	for i := range paramTypes {
		var argType reflect.Type
		if args[i] != nil {
			argType = reflect.TypeOf(args[i])
		}
		w := singleWeight(paramTypes[i], argType)
		if w == NoMatch {
			return NoMatch
		}
		result += w
	}
	return result
}

func singleWeight(param, arg reflect.Type) int {
	if arg == nil {
		if nilable(param) {
			return 0
		}
		return NoMatch
	}
	if !arg.AssignableTo(param) {
		return NoMatch
	}
	if param.Kind() != reflect.Interface {
		// Concrete parameters only admit identical or
		// identical-underlying types. Exact fit.
		return 0
	}

	// Charge 2 for each embedding step the implementation is promoted
	// through before it satisfies the interface, plus 1 for the
	// interface hop itself. A type that implements the interface with
	// its own methods but not through its embedded base costs only 1.
	weight := 1
	cur := arg
	for {
		base := embeddedBase(cur)
		if base == nil || !base.Implements(param) {
			break
		}
		weight += 2
		cur = base
	}
	return weight
}

// embeddedBase returns the type of the first anonymous struct field,
// following one pointer indirection, or nil when the type embeds
// nothing. This is the chain Go promotes methods along.
func embeddedBase(t reflect.Type) reflect.Type {
	elem := t
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct || elem.NumField() == 0 {
		return nil
	}
	f := elem.Field(0)
	if !f.Anonymous {
		return nil
	}
	base := f.Type
	if t.Kind() == reflect.Pointer && base.Kind() == reflect.Struct {
		base = reflect.PointerTo(base)
	}
	return base
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
