package match

import (
	"reflect"

	"github.com/skillsenselab/containerkit/errors"
)

// Invoker prepares and executes a method call on a target object,
// resolving the method by name and, when the exact reflect lookup cannot
// bind the arguments, by best-match over an overload set registered for
// the same name.
type Invoker struct {
	// TargetObject is the receiver whose method will be called.
	TargetObject any
	// TargetMethod is the method name to resolve on TargetObject.
	TargetMethod string
	// Arguments are the call arguments, bound by assignability.
	Arguments []any
	// Overloads optionally supplies extra candidates consulted when the
	// receiver's own method cannot bind the arguments.
	Overloads *Set

	resolved *Candidate
}

// Prepare resolves the target method against the arguments. It must be
// called before Invoke. Resolution prefers the receiver's own method when
// its parameters bind the arguments exactly or by assignability, then
// falls back to the best match among registered overload candidates.
func (inv *Invoker) Prepare() error {
	if inv.TargetObject == nil {
		return errors.InvalidInput("match", "invoker target object must not be nil")
	}
	if inv.TargetMethod == "" {
		return errors.InvalidInput("match", "invoker target method must not be empty")
	}

	var candidates []*Candidate

	m := reflect.ValueOf(inv.TargetObject).MethodByName(inv.TargetMethod)
	if m.IsValid() {
		candidates = append(candidates, &Candidate{Name: inv.TargetMethod, Fn: m})
	}
	if inv.Overloads != nil {
		candidates = append(candidates, inv.Overloads.Candidates(inv.TargetMethod)...)
	}
	if len(candidates) == 0 {
		return errors.NotFound(inv.TargetMethod)
	}

	best, ok := SelectBestMatch(candidates, inv.Arguments)
	if !ok {
		return errors.InvalidInput("match",
			"no overload of "+inv.TargetMethod+" accepts the given arguments")
	}
	inv.resolved = best
	return nil
}

// Prepared reports whether Prepare resolved a callable.
func (inv *Invoker) Prepared() bool { return inv.resolved != nil }

// Invoke calls the resolved method. Callers that skipped Prepare get it
// implicitly.
func (inv *Invoker) Invoke() ([]any, error) {
	if inv.resolved == nil {
		if err := inv.Prepare(); err != nil {
			return nil, err
		}
	}
	return inv.resolved.Call(inv.Arguments), nil
}
