package match

import (
	"reflect"
	"sync"

	"github.com/skillsenselab/containerkit/errors"
)

// Candidate is one callable in an overload set.
type Candidate struct {
	// Name groups candidates that express one logical operation.
	Name string
	// Fn is the callable. Must be a func.
	Fn reflect.Value
}

// ParamTypes returns the candidate's declared parameter types.
func (c *Candidate) ParamTypes() []reflect.Type {
	t := c.Fn.Type()
	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}
	return params
}

// bindingParams returns the parameter type each of n arguments binds
// against, expanding a variadic final parameter to its element type.
func (c *Candidate) bindingParams(n int) []reflect.Type {
	t := c.Fn.Type()
	params := make([]reflect.Type, n)
	for i := range params {
		if t.IsVariadic() && i >= t.NumIn()-1 {
			params[i] = t.In(t.NumIn() - 1).Elem()
		} else {
			params[i] = t.In(i)
		}
	}
	return params
}

// arityAccepts reports whether the candidate can take n arguments.
func (c *Candidate) arityAccepts(n int) bool {
	t := c.Fn.Type()
	if t.IsVariadic() {
		return n >= t.NumIn()-1
	}
	return n == t.NumIn()
}

// Call invokes the candidate with the given arguments.
func (c *Candidate) Call(args []any) []any {
	in := make([]reflect.Value, len(args))
	params := c.bindingParams(len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(params[i])
		} else {
			in[i] = reflect.ValueOf(arg)
		}
	}
	out := c.Fn.Call(in)
	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results
}

// SelectBestMatch picks the candidate whose parameters fit args with the
// lowest total type-difference weight. Candidates whose arity cannot take
// the arguments are skipped; a variadic candidate accepts any argument
// count from its fixed-parameter count up, with every trailing argument
// weighed against the variadic element type. Ties keep the first
// candidate seen, so selection over a fixed candidate order is
// deterministic. Returns false when no candidate accepts the arguments.
func SelectBestMatch(candidates []*Candidate, args []any) (*Candidate, bool) {
	var best *Candidate
	bestWeight := NoMatch

	for _, c := range candidates {
		if c.Fn.Kind() != reflect.Func || !c.arityAccepts(len(args)) {
			continue
		}
		w := TypeDifferenceWeight(c.bindingParams(len(args)), args)
		if w < bestWeight {
			best = c
			bestWeight = w
		}
	}
	return best, best != nil
}

// Set is a named registry of overload candidates. It is Go's expression
// of an overload set: several funcs registered under one name, resolved
// per call by argument types.
type Set struct {
	mu         sync.RWMutex
	candidates map[string][]*Candidate
}

// NewSet creates an empty overload set registry.
func NewSet() *Set {
	return &Set{candidates: make(map[string][]*Candidate)}
}

// Register adds fn as a candidate under name. Returns an error when fn is
// not a func.
func (s *Set) Register(name string, fn any) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return errors.InvalidInput("match", "candidate must be a func, got "+v.Kind().String())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[name] = append(s.candidates[name], &Candidate{Name: name, Fn: v})
	return nil
}

// Find resolves the best candidate registered under name for args.
func (s *Set) Find(name string, args []any) (*Candidate, bool) {
	s.mu.RLock()
	list := s.candidates[name]
	s.mu.RUnlock()
	return SelectBestMatch(list, args)
}

// Candidates returns the candidates registered under name, in
// registration order.
func (s *Set) Candidates(name string) []*Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.candidates[name]
	out := make([]*Candidate, len(list))
	copy(out, list)
	return out
}
