package registry

// RegisterDependent records that dependent relies on dependency, so
// teardown destroys dependent first. The dependency name is
// canonicalized through the registry's alias resolution; the dependent
// name is stored as given. Edge insertion is idempotent.
func (r *Registry) RegisterDependent(dependency, dependent string) {
	canonical := r.canonicalize(dependency)

	r.dependentsMu.Lock()
	set, ok := r.dependents[canonical]
	if !ok {
		set = make(map[string]struct{})
		r.dependents[canonical] = set
	}
	set[dependent] = struct{}{}
	r.dependentsMu.Unlock()

	r.dependenciesMu.Lock()
	mirror, ok := r.dependencies[dependent]
	if !ok {
		mirror = make(map[string]struct{})
		r.dependencies[dependent] = mirror
	}
	mirror[canonical] = struct{}{}
	r.dependenciesMu.Unlock()
}

// RegisterContained records that inner lives inside outer, so destroying
// outer also destroys inner. The first insertion also registers outer as
// a dependent of inner; repeats touch neither map.
func (r *Registry) RegisterContained(inner, outer string) {
	r.containedMu.Lock()
	set, ok := r.contained[outer]
	if !ok {
		set = make(map[string]struct{})
		r.contained[outer] = set
	}
	if _, seen := set[inner]; seen {
		r.containedMu.Unlock()
		return
	}
	set[inner] = struct{}{}
	r.containedMu.Unlock()

	r.RegisterDependent(inner, outer)
}

// IsDependent reports whether dependent relies on dependency, directly
// or transitively through other components. Safe on cyclic graphs.
func (r *Registry) IsDependent(dependency, dependent string) bool {
	r.dependentsMu.Lock()
	defer r.dependentsMu.Unlock()
	return r.isDependentLocked(dependency, dependent, nil)
}

func (r *Registry) isDependentLocked(dependency, dependent string, seen map[string]struct{}) bool {
	if _, visited := seen[dependency]; visited {
		return false
	}
	canonical := r.canonicalize(dependency)
	dependents, ok := r.dependents[canonical]
	if !ok {
		return false
	}
	if _, direct := dependents[dependent]; direct {
		return true
	}
	for transitive := range dependents {
		if seen == nil {
			seen = make(map[string]struct{})
		}
		seen[dependency] = struct{}{}
		if r.isDependentLocked(transitive, dependent, seen) {
			return true
		}
	}
	return false
}

// HasDependents reports whether anything relies on name.
func (r *Registry) HasDependents(name string) bool {
	r.dependentsMu.Lock()
	defer r.dependentsMu.Unlock()
	return len(r.dependents[r.canonicalize(name)]) > 0
}

// DependentsOf returns the names that rely on name.
func (r *Registry) DependentsOf(name string) []string {
	r.dependentsMu.Lock()
	defer r.dependentsMu.Unlock()
	return setToSlice(r.dependents[r.canonicalize(name)])
}

// DependenciesOf returns the names that name relies on.
func (r *Registry) DependenciesOf(name string) []string {
	r.dependenciesMu.Lock()
	defer r.dependenciesMu.Unlock()
	return setToSlice(r.dependencies[name])
}

func setToSlice(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	return out
}
