// Package registry implements a three-tier singleton cache with
// dependency-ordered teardown.
//
// A component name moves through at most three tiers: a pending factory
// able to expose an early reference, the early reference itself once
// something asked for it mid-construction, and the finished instance.
// Early references exist to break construction cycles: when component A
// needs B and B needs A back, B can obtain A's early reference instead
// of deadlocking or failing. Finished reads are lock-free; tier
// transitions share one registry-wide mutex.
//
// GetOrCreate guarantees at-most-once construction per name under
// concurrency. The dependency graph (RegisterDependent,
// RegisterContained) drives DestroyAll, which tears components down in
// reverse registration order with dependents destroyed before what they
// depend on.
//
// Typed access goes through the generic helpers:
//
//	cache := registry.MustResolve[*ResultCache](reg, "resultCache")
package registry
