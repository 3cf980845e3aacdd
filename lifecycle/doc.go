// Package lifecycle orchestrates component construction through an
// ordered hook chain.
//
// A hook implements any subset of InstantiationHook, EarlyReferenceHook
// and InitializationHook. Creator.Create threads a Definition through
// the phases: a hook may short-circuit construction entirely, transform
// the reference exposed to mid-cycle consumers, or transform the
// component after initialization. When an early reference escaped during
// construction and the hooks left the raw object unchanged, the early
// reference wins, so every consumer observes one final object.
package lifecycle
