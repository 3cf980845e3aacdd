// Package match resolves which of several registered callables best fits
// a set of runtime arguments.
//
// Go has no method overloading, so an overload set is expressed as a Set:
// several funcs registered under one name. Resolution ranks candidates by
// type-difference weight: exact concrete matches beat interface bindings,
// and shallow embedding chains beat deep ones. Ties keep the first
// registered candidate, so resolution is deterministic.
//
// Invoker layers a prepare-then-invoke call protocol on top: name a
// target object and method, bind arguments, call.
package match
