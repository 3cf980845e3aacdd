// Package errors defines the error taxonomy of the lifecycle container:
// machine-readable codes for creation, registration, and invariant failures,
// a structured ContainerError carrying the component name and optional
// details, and bounded aggregation of suppressed related causes so that a
// surfaced creation failure keeps the incidental errors collected while a
// dependency cycle was being unwound.
package errors
