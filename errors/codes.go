package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Creation errors
const (
	// ErrCodeCircularDependency indicates a re-entrant creation request for a
	// component already under construction that no early-reference path resolved.
	ErrCodeCircularDependency ErrorCode = "CIRCULAR_DEPENDENCY"
	// ErrCodeCurrentlyInCreation indicates a component is already marked as
	// being created, raised by the creation tracker's begin guard.
	ErrCodeCurrentlyInCreation ErrorCode = "CURRENTLY_IN_CREATION"
	// ErrCodeCreationNotAllowed indicates a creation request arrived while the
	// registry is tearing down.
	ErrCodeCreationNotAllowed ErrorCode = "CREATION_NOT_ALLOWED"
	// ErrCodeCreationFailed indicates a component factory returned an error.
	ErrCodeCreationFailed ErrorCode = "CREATION_FAILED"
)

// Registration errors
const (
	// ErrCodeNotFound indicates the named component is not registered.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the name is already bound to an instance.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeInvalidName indicates an empty or malformed component name.
	ErrCodeInvalidName ErrorCode = "INVALID_NAME"
)

// Internal errors
const (
	// ErrCodeInvariantViolation indicates a programming error in a collaborator,
	// e.g. ending a creation that was never begun.
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
	// ErrCodeInvalidInput indicates invalid input, e.g. a bad settings value.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeTypeMismatch indicates a resolved component has an unexpected type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
)

// fatalCodes surface immediately and are never worth a double-check re-read.
var fatalCodes = map[ErrorCode]bool{
	ErrCodeCreationNotAllowed: true,
	ErrCodeInvariantViolation: true,
}

// IsFatalCode returns true if the code indicates an error that must surface
// immediately and never be retried.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}
