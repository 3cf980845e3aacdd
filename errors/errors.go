// Package errors provides unified error handling for the lifecycle container.
// It implements structured error types with error codes, per-component context,
// and bounded aggregation of suppressed related causes.
package errors

import (
	stderrors "errors"
	"fmt"
)

// RelatedCauseLimit is the maximum number of suppressed related causes
// preserved on a single error.
const RelatedCauseLimit = 100

// ContainerError is the unified error type of the container core.
type ContainerError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Component is the name of the component the error relates to, if any.
	Component string `json:"component,omitempty"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
	// Related holds suppressed errors collected while this error was
	// forming, e.g. failures from nested resolutions during cycle unwinding.
	Related []error `json:"-"`
}

// Error returns the string representation of the error.
func (e *ContainerError) Error() string {
	switch {
	case e.Component != "" && e.Cause != nil:
		return fmt.Sprintf("%s: component '%s': %s (cause: %v)", e.Code, e.Component, e.Message, e.Cause)
	case e.Component != "":
		return fmt.Sprintf("%s: component '%s': %s", e.Code, e.Component, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause of the error.
func (e *ContainerError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *ContainerError) WithCause(cause error) *ContainerError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *ContainerError) WithDetail(key string, value any) *ContainerError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// AddRelated appends a suppressed related cause, up to RelatedCauseLimit.
// It returns the receiver.
func (e *ContainerError) AddRelated(err error) *ContainerError {
	if err != nil && len(e.Related) < RelatedCauseLimit {
		e.Related = append(e.Related, err)
	}
	return e
}

// RelatedCauses returns the suppressed errors attached to this error.
func (e *ContainerError) RelatedCauses() []error { return e.Related }

// New creates a new ContainerError.
func New(code ErrorCode, component, message string) *ContainerError {
	return &ContainerError{Code: code, Component: component, Message: message}
}

// --- Common Error Constructors ---

// CircularDependency creates an error for a re-entrant creation request that
// no early-reference path could resolve.
func CircularDependency(name string) *ContainerError {
	return &ContainerError{
		Code: ErrCodeCircularDependency, Component: name,
		Message: "requested component is already in creation: unresolvable circular dependency",
	}
}

// CurrentlyInCreation creates an error for a component whose creation guard
// rejected a duplicate begin.
func CurrentlyInCreation(name string) *ContainerError {
	return &ContainerError{
		Code: ErrCodeCurrentlyInCreation, Component: name,
		Message: "component is currently in creation",
	}
}

// CreationNotAllowed creates an error for a creation request made while the
// registry is destroying its components.
func CreationNotAllowed(name string) *ContainerError {
	return &ContainerError{
		Code: ErrCodeCreationNotAllowed, Component: name,
		Message: "component creation not allowed while the registry is in destruction " +
			"(do not request a component from inside a destroy callback)",
	}
}

// CreationFailed creates an error for a factory that returned an error.
func CreationFailed(name string, cause error) *ContainerError {
	return &ContainerError{
		Code: ErrCodeCreationFailed, Component: name,
		Message: "component factory failed", Cause: cause,
	}
}

// InvariantViolation creates an error for a broken internal invariant.
func InvariantViolation(name, reason string) *ContainerError {
	return &ContainerError{
		Code: ErrCodeInvariantViolation, Component: name, Message: reason,
	}
}

// NotFound creates an error for an unregistered component name.
func NotFound(name string) *ContainerError {
	return &ContainerError{
		Code: ErrCodeNotFound, Component: name,
		Message: "component is not registered",
	}
}

// AlreadyExists creates an error for a name already bound to an instance.
func AlreadyExists(name string) *ContainerError {
	return &ContainerError{
		Code: ErrCodeAlreadyExists, Component: name,
		Message: "an instance is already bound under this name",
	}
}

// InvalidName creates an error for an empty or malformed component name.
func InvalidName(name string) *ContainerError {
	return &ContainerError{
		Code: ErrCodeInvalidName, Component: name,
		Message: "component name must not be empty",
	}
}

// Validation creates an error for invalid configuration or input.
func Validation(message string) *ContainerError {
	return &ContainerError{Code: ErrCodeInvalidInput, Message: message}
}

// InvalidInput creates an error for a malformed argument to a component API.
func InvalidInput(component, message string) *ContainerError {
	return &ContainerError{Code: ErrCodeInvalidInput, Component: component, Message: message}
}

// TypeMismatch creates an error for a component resolved to an unexpected type.
func TypeMismatch(name, expected, got string) *ContainerError {
	return &ContainerError{
		Code: ErrCodeTypeMismatch, Component: name,
		Message: fmt.Sprintf("component is %s, expected %s", got, expected),
		Details: map[string]any{"expected": expected, "got": got},
	}
}

// --- Inspection helpers ---

// AsContainerError extracts a *ContainerError from err's chain.
func AsContainerError(err error) (*ContainerError, bool) {
	var ce *ContainerError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsCode reports whether any error in err's chain carries the given code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		if ce, ok := err.(*ContainerError); ok && ce.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}
