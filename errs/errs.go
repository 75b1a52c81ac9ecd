package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a structured error into one of the five taxonomy members
// collaborators use to decide retry, logging, and user-visibility policy.
type Kind string

const (
	KindStartupConfig    Kind = "startup_config"
	KindDataCorruption   Kind = "data_corruption"
	KindInternal         Kind = "internal"
	KindPublic           Kind = "public"
	KindResourceNotFound Kind = "resource_not_found"
)

// Kinded is implemented by every error type in this package, letting callers
// branch on taxonomy membership without a type switch.
type Kinded interface {
	error
	ErrKind() Kind
}

// StartupConfigError reports an unrecoverable environmental precondition:
// missing configuration, a missing plugin, or similar. It is terminal at the
// collaborator level; callers should not retry.
type StartupConfigError struct {
	Component string
	Message   string
	cause     error
}

// NewStartupConfigError constructs a StartupConfigError. component and
// message are required.
func NewStartupConfigError(component, message string, cause error) *StartupConfigError {
	return &StartupConfigError{Component: component, Message: message, cause: cause}
}

func (e *StartupConfigError) Error() string {
	return fmt.Sprintf("%s: startup config error: %s", e.Component, e.Message)
}

func (e *StartupConfigError) Unwrap() error { return e.cause }
func (e *StartupConfigError) ErrKind() Kind { return KindStartupConfig }

// DataCorruptionError reports a well-formed parse failure with a meaningful
// source location: the lexer's line/column when available, and the source
// key (file path, storage key, stream id) the data came from.
type DataCorruptionError struct {
	Source  string
	Line    int
	Column  int
	Message string
	cause   error
}

// NewDataCorruptionError constructs a DataCorruptionError. Line/Column are 0
// when the position is unknown.
func NewDataCorruptionError(source string, line, column int, message string, cause error) *DataCorruptionError {
	return &DataCorruptionError{Source: source, Line: line, Column: column, Message: message, cause: cause}
}

func (e *DataCorruptionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *DataCorruptionError) Unwrap() error { return e.cause }
func (e *DataCorruptionError) ErrKind() Kind { return KindDataCorruption }

// InternalError reports an invariant violation: double subscription, double
// init, a data stream out of sync, an unexpected token class, or any other
// defect that should never occur given correct callers. The pipeline wraps
// any error it does not otherwise recognize in an InternalError before
// routing it to reportUnhandledError.
type InternalError struct {
	Op      string
	Message string
	cause   error
}

// NewInternalError constructs an InternalError. op names the invariant or
// operation that was violated.
func NewInternalError(op, message string, cause error) *InternalError {
	return &InternalError{Op: op, Message: message, cause: cause}
}

// Wrap wraps cause in an InternalError tagged with op, preserving cause in
// the error chain, as reportUnhandledError does for any error it catches.
func Wrap(op string, cause error) *InternalError {
	msg := "unhandled error"
	if cause != nil {
		msg = cause.Error()
	}
	return &InternalError{Op: op, Message: msg, cause: cause}
}

func (e *InternalError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("internal error: %s", e.Message)
	}
	return fmt.Sprintf("internal error in %s: %s", e.Op, e.Message)
}

func (e *InternalError) Unwrap() error { return e.cause }
func (e *InternalError) ErrKind() Kind { return KindInternal }

// PublicError reports a user-visible termination, such as a request to
// cancel. Message is shown to the caller verbatim.
type PublicError struct {
	Message string
	cause   error
}

// NewPublicError constructs a PublicError.
func NewPublicError(message string, cause error) *PublicError {
	return &PublicError{Message: message, cause: cause}
}

func (e *PublicError) Error() string { return e.Message }
func (e *PublicError) Unwrap() error { return e.cause }
func (e *PublicError) ErrKind() Kind { return KindPublic }

// ResourceNotFoundError reports a missing entry in a dynamic-config or
// metadata bundle lookup.
type ResourceNotFoundError struct {
	BundleKind string
	Selector   string
	cause      error
}

// NewResourceNotFoundError constructs a ResourceNotFoundError. bundleKind
// names the kind of bundle the lookup failed against (e.g. "metadata",
// "resource").
func NewResourceNotFoundError(bundleKind, selector string, cause error) *ResourceNotFoundError {
	return &ResourceNotFoundError{BundleKind: bundleKind, Selector: selector, cause: cause}
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.BundleKind, e.Selector)
}

func (e *ResourceNotFoundError) Unwrap() error { return e.cause }
func (e *ResourceNotFoundError) ErrKind() Kind { return KindResourceNotFound }

// As returns the first error of type *T in err's chain.
func As[T error](err error) (T, bool) {
	var target T
	if errors.As(err, &target) {
		return target, true
	}
	var zero T
	return zero, false
}

// KindOf classifies err by its taxonomy Kind when it (or something it wraps)
// implements Kinded, and reports whether one was found.
func KindOf(err error) (Kind, bool) {
	var k Kinded
	if errors.As(err, &k) {
		return k.ErrKind(), true
	}
	return "", false
}
