// Package errs defines the taxonomic error kinds shared by every subsystem
// in the practice engine. Errors are always returned as values — nothing in
// this module panics except for genuinely unreachable states (see Engine
// invariant violations), per the engine's result-returning design.
package errs

import (
	"errors"
	"fmt"
)

// Kind is the taxonomy from the error-handling design: transport-agnostic,
// mapped to HTTP statuses only by the HTTP layer (internal/httpapi).
type Kind string

const (
	KindValidation        Kind = "VALIDATION_ERROR"
	KindNotFound           Kind = "NOT_FOUND"
	KindVersionConflict    Kind = "VERSION_CONFLICT"
	KindInvalidTransition  Kind = "INVALID_TRANSITION"
	KindBackend            Kind = "BACKEND_ERROR"
	KindIntegrityFailure   Kind = "INTEGRITY_FAILURE"
	KindDecryptionFailure  Kind = "DECRYPTION_FAILURE"
	KindGenerationFailed   Kind = "GENERATION_FAILED"
	KindRateLimited        Kind = "RATE_LIMITED"
)

// Error is the single error type every subsystem boundary returns.
type Error struct {
	Kind    Kind
	Message string

	// CurrentState/AllowedEvents are set for KindInvalidTransition.
	CurrentState  string
	AllowedEvents []string

	// RetryAfterMs is set for KindRateLimited.
	RetryAfterMs int64

	// Cause wraps the underlying error, if any (e.g. a backend I/O error).
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, errs.NotFound) style checks against sentinels
// built with New (no cause), by comparing Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an Error with no cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around an underlying cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Transition builds a KindInvalidTransition error carrying the offending
// state and the set of events that were legal from it.
func Transition(entity, event, currentState string, allowed []string) *Error {
	return &Error{
		Kind:          KindInvalidTransition,
		Message:       fmt.Sprintf("%s: event %q not allowed from state %q", entity, event, currentState),
		CurrentState:  currentState,
		AllowedEvents: allowed,
	}
}

// RateLimited builds a KindRateLimited error carrying a retry hint.
func RateLimited(retryAfterMs int64, format string, args ...any) *Error {
	return &Error{Kind: KindRateLimited, Message: fmt.Sprintf(format, args...), RetryAfterMs: retryAfterMs}
}

// NotFound is a convenience constructor — ownership mismatches and missing
// entities both surface this kind, deliberately, to avoid enumeration.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, or "" if err is not (or does not wrap)
// an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Sentinels for errors.Is comparisons where callers don't need the message.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrVersionConflict   = &Error{Kind: KindVersionConflict}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
)
