package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error classes. Handlers map these onto HTTP statuses;
// services wrap them with context via the constructors below.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	// ErrStoreUnavailable marks a persistence failure: the outcome of
	// the attempted operation is unknown, which is a different animal
	// from a clean "not found" and must never be collapsed into one.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Error pairs a class sentinel with a human-readable message.
type Error struct {
	Err     error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func NotFound(resource string) *Error {
	return &Error{Err: ErrNotFound, Message: resource + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Err: ErrConflict, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Err: ErrForbidden, Message: message}
}

func StoreUnavailable(op string, cause error) *Error {
	return &Error{Err: ErrStoreUnavailable, Message: fmt.Sprintf("%s: store unavailable: %v", op, cause)}
}

// PartialDeleteError reports a cascading delete that failed after one
// or more steps already completed. Completed lists the steps whose
// removals went through; Step names the one that failed.
type PartialDeleteError struct {
	Completed []string
	Step      string
	Cause     error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("account delete failed at %q after completing [%s]: %v",
		e.Step, strings.Join(e.Completed, ", "), e.Cause)
}

func (e *PartialDeleteError) Unwrap() error { return e.Cause }
