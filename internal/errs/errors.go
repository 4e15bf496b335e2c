package errs

import (
    "errors"
    "strings"
)

// Common sentinel errors for cross-layer signaling.
var (
    ErrNotFound = errors.New("not_found")
    ErrConflict = errors.New("conflict")
    ErrInvalid  = errors.New("invalid")
    // ErrReferenced marks a delete blocked by rows that still point at the target.
    ErrReferenced = errors.New("referenced")
    // ErrPersistence wraps any driver, connection or constraint failure.
    ErrPersistence = errors.New("persistence")
    // ErrLookup is returned when the postal-code service is unreachable or has no match.
    ErrLookup = errors.New("lookup")
    // ErrImmutable indicates an attempt to change immutable fields
    ErrImmutable = errors.New("immutable")
)

// ValidationError carries every user-fixable problem found in an input.
type ValidationError struct {
    Messages []string
}

// Invalid builds a ValidationError from one or more messages.
func Invalid(msgs ...string) *ValidationError { return &ValidationError{Messages: msgs} }

func (e *ValidationError) Error() string { return strings.Join(e.Messages, "\n") }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// PersistenceError reports a failed statement. Err keeps the driver error text;
// Kind optionally classifies it (ErrConflict, ErrReferenced).
type PersistenceError struct {
    Op   string
    Err  error
    Kind error
}

func (e *PersistenceError) Error() string {
    if e.Op == "" { return e.Err.Error() }
    return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool {
    return target == ErrPersistence || (e.Kind != nil && target == e.Kind)
}

// Persistence wraps err as a PersistenceError unless it already is one.
func Persistence(op string, err error) error {
    if err == nil { return nil }
    var pe *PersistenceError
    if errors.As(err, &pe) { return err }
    return &PersistenceError{Op: op, Err: err}
}
