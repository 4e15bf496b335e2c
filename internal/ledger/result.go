package ledger

import (
    "errors"
    "fmt"

    "github.com/tinoosan/fluxo/internal/errs"
)

// Result is the outcome of a mutating operation. Expected failures
// (validation, uniqueness, missing ids, storage faults) are reported here
// rather than as errors; Kind classifies them for errors.Is.
type Result struct {
    OK      bool   `json:"ok"`
    ID      int64  `json:"id,omitempty"`
    Message string `json:"message"`
    Kind    error  `json:"-"`
}

// Succeeded builds a successful result.
func Succeeded(id int64, msg string) Result { return Result{OK: true, ID: id, Message: msg} }

// Failed builds a failed result of the given kind.
func Failed(kind error, msg string) Result { return Result{Kind: kind, Message: msg} }

// FailedWith derives the kind from err: validation, conflict and not-found
// errors keep their class, everything else is a persistence failure.
func FailedWith(prefix string, err error) Result {
    var ve *errs.ValidationError
    switch {
    case errors.As(err, &ve):
        return Failed(errs.ErrInvalid, ve.Error())
    case errors.Is(err, errs.ErrNotFound):
        return Failed(errs.ErrNotFound, fmt.Sprintf("%s: %v", prefix, err))
    case errors.Is(err, errs.ErrConflict):
        return Failed(errs.ErrConflict, fmt.Sprintf("%s: %v", prefix, err))
    case errors.Is(err, errs.ErrReferenced):
        return Failed(errs.ErrReferenced, fmt.Sprintf("%s: %v", prefix, err))
    }
    return Failed(errs.ErrPersistence, fmt.Sprintf("%s: %v", prefix, err))
}

// Err returns nil for a successful result and otherwise an error matching Kind.
func (r Result) Err() error {
    if r.OK { return nil }
    kind := r.Kind
    if kind == nil { kind = errs.ErrInvalid }
    return &resultError{kind: kind, msg: r.Message}
}

type resultError struct {
    kind error
    msg  string
}

func (e *resultError) Error() string { return e.msg }

func (e *resultError) Is(target error) bool { return target == e.kind }
