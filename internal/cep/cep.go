// Package cep resolves Brazilian postal codes into addresses.
package cep

import (
	"context"
	"errors"
	"fmt"

	"github.com/tinoosan/fluxo/internal/errs"
	"github.com/tinoosan/fluxo/internal/ledger"
)

// Lookup resolves an 8-digit postal code. Implementations return only the
// fields the provider knows; Number and Complement are always empty.
type Lookup interface {
	Lookup(ctx context.Context, code string) (ledger.Address, error)
}

// Both wrap errs.ErrLookup.
var (
	ErrNotFound    = fmt.Errorf("%w: CEP não encontrado", errs.ErrLookup)
	ErrUnavailable = fmt.Errorf("%w: erro ao consultar API de CEP", errs.ErrLookup)
)

// Outcome is the result of an asynchronous lookup.
type Outcome struct {
	Code    string
	Address ledger.Address
	Err     error
}

// Async runs the lookup on its own goroutine. The returned channel receives
// exactly one outcome while ctx is live; when ctx is cancelled first the
// outcome is dropped and the channel is closed empty.
func Async(ctx context.Context, l Lookup, code string) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		addr, err := l.Lookup(ctx, code)
		if ctx.Err() != nil {
			return
		}
		select {
		case ch <- Outcome{Code: code, Address: addr, Err: err}:
		case <-ctx.Done():
		}
	}()
	return ch
}

// IsNotFound reports whether err means the code does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
