package cep

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tinoosan/fluxo/internal/ledger"
)

// ErrCacheMiss is returned by a Cache that holds no entry for a code.
var ErrCacheMiss = errors.New("cep cache miss")

// Cache stores resolved addresses by postal code.
type Cache interface {
	Get(ctx context.Context, code string) (ledger.Address, error)
	Put(ctx context.Context, code string, a ledger.Address) error
}

// Cached serves lookups from cache and fills it from next on a miss.
// Failed lookups are not cached.
type Cached struct {
	next  Lookup
	cache Cache
	log   *slog.Logger
}

func NewCached(next Lookup, cache Cache, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{next: next, cache: cache, log: logger}
}

func (c *Cached) Lookup(ctx context.Context, code string) (ledger.Address, error) {
	a, err := c.cache.Get(ctx, code)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("cep cache read failed", "cep", code, "err", err)
	}
	a, err = c.next.Lookup(ctx, code)
	if err != nil {
		return ledger.Address{}, err
	}
	if err := c.cache.Put(ctx, code, a); err != nil {
		c.log.Warn("cep cache write failed", "cep", code, "err", err)
	}
	return a, nil
}
