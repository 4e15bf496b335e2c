// Package sqlstore maps the domain entities onto SQL rows. It holds no
// connection state of its own: every statement goes through the persistence
// gateway, so the same Store serves the SQLite and Postgres dialects.
package sqlstore

import (
    "context"
    "fmt"

    "github.com/tinoosan/fluxo/internal/errs"
    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/storage/gateway"
)

// Store implements the read/write interfaces used across the service layer.
// All methods are safe for concurrent use.
type Store struct {
    g *gateway.Gateway
}

// New builds a Store over an open gateway.
func New(g *gateway.Gateway) *Store { return &Store{g: g} }

// Gateway returns the underlying gateway.
func (s *Store) Gateway() *gateway.Gateway { return s.g }

// Ready pings the database.
func (s *Store) Ready(ctx context.Context) error { return s.g.Ping(ctx) }

// Exists reports whether a row with id exists in the entity's table.
func (s *Store) Exists(ctx context.Context, e ledger.Entity, id int64) (bool, error) {
    if !e.Valid() { return false, fmt.Errorf("unknown entity %q", e) }
    var one int
    return s.g.QueryOne(ctx, "SELECT 1 FROM "+string(e)+" WHERE id = ?", []any{id}, func(r gateway.Scanner) error {
        return r.Scan(&one)
    })
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int64, error) {
    var n int64
    _, err := s.g.QueryOne(ctx, query, args, func(r gateway.Scanner) error { return r.Scan(&n) })
    return n, err
}

// one runs a single-row query and maps absence to errs.ErrNotFound.
func (s *Store) one(ctx context.Context, query string, args []any, scan func(gateway.Scanner) error) error {
    found, err := s.g.QueryOne(ctx, query, args, scan)
    if err != nil { return err }
    if !found { return errs.ErrNotFound }
    return nil
}

// affected maps a zero-row mutation to errs.ErrNotFound.
func affected(n int64, err error) error {
    if err != nil { return err }
    if n == 0 { return errs.ErrNotFound }
    return nil
}

func nullID(p *int64) any {
    if p == nil { return nil }
    return *p
}
