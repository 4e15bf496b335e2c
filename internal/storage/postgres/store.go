// Package postgres opens a PostgreSQL-backed gateway through the pgx
// database/sql driver.
package postgres

import (
    "context"
    "database/sql"
    _ "embed"
    "errors"
    "log/slog"

    "github.com/jackc/pgx/v5/pgconn"
    _ "github.com/jackc/pgx/v5/stdlib"

    "github.com/tinoosan/fluxo/internal/errs"
    "github.com/tinoosan/fluxo/internal/storage/gateway"
)

//go:embed schema.sql
var Schema string

// Dialect rewrites '?' placeholders to $n and classifies SQLSTATE codes.
var Dialect = gateway.Dialect{Name: "postgres", Rebind: gateway.DollarRebind, Classify: classify}

// Open establishes a pool using the provided connection string, verifies it and
// applies the schema.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*gateway.Gateway, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil { return nil, err }
    // Verify connection
    if err := db.PingContext(ctx); err != nil { db.Close(); return nil, err }
    g := gateway.New(db, Dialect, logger)
    if err := g.EnsureSchema(ctx, Schema); err != nil { db.Close(); return nil, err }
    return g, nil
}

const (
    codeUniqueViolation     = "23505"
    codeForeignKeyViolation = "23503"
)

func classify(err error) error {
    var pgErr *pgconn.PgError
    if !errors.As(err, &pgErr) { return nil }
    switch pgErr.Code {
    case codeUniqueViolation:
        return errs.ErrConflict
    case codeForeignKeyViolation:
        return errs.ErrReferenced
    }
    return nil
}
