// Package gateway owns the database handle and runs every statement of the
// application. Each mutating call is its own transaction: on failure it is
// rolled back and a *errs.PersistenceError carrying the driver text is returned,
// so callers never observe a half-applied write.
package gateway

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/tinoosan/fluxo/internal/errs"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Gateway executes parameterized statements through a dialect.
// All methods are safe for concurrent use.
type Gateway struct {
	db      *sql.DB
	dialect Dialect
	log     *slog.Logger
}

// New wraps an open database handle.
func New(db *sql.DB, d Dialect, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{db: db, dialect: d, log: logger}
}

// Dialect returns the dialect the gateway was built with.
func (g *Gateway) Dialect() Dialect { return g.dialect }

// DB exposes the underlying handle for tooling and tests.
func (g *Gateway) DB() *sql.DB { return g.db }

// Ping verifies connectivity.
func (g *Gateway) Ping(ctx context.Context) error {
	if err := g.db.PingContext(ctx); err != nil {
		return g.fail("ping", err)
	}
	return nil
}

// Ready implements the readiness probe used by the HTTP layer.
func (g *Gateway) Ready(ctx context.Context) error { return g.Ping(ctx) }

// Close releases the handle.
func (g *Gateway) Close() error { return g.db.Close() }

// Query runs a read statement and calls scan once per row.
func (g *Gateway) Query(ctx context.Context, query string, args []any, scan func(Scanner) error) (err error) {
	start := time.Now()
	defer func() { observe("query", start, err) }()
	rows, err := g.db.QueryContext(ctx, g.dialect.rebind(query), args...)
	if err != nil {
		return g.fail("query", err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return g.fail("scan", err)
		}
	}
	if err := rows.Err(); err != nil {
		return g.fail("query", err)
	}
	return nil
}

// QueryOne runs a read statement and scans the first row, reporting whether one existed.
func (g *Gateway) QueryOne(ctx context.Context, query string, args []any, scan func(Scanner) error) (found bool, err error) {
	start := time.Now()
	defer func() { observe("query_one", start, err) }()
	rows, err := g.db.QueryContext(ctx, g.dialect.rebind(query), args...)
	if err != nil {
		return false, g.fail("query", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return false, g.fail("query", err)
		}
		return false, nil
	}
	if err := scan(rows); err != nil {
		return false, g.fail("scan", err)
	}
	return true, nil
}

// Insert runs an INSERT and returns the generated id. The statement must not
// carry its own RETURNING clause.
func (g *Gateway) Insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := g.inTx(ctx, "insert", func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, g.dialect.rebind(query+" RETURNING id"), args...).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update runs an UPDATE (or upsert) and returns the affected row count.
func (g *Gateway) Update(ctx context.Context, query string, args ...any) (int64, error) {
	return g.exec(ctx, "update", query, args)
}

// Delete runs a DELETE and returns the affected row count.
func (g *Gateway) Delete(ctx context.Context, query string, args ...any) (int64, error) {
	return g.exec(ctx, "delete", query, args)
}

func (g *Gateway) exec(ctx context.Context, op, query string, args []any) (int64, error) {
	var n int64
	err := g.inTx(ctx, op, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, g.dialect.rebind(query), args...)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// inTx wraps fn in a single-statement transaction.
func (g *Gateway) inTx(ctx context.Context, op string, fn func(*sql.Tx) error) (err error) {
	start := time.Now()
	defer func() { observe(op, start, err) }()
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return g.fail(op, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			g.log.Error("rollback failed", "op", op, "err", rbErr)
		}
		return g.fail(op, err)
	}
	if err := tx.Commit(); err != nil {
		return g.fail(op, err)
	}
	return nil
}

// EnsureSchema applies a declarative script statement by statement. Every
// statement is expected to be idempotent (CREATE ... IF NOT EXISTS).
func (g *Gateway) EnsureSchema(ctx context.Context, script string) error {
	for _, stmt := range SplitStatements(script) {
		if _, err := g.db.ExecContext(ctx, stmt); err != nil {
			return g.fail("schema", err)
		}
	}
	g.log.Debug("schema ensured", "dialect", g.dialect.Name)
	return nil
}

func (g *Gateway) fail(op string, err error) error {
	var pe *errs.PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	var kind error
	if g.dialect.Classify != nil {
		kind = g.dialect.Classify(err)
	}
	return &errs.PersistenceError{Op: op, Err: err, Kind: kind}
}

// SplitStatements breaks a script on ';' terminators, dropping "--" comment
// lines and empty statements.
func SplitStatements(script string) []string {
	var cleaned strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteByte('\n')
	}
	out := make([]string, 0)
	for _, part := range strings.Split(cleaned.String(), ";") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
