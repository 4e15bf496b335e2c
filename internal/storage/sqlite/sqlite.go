// Package sqlite opens the default SQLite-backed gateway.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/tinoosan/fluxo/internal/errs"
	"github.com/tinoosan/fluxo/internal/storage/gateway"
)

//go:embed schema.sql
var Schema string

// Dialect uses '?' placeholders natively and classifies constraint failures.
var Dialect = gateway.Dialect{Name: "sqlite", Classify: classify}

// Open opens (creating if needed) the database file at path, enables foreign
// keys and WAL mode on every connection and applies the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*gateway.Gateway, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single writer; readers share the same connection
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	g := gateway.New(db, Dialect, logger)
	if err := g.EnsureSchema(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return g, nil
}

func classify(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return nil
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return errs.ErrConflict
	case sqlite3.ErrConstraintForeignKey:
		return errs.ErrReferenced
	}
	// a blocked ON DELETE RESTRICT reports SQLITE_CONSTRAINT_TRIGGER
	if se.Code == sqlite3.ErrConstraint && strings.Contains(se.Error(), "FOREIGN KEY") {
		return errs.ErrReferenced
	}
	return nil
}
