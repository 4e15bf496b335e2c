// Package app assembles the storage backend, collaborators and services
// described by a config.Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tinoosan/fluxo/internal/audit"
	"github.com/tinoosan/fluxo/internal/cep"
	"github.com/tinoosan/fluxo/internal/config"
	"github.com/tinoosan/fluxo/internal/httpapi"
	"github.com/tinoosan/fluxo/internal/service/catalog"
	"github.com/tinoosan/fluxo/internal/service/client"
	"github.com/tinoosan/fluxo/internal/service/employee"
	"github.com/tinoosan/fluxo/internal/service/entry"
	"github.com/tinoosan/fluxo/internal/service/report"
	"github.com/tinoosan/fluxo/internal/service/supplier"
	"github.com/tinoosan/fluxo/internal/storage/bolt"
	"github.com/tinoosan/fluxo/internal/storage/gateway"
	"github.com/tinoosan/fluxo/internal/storage/memory"
	"github.com/tinoosan/fluxo/internal/storage/postgres"
	"github.com/tinoosan/fluxo/internal/storage/sqlite"
	"github.com/tinoosan/fluxo/internal/storage/sqlstore"
	"github.com/tinoosan/fluxo/internal/taxonomy"
)

// App owns every long-lived resource; Close releases them.
type App struct {
	Config *config.Config
	Log    *slog.Logger
	Store  *sqlstore.Store
	Trail  *audit.Trail
	CEP    cep.Lookup

	Catalog   catalog.Service
	Clients   client.Service
	Suppliers supplier.Service
	Employees employee.Service
	Entries   entry.Service
	Reports   report.Service

	closers []func() error
}

// NewLogger builds the process logger from the configured level and format.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// Open connects to Postgres when DATABASE_URL is set and to the SQLite file
// otherwise; both paths apply the schema before returning.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	groups, err := taxonomy.Load(cfg.TaxonomyFile)
	if err != nil {
		return nil, err
	}

	var g *gateway.Gateway
	if cfg.DatabaseURL != "" {
		g, err = postgres.Open(ctx, cfg.DatabaseURL, logger)
	} else {
		g, err = sqlite.Open(ctx, cfg.DBPath, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Backend(), err)
	}
	a := &App{Config: cfg, Log: logger, Store: sqlstore.New(g)}
	a.closers = append(a.closers, g.Close)
	logger.Info("storage backend ready", "backend", cfg.Backend())

	cache, err := a.cepCache()
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	viacep := cep.NewViaCEP(cep.Config{BaseURL: cfg.CEP.APIURL, Timeout: cfg.CEP.Timeout}, logger)
	a.CEP = cep.NewCached(viacep, cache, logger)

	s := a.Store
	a.Trail = audit.New(s, logger)
	a.Catalog = catalog.New(s, s, groups, logger)
	a.Clients = client.New(s, s, a.Trail, a.CEP, logger)
	a.Suppliers = supplier.New(s, s, a.Trail, a.CEP, logger)
	a.Employees = employee.New(s, s, a.Trail, a.CEP, logger)
	a.Entries = entry.New(s, s, logger)
	a.Reports = report.New(s, s, logger)
	return a, nil
}

// cepCache is the bbolt file when CEP_CACHE_PATH is set and process memory otherwise.
func (a *App) cepCache() (cep.Cache, error) {
	if a.Config.CEP.CachePath == "" {
		return memory.New(), nil
	}
	db, err := bolt.Open(a.Config.CEP.CachePath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	return db, nil
}

// Services exposes the app to the HTTP layer.
func (a *App) Services() httpapi.Services {
	return httpapi.Services{
		Catalog:   a.Catalog,
		Clients:   a.Clients,
		Suppliers: a.Suppliers,
		Employees: a.Employees,
		Entries:   a.Entries,
		Reports:   a.Reports,
		Audit:     a.Trail,
		CEP:       a.CEP,
		Ready:     a.Store,
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
