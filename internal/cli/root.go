// Package cli provides the fluxo command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tinoosan/fluxo/internal/app"
	"github.com/tinoosan/fluxo/internal/config"
)

type options struct {
	cfgFile string
	debug   bool
	cfg     *config.Config
	log     *slog.Logger
}

// NewRootCmd builds the command tree. Commands share the configuration and
// logger loaded in PersistentPreRunE.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "fluxo",
		Short: "Cash-flow ledger for small Brazilian businesses",
		Long: `fluxo records income and expense entries against a category taxonomy,
keeps client, supplier and employee registries with an audit trail, and
produces cash-flow reports and spreadsheet exports.

Example:
  fluxo serve
  fluxo report --inicio 2026-01-01 --fim 2026-01-31
  fluxo export lancamentos --out lancamentos.xlsx`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(o.cfgFile)
			if err != nil {
				return err
			}
			if o.debug {
				cfg.LogLevel = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			o.cfg = cfg
			o.log = app.NewLogger(cfg)
			slog.SetDefault(o.log)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&o.cfgFile, "config", "", "env file (default is .env)")
	root.PersistentFlags().BoolVar(&o.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(o),
		newMigrateCmd(o),
		newSeedCmd(o),
		newReportCmd(o),
		newExportCmd(o),
		newCEPCmd(o),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// withApp opens the app, runs fn and closes it.
func (o *options) withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.Open(ctx, o.cfg, o.log)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			o.log.Error("close failed", "err", err)
		}
	}()
	return fn(a)
}
