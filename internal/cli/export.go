package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinoosan/fluxo/internal/app"
	"github.com/tinoosan/fluxo/internal/export"
	"github.com/tinoosan/fluxo/internal/ledger"
)

// exportLimit bounds the registry exports.
const exportLimit = 100000

func newExportCmd(o *options) *cobra.Command {
	var out, start, end, status string
	cmd := &cobra.Command{
		Use:       "export lancamentos|clientes|fornecedores|funcionarios",
		Short:     "Write an xlsx workbook",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"lancamentos", "clientes", "fornecedores", "funcionarios"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			if out == "" {
				parts := []string{status}
				if kind == "lancamentos" {
					parts = []string{start, end}
				}
				out = export.FileName(kind, parts...)
			}
			return o.withApp(cmd.Context(), func(a *app.App) error {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				w := bufio.NewWriter(f)
				if err := write(cmd, a, kind, ledger.Filter{Start: start, End: end}, ledger.Status(status), w); err != nil {
					_ = f.Close()
					_ = os.Remove(out)
					return err
				}
				if err := w.Flush(); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "arquivo gerado: %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default derived from the export)")
	cmd.Flags().StringVar(&start, "inicio", "", "first day of entries (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "fim", "", "last day of entries (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "registry status filter")
	return cmd
}

func write(cmd *cobra.Command, a *app.App, kind string, f ledger.Filter, status ledger.Status, w *bufio.Writer) error {
	ctx := cmd.Context()
	q := ledger.ListQuery{Status: status, Limit: exportLimit}
	switch kind {
	case "lancamentos":
		if err := f.Validate(); err != nil {
			return err
		}
		return export.Ledger(ctx, a.Reports, f, w)
	case "clientes":
		cs, err := a.Clients.List(ctx, q)
		if err != nil {
			return err
		}
		return export.Clients(w, cs)
	case "fornecedores":
		ss, err := a.Suppliers.List(ctx, q)
		if err != nil {
			return err
		}
		return export.Suppliers(w, ss)
	case "funcionarios":
		es, err := a.Employees.List(ctx, q)
		if err != nil {
			return err
		}
		return export.Employees(w, es)
	}
	return fmt.Errorf("unknown export %q", kind)
}
