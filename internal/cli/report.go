package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tinoosan/fluxo/internal/app"
	"github.com/tinoosan/fluxo/internal/errs"
	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/service/report"
)

func newReportCmd(o *options) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the cash-flow summary of a period",
		Long: `Print income, expenses, balance and the per-category totals of a
period. The period defaults to the current month.

Example:
  fluxo report --inicio 2026-01-01 --fim 2026-03-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end = defaultRange(start, end, time.Now().UTC())
			f := ledger.Filter{Start: start, End: end}
			if err := f.Validate(); err != nil {
				return err
			}
			if start > end {
				return errs.Invalid("Data inicial posterior à data final")
			}
			return o.withApp(cmd.Context(), func(a *app.App) error {
				sum, err := a.Reports.Summary(cmd.Context(), f)
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), start, end, sum)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&start, "inicio", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "fim", "", "last day (YYYY-MM-DD)")
	return cmd
}

// defaultRange fills missing bounds with the month of now.
func defaultRange(start, end string, now time.Time) (string, string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if start == "" {
		start = first.Format(ledger.DateLayout)
	}
	if end == "" {
		end = first.AddDate(0, 1, -1).Format(ledger.DateLayout)
	}
	return start, end
}

func printSummary(w io.Writer, start, end string, s report.Summary) {
	title := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	title.Fprintf(w, "Fluxo de caixa %s a %s\n\n", start, end)
	green.Fprintf(w, "Receitas: %s\n", ledger.FormatBRL(s.TotalIncome))
	red.Fprintf(w, "Despesas: %s\n", ledger.FormatBRL(s.TotalExpense))
	balance := green
	if s.Balance.IsNeg() {
		balance = red
	}
	balance.Fprintf(w, "Saldo:    %s\n", ledger.FormatBRL(s.Balance))

	if len(s.ByCategory) > 0 {
		title.Fprintln(w, "\nPor categoria")
		for _, t := range s.ByCategory {
			fmt.Fprintf(w, "  %-28s %s\n", t.Label, ledger.FormatBRL(t.Amount))
		}
	}
	if len(s.ExpensesByCategoryType) > 0 {
		title.Fprintln(w, "\nDespesas por tipo")
		for _, t := range s.ExpensesByCategoryType {
			fmt.Fprintf(w, "  %-28s %s\n", t.Label, ledger.FormatBRL(t.Amount))
		}
	}
}
