package export

import (
	"context"
	"io"

	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/service/report"
)

// Ledger fetches the rows matching f and writes the entries workbook. An
// open-ended filter takes its summary range from the rows themselves.
func Ledger(ctx context.Context, reports report.Service, f ledger.Filter, w io.Writer) error {
	rows, err := reports.Rows(ctx, f)
	if err != nil {
		return err
	}
	var monthly, annual []report.Movement
	if start, end, ok := span(rows, f); ok {
		if monthly, err = reports.MonthlyMovement(ctx, start, end); err != nil {
			return err
		}
		if annual, err = reports.AnnualMovement(ctx, start, end); err != nil {
			return err
		}
	}
	return Entries(w, rows, monthly, annual)
}

func span(rows []ledger.EntryRow, f ledger.Filter) (string, string, bool) {
	start, end := f.Start, f.End
	for _, r := range rows {
		if f.Start == "" && (start == "" || r.Date < start) {
			start = r.Date
		}
		if f.End == "" && (end == "" || r.Date > end) {
			end = r.Date
		}
	}
	return start, end, start != "" && end != "" && start <= end
}
