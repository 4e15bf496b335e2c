package report

import (
    "context"
    "time"

    "github.com/tinoosan/fluxo/internal/errs"
    "github.com/tinoosan/fluxo/internal/ledger"
)

func parseRange(start, end string) (time.Time, time.Time, error) {
    from, err := time.Parse(ledger.DateLayout, start)
    if err != nil || !ledger.ValidDate(start) { return time.Time{}, time.Time{}, errs.Invalid("Data de inicio inválida. Use formato YYYY-MM-DD") }
    to, err := time.Parse(ledger.DateLayout, end)
    if err != nil || !ledger.ValidDate(end) { return time.Time{}, time.Time{}, errs.Invalid("Data de fim inválida. Use formato YYYY-MM-DD") }
    if to.Before(from) { return time.Time{}, time.Time{}, errs.Invalid("Data de fim anterior à data de inicio") }
    if to.Sub(from) > MaxRangeDays*24*time.Hour { return time.Time{}, time.Time{}, errs.Invalid("Período muito longo") }
    return from, to, nil
}

// DailyMovement returns one movement per calendar day in the closed range,
// days without entries included with zero amounts.
func (s *service) DailyMovement(ctx context.Context, start, end string) ([]Movement, error) {
    from, to, err := parseRange(start, end)
    if err != nil { return nil, err }
    totals, err := s.repo.DailyTotals(ctx, start, end)
    if err != nil { return nil, err }
    byDay := make(map[string]ledger.DayTotal, len(totals))
    for _, t := range totals { byDay[t.Date] = t }

    out := make([]Movement, 0, int(to.Sub(from).Hours()/24)+1)
    for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
        key := d.Format(ledger.DateLayout)
        m := Movement{Period: key, Income: ledger.Zero(), Expense: ledger.Zero(), Net: ledger.Zero()}
        if t, ok := byDay[key]; ok { m.Income, m.Expense, m.Net = t.Income, t.Expense, t.Net() }
        out = append(out, m)
    }
    return out, nil
}

// MonthlyMovement rolls the daily movement up by YYYY-MM.
func (s *service) MonthlyMovement(ctx context.Context, start, end string) ([]Movement, error) {
    return s.rollup(ctx, start, end, len("2006-01"))
}

// AnnualMovement rolls the daily movement up by YYYY.
func (s *service) AnnualMovement(ctx context.Context, start, end string) ([]Movement, error) {
    return s.rollup(ctx, start, end, len("2006"))
}

func (s *service) rollup(ctx context.Context, start, end string, keyLen int) ([]Movement, error) {
    days, err := s.DailyMovement(ctx, start, end)
    if err != nil { return nil, err }
    out := make([]Movement, 0)
    for _, d := range days {
        key := d.Period[:keyLen]
        if n := len(out); n > 0 && out[n-1].Period == key {
            last := &out[n-1]
            last.Income = ledger.Sum(last.Income, d.Income)
            last.Expense = ledger.Sum(last.Expense, d.Expense)
            last.Net = net(last.Income, last.Expense)
            continue
        }
        out = append(out, Movement{Period: key, Income: d.Income, Expense: d.Expense, Net: d.Net})
    }
    return out, nil
}
