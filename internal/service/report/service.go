// Package report aggregates the ledger for display and export. It is
// read-only over the store apart from the optional saldo_diario cache.
package report

import (
    "context"
    "fmt"
    "log/slog"
    "sort"
    "strings"
    "time"

    "github.com/govalues/money"

    "github.com/tinoosan/fluxo/internal/errs"
    "github.com/tinoosan/fluxo/internal/ledger"
)

// Placeholders for rows whose category or subcategory join found nothing.
const (
    NoCategory    = "Sem categoria"
    NoSubcategory = "Sem subcategoria"
    OtherExpenses = "Outras"
)

// MaxRangeDays bounds day-by-day movements.
const MaxRangeDays = 3660

// Repo defines the read operations needed by the service.
type Repo interface {
    EntryRows(ctx context.Context, f ledger.Filter) ([]ledger.EntryRow, error)
    TotalsByType(ctx context.Context, f ledger.Filter) (map[ledger.EntryType]money.Amount, error)
    SumAmounts(ctx context.Context, f ledger.Filter) (money.Amount, error)
    CategoryBuckets(ctx context.Context, f ledger.Filter) ([]ledger.Bucket, error)
    SubcategoryBuckets(ctx context.Context, f ledger.Filter) ([]ledger.Bucket, error)
    DailyTotals(ctx context.Context, start, end string) ([]ledger.DayTotal, error)
}

// Cache receives the computed daily balances.
type Cache interface {
    UpsertDailyBalance(ctx context.Context, b ledger.DailyBalance) error
}

type Service interface {
    Rows(ctx context.Context, f ledger.Filter) ([]ledger.EntryRow, error)
    TotalsByType(ctx context.Context, f ledger.Filter) (map[ledger.EntryType]money.Amount, error)
    TotalsByCategory(ctx context.Context, f ledger.Filter) (Totals, error)
    TotalsBySubcategory(ctx context.Context, f ledger.Filter) (Totals, error)
    ExpensesByCategoryType(ctx context.Context, f ledger.Filter) (Totals, error)
    DailyMovement(ctx context.Context, start, end string) ([]Movement, error)
    MonthlyMovement(ctx context.Context, start, end string) ([]Movement, error)
    AnnualMovement(ctx context.Context, start, end string) ([]Movement, error)
    TotalIncome(ctx context.Context, f ledger.Filter) (money.Amount, error)
    TotalExpense(ctx context.Context, f ledger.Filter) (money.Amount, error)
    Balance(ctx context.Context, f ledger.Filter) (money.Amount, error)
    Summary(ctx context.Context, f ledger.Filter) (Summary, error)
    ChartData(ctx context.Context, f ledger.Filter, bySubcategory bool) (Chart, error)
    GeneralReport(ctx context.Context, start, end string) (string, error)
    CacheDailyBalances(ctx context.Context, start, end string) (int, error)
}

type service struct {
    repo  Repo
    cache Cache
    log   *slog.Logger
    now   func() time.Time
}

// New builds the reporting service. cache may be nil, in which case
// CacheDailyBalances fails.
func New(repo Repo, cache Cache, logger *slog.Logger) Service {
    if logger == nil { logger = slog.Default() }
    return &service{repo: repo, cache: cache, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

// NormalizeExpenseCategory folds an expense category name onto the short
// labels used in summaries. Unknown names pass through unchanged.
func NormalizeExpenseCategory(name string) string {
    if name == "" { return OtherExpenses }
    lower := strings.ToLower(name)
    switch {
    case strings.Contains(lower, "vari"):
        return "Variável"
    case strings.Contains(lower, "fixa"):
        return "Fixa"
    case strings.Contains(lower, "pessoal"):
        return "Pessoal"
    }
    return name
}

func isExpenseCategory(b ledger.Bucket) bool {
    if b.CategoryType != "" { return b.CategoryType.EntryType() == ledger.EntryDespesa }
    return strings.Contains(strings.ToLower(b.Category), "despesa")
}

func (s *service) Rows(ctx context.Context, f ledger.Filter) ([]ledger.EntryRow, error) {
    if err := f.Validate(); err != nil { return nil, err }
    rows, err := s.repo.EntryRows(ctx, f)
    if err != nil { return nil, err }
    for i := range rows {
        r := &rows[i]
        if r.Type == ledger.EntryDespesa { r.Category = NormalizeExpenseCategory(r.Category) }
        r.Company = r.ClientName
        if r.Company == "" { r.Company = r.SupplierName }
    }
    return rows, nil
}

func (s *service) TotalsByType(ctx context.Context, f ledger.Filter) (map[ledger.EntryType]money.Amount, error) {
    if err := f.Validate(); err != nil { return nil, err }
    return s.repo.TotalsByType(ctx, f)
}

// group sums buckets under label(b), keeping the first-seen order, then sorts
// by amount descending. Ties keep that order.
func group(buckets []ledger.Bucket, label func(ledger.Bucket) string) Totals {
    out := make(Totals, 0, len(buckets))
    index := make(map[string]int, len(buckets))
    for _, b := range buckets {
        l := label(b)
        if i, ok := index[l]; ok {
            out[i].Amount = ledger.Sum(out[i].Amount, b.Amount)
            continue
        }
        index[l] = len(out)
        out = append(out, Total{Label: l, Amount: ledger.FromCents(ledger.Cents(b.Amount))})
    }
    sort.SliceStable(out, func(i, j int) bool { return ledger.Cents(out[i].Amount) > ledger.Cents(out[j].Amount) })
    return out
}

func categoryLabel(b ledger.Bucket) string {
    if b.Category == "" { return NoCategory }
    if isExpenseCategory(b) { return NormalizeExpenseCategory(b.Category) }
    return b.Category
}

func (s *service) TotalsByCategory(ctx context.Context, f ledger.Filter) (Totals, error) {
    if err := f.Validate(); err != nil { return nil, err }
    buckets, err := s.repo.CategoryBuckets(ctx, f)
    if err != nil { return nil, err }
    return group(buckets, categoryLabel), nil
}

func (s *service) TotalsBySubcategory(ctx context.Context, f ledger.Filter) (Totals, error) {
    if err := f.Validate(); err != nil { return nil, err }
    buckets, err := s.repo.SubcategoryBuckets(ctx, f)
    if err != nil { return nil, err }
    return group(buckets, func(b ledger.Bucket) string {
        if b.Subcategory == "" { return NoSubcategory }
        return b.Subcategory
    }), nil
}

func (s *service) ExpensesByCategoryType(ctx context.Context, f ledger.Filter) (Totals, error) {
    f.Type = ledger.EntryDespesa
    if err := f.Validate(); err != nil { return nil, err }
    buckets, err := s.repo.CategoryBuckets(ctx, f)
    if err != nil { return nil, err }
    return group(buckets, func(b ledger.Bucket) string { return NormalizeExpenseCategory(b.Category) }), nil
}

func (s *service) TotalIncome(ctx context.Context, f ledger.Filter) (money.Amount, error) {
    f.Type = ledger.EntryReceita
    if err := f.Validate(); err != nil { return ledger.Zero(), err }
    return s.repo.SumAmounts(ctx, f)
}

func (s *service) TotalExpense(ctx context.Context, f ledger.Filter) (money.Amount, error) {
    f.Type = ledger.EntryDespesa
    if err := f.Validate(); err != nil { return ledger.Zero(), err }
    return s.repo.SumAmounts(ctx, f)
}

// Balance is income minus expense under f; a type constraint in f is ignored.
func (s *service) Balance(ctx context.Context, f ledger.Filter) (money.Amount, error) {
    in, err := s.TotalIncome(ctx, f)
    if err != nil { return ledger.Zero(), err }
    out, err := s.TotalExpense(ctx, f)
    if err != nil { return ledger.Zero(), err }
    return net(in, out), nil
}

func net(in, out money.Amount) money.Amount {
    return ledger.FromCents(ledger.Cents(in) - ledger.Cents(out))
}

// Summary applies f to every figure: with f.Type set, the totals of the
// other type are zero and the balance is signed accordingly.
func (s *service) Summary(ctx context.Context, f ledger.Filter) (Summary, error) {
    if err := f.Validate(); err != nil { return Summary{}, err }
    sum := Summary{TotalIncome: ledger.Zero(), TotalExpense: ledger.Zero(), ExpensesByCategoryType: Totals{}}
    var err error
    if f.Type != ledger.EntryDespesa {
        if sum.TotalIncome, err = s.TotalIncome(ctx, f); err != nil { return Summary{}, err }
    }
    if f.Type != ledger.EntryReceita {
        if sum.TotalExpense, err = s.TotalExpense(ctx, f); err != nil { return Summary{}, err }
        if sum.ExpensesByCategoryType, err = s.ExpensesByCategoryType(ctx, f); err != nil { return Summary{}, err }
    }
    sum.Balance = net(sum.TotalIncome, sum.TotalExpense)
    if sum.ByCategory, err = s.TotalsByCategory(ctx, f); err != nil { return Summary{}, err }
    if sum.ByType, err = s.TotalsByType(ctx, f); err != nil { return Summary{}, err }
    return sum, nil
}

func (s *service) ChartData(ctx context.Context, f ledger.Filter, bySubcategory bool) (Chart, error) {
    var totals Totals
    var err error
    if bySubcategory {
        totals, err = s.TotalsBySubcategory(ctx, f)
    } else {
        totals, err = s.TotalsByCategory(ctx, f)
    }
    if err != nil { return Chart{}, err }
    c := Chart{Labels: totals.Labels(), Values: make([]money.Amount, len(totals))}
    for i, t := range totals { c.Values[i] = t.Amount }
    return c, nil
}

// GeneralReport renders the plain-text summary of a period.
func (s *service) GeneralReport(ctx context.Context, start, end string) (string, error) {
    sum, err := s.Summary(ctx, ledger.Filter{Start: start, End: end})
    if err != nil { return "", err }
    lines := []string{
        "RELATORIO GERAL DE FLUXO DE CAIXA",
        fmt.Sprintf("Periodo: %s a %s", start, end),
        "Total Receitas: R$ " + ledger.FormatAmount(sum.TotalIncome),
        "Total Despesas: R$ " + ledger.FormatAmount(sum.TotalExpense),
        "Saldo: R$ " + ledger.FormatAmount(sum.Balance),
    }
    return strings.Join(lines, "\n"), nil
}

// CacheDailyBalances writes the daily movement of [start, end] into the
// saldo_diario table and returns the number of days written.
func (s *service) CacheDailyBalances(ctx context.Context, start, end string) (int, error) {
    if s.cache == nil { return 0, errs.ErrPersistence }
    days, err := s.DailyMovement(ctx, start, end)
    if err != nil { return 0, err }
    at := s.now()
    for i, d := range days {
        b := ledger.DailyBalance{Date: d.Period, Income: d.Income, Expense: d.Expense, Net: d.Net, UpdatedAt: at}
        if err := s.cache.UpsertDailyBalance(ctx, b); err != nil { return i, err }
    }
    s.log.Info("daily balances cached", "start", start, "end", end, "days", len(days))
    return len(days), nil
}
