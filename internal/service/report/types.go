package report

import (
    "encoding/json"

    "github.com/govalues/money"

    "github.com/tinoosan/fluxo/internal/ledger"
)

// Total is one labelled sum.
type Total struct {
    Label  string
    Amount money.Amount
}

func (t Total) MarshalJSON() ([]byte, error) {
    return json.Marshal(struct {
        Label string `json:"label"`
        Valor string `json:"valor"`
    }{t.Label, ledger.FormatAmount(t.Amount)})
}

// Totals keeps the order in which the buckets were produced.
type Totals []Total

// Get returns the amount of label, or zero.
func (ts Totals) Get(label string) money.Amount {
    for _, t := range ts {
        if t.Label == label { return t.Amount }
    }
    return ledger.Zero()
}

// Sum adds every amount.
func (ts Totals) Sum() money.Amount {
    total := ledger.Zero()
    for _, t := range ts { total = ledger.Sum(total, t.Amount) }
    return total
}

// Labels returns the labels in order.
func (ts Totals) Labels() []string {
    out := make([]string, len(ts))
    for i, t := range ts { out[i] = t.Label }
    return out
}

// Movement is the income, expense and net of one period: a day
// (YYYY-MM-DD), a month (YYYY-MM) or a year (YYYY).
type Movement struct {
    Period  string
    Income  money.Amount
    Expense money.Amount
    Net     money.Amount
}

func (m Movement) MarshalJSON() ([]byte, error) {
    return json.Marshal(struct {
        Period  string `json:"periodo"`
        Income  string `json:"entradas"`
        Expense string `json:"saidas"`
        Net     string `json:"saldo"`
    }{m.Period, ledger.FormatAmount(m.Income), ledger.FormatAmount(m.Expense), ledger.FormatAmount(m.Net)})
}

// Summary bundles the headline figures of a filter. Balance is always
// TotalIncome minus TotalExpense.
type Summary struct {
    TotalIncome            money.Amount
    TotalExpense           money.Amount
    Balance                money.Amount
    ByCategory             Totals
    ByType                 map[ledger.EntryType]money.Amount
    ExpensesByCategoryType Totals
}

func (s Summary) MarshalJSON() ([]byte, error) {
    byType := make(map[string]string, len(s.ByType))
    for t, a := range s.ByType { byType[string(t)] = ledger.FormatAmount(a) }
    return json.Marshal(struct {
        TotalIncome  string            `json:"total_receitas"`
        TotalExpense string            `json:"total_despesas"`
        Balance      string            `json:"saldo"`
        ByCategory   Totals            `json:"por_categoria"`
        ByType       map[string]string `json:"por_tipo"`
        Expenses     Totals            `json:"despesas_por_tipo_categoria"`
    }{ledger.FormatAmount(s.TotalIncome), ledger.FormatAmount(s.TotalExpense), ledger.FormatAmount(s.Balance),
        s.ByCategory, byType, s.ExpensesByCategoryType})
}

// Chart is the label/value pair list behind a bar chart, largest first.
type Chart struct {
    Labels []string       `json:"labels"`
    Values []money.Amount `json:"-"`
}

func (c Chart) MarshalJSON() ([]byte, error) {
    vals := make([]string, len(c.Values))
    for i, v := range c.Values { vals[i] = ledger.FormatAmount(v) }
    return json.Marshal(struct {
        Labels []string `json:"labels"`
        Values []string `json:"valores"`
    }{c.Labels, vals})
}
