package ledger

import (
    "time"

    "github.com/govalues/money"
)

// DefaultListLimit caps party listings when no limit is given.
const DefaultListLimit = 100

// ListQuery pages a party registry, newest first. An empty Status lists every record.
type ListQuery struct {
    Status Status
    Limit  int
    Offset int
}

// Normalize applies the default limit and clamps negative offsets.
func (q ListQuery) Normalize() ListQuery {
    if q.Limit <= 0 { q.Limit = DefaultListLimit }
    if q.Offset < 0 { q.Offset = 0 }
    return q
}

// AuditQuery filters the audit trail. Zero values match everything.
type AuditQuery struct {
    Table     Entity
    RecordID  int64
    Operation Operation
    Start     time.Time
    End       time.Time
    Limit     int
}

// Bucket is one aggregated group of entry amounts. Subcategory is empty for
// category-level groups; names are empty when the join found no row.
type Bucket struct {
    CategoryID   int64
    Category     string
    CategoryType CategoryType
    Subcategory  string
    Amount       money.Amount
}

// DayTotal holds the income and expense sums of one calendar day.
type DayTotal struct {
    Date    string
    Income  money.Amount
    Expense money.Amount
}

// Net is income minus expense.
func (d DayTotal) Net() money.Amount {
    n, err := d.Income.Sub(d.Expense)
    if err != nil { return Zero() }
    return n
}

// DailyBalance is a row of the saldo_diario cache.
type DailyBalance struct {
    Date      string
    Income    money.Amount
    Expense   money.Amount
    Net       money.Amount
    UpdatedAt time.Time
}
