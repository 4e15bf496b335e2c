package ledger

import (
    "time"

    "github.com/tinoosan/fluxo/internal/errs"
)

// Filter is the conjunctive filter set shared by entry search and reports.
// Zero values mean "no constraint".
type Filter struct {
    Start         string
    End           string
    Type          EntryType
    CategoryID    int64
    SubcategoryID int64
    ClientID      int64
    SupplierID    int64
    EmployeeID    int64
    // Description matches as a case-insensitive substring.
    Description   string
}

// Validate checks the date bounds.
func (f Filter) Validate() error {
    if f.Start != "" && !ValidDate(f.Start) { return errInvalidDate("inicio") }
    if f.End != "" && !ValidDate(f.End) { return errInvalidDate("fim") }
    if f.Type != "" && !f.Type.Valid() { return errInvalidType }
    return nil
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD.
func ValidDate(s string) bool {
    if len(s) != len(DateLayout) { return false }
    _, err := time.Parse(DateLayout, s)
    return err == nil
}

var errInvalidType = errs.Invalid("Tipo inválido. Use Receita ou Despesa")

func errInvalidDate(field string) error {
    return errs.Invalid("Data de " + field + " inválida. Use formato YYYY-MM-DD")
}
