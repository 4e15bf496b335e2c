package sqlstore

import (
    "strings"

    "github.com/tinoosan/fluxo/internal/ledger"
)

// where builds the conjunctive predicate for f over the entries alias "l".
// It always starts with "WHERE 1=1" so callers can append further clauses.
func where(f ledger.Filter) (string, []any) {
    var b strings.Builder
    b.WriteString(" WHERE 1=1")
    args := make([]any, 0, 8)
    add := func(clause string, v any) {
        b.WriteString(" AND ")
        b.WriteString(clause)
        args = append(args, v)
    }
    if f.Start != "" { add("l.data >= ?", f.Start) }
    if f.End != "" { add("l.data <= ?", f.End) }
    if f.Type != "" { add("l.tipo = ?", string(f.Type)) }
    if f.CategoryID > 0 { add("l.categoria_id = ?", f.CategoryID) }
    if f.SubcategoryID > 0 { add("l.subcategoria_id = ?", f.SubcategoryID) }
    if f.ClientID > 0 { add("l.cliente_id = ?", f.ClientID) }
    if f.SupplierID > 0 { add("l.fornecedor_id = ?", f.SupplierID) }
    if f.EmployeeID > 0 { add("l.funcionario_id = ?", f.EmployeeID) }
    if d := strings.TrimSpace(f.Description); d != "" { add(`LOWER(l.descricao) LIKE ? ESCAPE '\'`, contains(d)) }
    return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains builds a case-folded LIKE pattern matching fragment literally;
// the clause using it must declare ESCAPE '\'.
func contains(fragment string) string {
    return "%" + likeEscaper.Replace(strings.ToLower(fragment)) + "%"
}
