package sqlstore

import (
    "context"
    "database/sql"

    "github.com/govalues/money"

    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/storage/gateway"
)

const sumValor = `CAST(COALESCE(SUM(l.valor), 0) AS BIGINT)`

// EntryRows returns the joined view of the entries matching f. Names missing
// from the joins come back empty.
func (s *Store) EntryRows(ctx context.Context, f ledger.Filter) ([]ledger.EntryRow, error) {
    w, args := where(f)
    q := `SELECT l.id, l.data, l.tipo, COALESCE(c.nome, ''), COALESCE(c.tipo, ''), COALESCE(sc.nome, ''), l.descricao, l.valor,
            l.banco, l.nota_fiscal, l.observacao, COALESCE(cl.nome, ''), COALESCE(fo.nome, '')
        FROM lancamentos l
        LEFT JOIN categorias c ON l.categoria_id = c.id
        LEFT JOIN subcategorias sc ON l.subcategoria_id = sc.id
        LEFT JOIN clientes cl ON l.cliente_id = cl.id
        LEFT JOIN fornecedores fo ON l.fornecedor_id = fo.id` + w + `
        ORDER BY l.data DESC, l.id DESC`
    out := make([]ledger.EntryRow, 0)
    err := s.g.Query(ctx, q, args, func(r gateway.Scanner) error {
        var row ledger.EntryRow
        var tipo, catType string
        var cents int64
        if err := r.Scan(&row.ID, &row.Date, &tipo, &row.Category, &catType, &row.Subcategory, &row.Description, &cents,
            &row.Bank, &row.Invoice, &row.Note, &row.ClientName, &row.SupplierName); err != nil {
            return err
        }
        row.Type, row.CategoryType, row.Amount = ledger.EntryType(tipo), ledger.CategoryType(catType), ledger.FromCents(cents)
        out = append(out, row)
        return nil
    })
    return out, err
}

// TotalsByType sums amounts per entry type; types without entries are absent.
func (s *Store) TotalsByType(ctx context.Context, f ledger.Filter) (map[ledger.EntryType]money.Amount, error) {
    w, args := where(f)
    out := make(map[ledger.EntryType]money.Amount)
    err := s.g.Query(ctx, `SELECT l.tipo, `+sumValor+` FROM lancamentos l`+w+` GROUP BY l.tipo`, args, func(r gateway.Scanner) error {
        var tipo string
        var cents int64
        if err := r.Scan(&tipo, &cents); err != nil { return err }
        out[ledger.EntryType(tipo)] = ledger.FromCents(cents)
        return nil
    })
    return out, err
}

// SumAmounts totals the amounts matching f.
func (s *Store) SumAmounts(ctx context.Context, f ledger.Filter) (money.Amount, error) {
    w, args := where(f)
    cents, err := s.count(ctx, `SELECT `+sumValor+` FROM lancamentos l`+w, args...)
    if err != nil { return ledger.Zero(), err }
    return ledger.FromCents(cents), nil
}

// CategoryBuckets sums amounts per category, largest first.
func (s *Store) CategoryBuckets(ctx context.Context, f ledger.Filter) ([]ledger.Bucket, error) {
    w, args := where(f)
    q := `SELECT c.id, c.nome, c.tipo, ` + sumValor + ` AS total
        FROM lancamentos l
        LEFT JOIN categorias c ON l.categoria_id = c.id` + w + `
        GROUP BY c.id, c.nome, c.tipo
        ORDER BY total DESC`
    return s.buckets(ctx, q, args, false)
}

// SubcategoryBuckets sums amounts per subcategory, largest first.
func (s *Store) SubcategoryBuckets(ctx context.Context, f ledger.Filter) ([]ledger.Bucket, error) {
    w, args := where(f)
    q := `SELECT c.id, c.nome, c.tipo, sc.nome, ` + sumValor + ` AS total
        FROM lancamentos l
        LEFT JOIN subcategorias sc ON l.subcategoria_id = sc.id
        LEFT JOIN categorias c ON l.categoria_id = c.id` + w + `
        GROUP BY sc.id, sc.nome, c.id, c.nome, c.tipo
        ORDER BY total DESC`
    return s.buckets(ctx, q, args, true)
}

func (s *Store) buckets(ctx context.Context, q string, args []any, withSub bool) ([]ledger.Bucket, error) {
    out := make([]ledger.Bucket, 0)
    err := s.g.Query(ctx, q, args, func(r gateway.Scanner) error {
        var catID sql.NullInt64
        var cat, catType, sub sql.NullString
        var cents int64
        dest := []any{&catID, &cat, &catType}
        if withSub { dest = append(dest, &sub) }
        dest = append(dest, &cents)
        if err := r.Scan(dest...); err != nil { return err }
        out = append(out, ledger.Bucket{
            CategoryID:   catID.Int64,
            Category:     cat.String,
            CategoryType: ledger.CategoryType(catType.String),
            Subcategory:  sub.String,
            Amount:       ledger.FromCents(cents),
        })
        return nil
    })
    return out, err
}

// DailyTotals returns income and expense per day that has entries in [start, end].
func (s *Store) DailyTotals(ctx context.Context, start, end string) ([]ledger.DayTotal, error) {
    q := `SELECT l.data,
            CAST(COALESCE(SUM(CASE WHEN l.tipo = ? THEN l.valor ELSE 0 END), 0) AS BIGINT),
            CAST(COALESCE(SUM(CASE WHEN l.tipo = ? THEN l.valor ELSE 0 END), 0) AS BIGINT)
        FROM lancamentos l
        WHERE l.data >= ? AND l.data <= ?
        GROUP BY l.data
        ORDER BY l.data`
    args := []any{string(ledger.EntryReceita), string(ledger.EntryDespesa), start, end}
    out := make([]ledger.DayTotal, 0)
    err := s.g.Query(ctx, q, args, func(r gateway.Scanner) error {
        var d ledger.DayTotal
        var in, outc int64
        if err := r.Scan(&d.Date, &in, &outc); err != nil { return err }
        d.Income, d.Expense = ledger.FromCents(in), ledger.FromCents(outc)
        out = append(out, d)
        return nil
    })
    return out, err
}

// UpsertDailyBalance writes one row of the saldo_diario cache.
func (s *Store) UpsertDailyBalance(ctx context.Context, b ledger.DailyBalance) error {
    _, err := s.g.Update(ctx, `INSERT INTO saldo_diario (data, saldo_entrada, saldo_saida, saldo_liquido, data_atualizacao)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (data) DO UPDATE SET saldo_entrada = excluded.saldo_entrada, saldo_saida = excluded.saldo_saida,
            saldo_liquido = excluded.saldo_liquido, data_atualizacao = excluded.data_atualizacao`,
        b.Date, ledger.Cents(b.Income), ledger.Cents(b.Expense), ledger.Cents(b.Net), b.UpdatedAt)
    return err
}
