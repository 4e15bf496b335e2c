package sqlstore

import (
    "context"

    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/storage/gateway"
)

const entryCols = `l.id, l.data, l.tipo, l.categoria_id, l.subcategoria_id, l.valor, l.descricao,
    l.cliente_id, l.fornecedor_id, l.funcionario_id, l.banco, l.nota_fiscal, l.comprovante, l.observacao,
    l.criado_em, l.atualizado_em`

func scanEntry(r gateway.Scanner, e *ledger.Entry) error {
    var tipo string
    var cents int64
    if err := r.Scan(&e.ID, &e.Date, &tipo, &e.CategoryID, &e.SubcategoryID, &cents, &e.Description,
        &e.ClientID, &e.SupplierID, &e.EmployeeID, &e.Bank, &e.Invoice, &e.Receipt, &e.Note,
        &e.CreatedAt, &e.UpdatedAt); err != nil {
        return err
    }
    e.Type, e.Amount = ledger.EntryType(tipo), ledger.FromCents(cents)
    return nil
}

func entryArgs(e ledger.Entry) []any {
    return []any{e.Date, string(e.Type), e.CategoryID, e.SubcategoryID, ledger.Cents(e.Amount), e.Description,
        nullID(e.ClientID), nullID(e.SupplierID), nullID(e.EmployeeID), e.Bank, e.Invoice, e.Receipt, e.Note}
}

func (s *Store) CreateEntry(ctx context.Context, e ledger.Entry) (ledger.Entry, error) {
    args := append(entryArgs(e), e.CreatedAt, e.UpdatedAt)
    id, err := s.g.Insert(ctx, `INSERT INTO lancamentos (data, tipo, categoria_id, subcategoria_id, valor, descricao,
        cliente_id, fornecedor_id, funcionario_id, banco, nota_fiscal, comprovante, observacao, criado_em, atualizado_em)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
    if err != nil { return ledger.Entry{}, err }
    e.ID = id
    return e, nil
}

func (s *Store) GetEntry(ctx context.Context, id int64) (ledger.Entry, error) {
    var e ledger.Entry
    err := s.one(ctx, `SELECT `+entryCols+` FROM lancamentos l WHERE l.id = ?`, []any{id}, func(r gateway.Scanner) error {
        return scanEntry(r, &e)
    })
    return e, err
}

// ListEntries returns the entries matching f, newest date first then newest id.
func (s *Store) ListEntries(ctx context.Context, f ledger.Filter) ([]ledger.Entry, error) {
    w, args := where(f)
    out := make([]ledger.Entry, 0)
    err := s.g.Query(ctx, `SELECT `+entryCols+` FROM lancamentos l`+w+` ORDER BY l.data DESC, l.id DESC`, args, func(r gateway.Scanner) error {
        var e ledger.Entry
        if err := scanEntry(r, &e); err != nil { return err }
        out = append(out, e)
        return nil
    })
    return out, err
}

// UpdateEntry overwrites every mutable column; criado_em is left untouched.
func (s *Store) UpdateEntry(ctx context.Context, e ledger.Entry) (ledger.Entry, error) {
    args := append(entryArgs(e), e.UpdatedAt, e.ID)
    err := affected(s.g.Update(ctx, `UPDATE lancamentos SET data = ?, tipo = ?, categoria_id = ?, subcategoria_id = ?, valor = ?, descricao = ?,
        cliente_id = ?, fornecedor_id = ?, funcionario_id = ?, banco = ?, nota_fiscal = ?, comprovante = ?, observacao = ?,
        atualizado_em = ? WHERE id = ?`, args...))
    if err != nil { return ledger.Entry{}, err }
    return e, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
    return affected(s.g.Delete(ctx, `DELETE FROM lancamentos WHERE id = ?`, id))
}
