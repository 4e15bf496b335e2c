package sqlstore

import (
    "context"
    "strings"

    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/storage/gateway"
)

// AppendAudit inserts an audit record. There is deliberately no update or delete counterpart.
func (s *Store) AppendAudit(ctx context.Context, rec ledger.AuditRecord) (ledger.AuditRecord, error) {
    id, err := s.g.Insert(ctx, `INSERT INTO auditoria (tabela, operacao, registro_id, dados_anteriores, dados_novos, usuario, request_id, data_operacao)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
        string(rec.Table), string(rec.Operation), rec.RecordID, string(rec.Before), string(rec.After), rec.User, rec.RequestID, rec.At)
    if err != nil { return ledger.AuditRecord{}, err }
    rec.ID = id
    return rec, nil
}

// ListAudit returns matching records, newest first.
func (s *Store) ListAudit(ctx context.Context, q ledger.AuditQuery) ([]ledger.AuditRecord, error) {
    var b strings.Builder
    b.WriteString(`SELECT id, tabela, operacao, registro_id, dados_anteriores, dados_novos, usuario, request_id, data_operacao FROM auditoria WHERE 1=1`)
    args := make([]any, 0, 6)
    if q.Table != "" { b.WriteString(` AND tabela = ?`); args = append(args, string(q.Table)) }
    if q.RecordID > 0 { b.WriteString(` AND registro_id = ?`); args = append(args, q.RecordID) }
    if q.Operation != "" { b.WriteString(` AND operacao = ?`); args = append(args, string(q.Operation)) }
    if !q.Start.IsZero() { b.WriteString(` AND data_operacao >= ?`); args = append(args, q.Start) }
    if !q.End.IsZero() { b.WriteString(` AND data_operacao <= ?`); args = append(args, q.End) }
    limit := q.Limit
    if limit <= 0 { limit = ledger.DefaultListLimit }
    b.WriteString(` ORDER BY data_operacao DESC, id DESC LIMIT ?`)
    args = append(args, limit)
    out := make([]ledger.AuditRecord, 0)
    err := s.g.Query(ctx, b.String(), args, func(r gateway.Scanner) error {
        var rec ledger.AuditRecord
        var table, op, before, after string
        if err := r.Scan(&rec.ID, &table, &op, &rec.RecordID, &before, &after, &rec.User, &rec.RequestID, &rec.At); err != nil { return err }
        rec.Table, rec.Operation = ledger.Entity(table), ledger.Operation(op)
        if before != "" { rec.Before = []byte(before) }
        if after != "" { rec.After = []byte(after) }
        out = append(out, rec)
        return nil
    })
    return out, err
}
