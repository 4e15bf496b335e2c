package httpapi

import (
    "net/http"
    "strconv"
    "strings"
    "time"

    chi "github.com/go-chi/chi/v5"

    "github.com/tinoosan/fluxo/internal/errs"
    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/service/report"
)

// withFilter parses the shared report filter and hands it to fn.
func (s *Server) withFilter(fn func(w http.ResponseWriter, r *http.Request, f ledger.Filter)) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        f, err := filterFromQuery(r)
        if err != nil { s.writeError(w, err, ""); return }
        fn(w, r, f)
    }
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
    s.withFilter(func(w http.ResponseWriter, r *http.Request, f ledger.Filter) {
        sum, err := s.svc.Reports.Summary(r.Context(), f)
        if err != nil { s.writeError(w, err, ""); return }
        toJSON(w, http.StatusOK, sum)
    })(w, r)
}

func (s *Server) reportRows(w http.ResponseWriter, r *http.Request) {
    s.withFilter(func(w http.ResponseWriter, r *http.Request, f ledger.Filter) {
        rows, err := s.svc.Reports.Rows(r.Context(), f)
        if err != nil { s.writeError(w, err, ""); return }
        toJSON(w, http.StatusOK, rows)
    })(w, r)
}

// balance answers receitas, despesas and saldo for the filter.
func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
    s.withFilter(func(w http.ResponseWriter, r *http.Request, f ledger.Filter) {
        in, err := s.svc.Reports.TotalIncome(r.Context(), f)
        if err != nil { s.writeError(w, err, ""); return }
        out, err := s.svc.Reports.TotalExpense(r.Context(), f)
        if err != nil { s.writeError(w, err, ""); return }
        bal, err := s.svc.Reports.Balance(r.Context(), f)
        if err != nil { s.writeError(w, err, ""); return }
        toJSON(w, http.StatusOK, map[string]string{
            "receitas": ledger.FormatAmount(in),
            "despesas": ledger.FormatAmount(out),
            "saldo":    ledger.FormatAmount(bal),
        })
    })(w, r)
}

func (s *Server) totalsByType(w http.ResponseWriter, r *http.Request) {
    s.withFilter(func(w http.ResponseWriter, r *http.Request, f ledger.Filter) {
        byType, err := s.svc.Reports.TotalsByType(r.Context(), f)
        if err != nil { s.writeError(w, err, ""); return }
        out := make(map[string]string, len(byType))
        for t, a := range byType { out[string(t)] = ledger.FormatAmount(a) }
        toJSON(w, http.StatusOK, out)
    })(w, r)
}

func (s *Server) writeTotals(w http.ResponseWriter, ts report.Totals, err error) {
    if err != nil { s.writeError(w, err, ""); return }
    if ts == nil { ts = report.Totals{} }
    toJSON(w, http.StatusOK, ts)
}

func (s *Server) totalsByCategory(w http.ResponseWriter, r *http.Request) {
    s.withFilter(func(w http.ResponseWriter, r *http.Request, f ledger.Filter) {
        ts, err := s.svc.Reports.TotalsByCategory(r.Context(), f)
        s.writeTotals(w, ts, err)
    })(w, r)
}

func (s *Server) totalsBySubcategory(w http.ResponseWriter, r *http.Request) {
    s.withFilter(func(w http.ResponseWriter, r *http.Request, f ledger.Filter) {
        ts, err := s.svc.Reports.TotalsBySubcategory(r.Context(), f)
        s.writeTotals(w, ts, err)
    })(w, r)
}

func (s *Server) expensesByCategoryType(w http.ResponseWriter, r *http.Request) {
    s.withFilter(func(w http.ResponseWriter, r *http.Request, f ledger.Filter) {
        ts, err := s.svc.Reports.ExpensesByCategoryType(r.Context(), f)
        s.writeTotals(w, ts, err)
    })(w, r)
}

// chart answers ?por=subcategoria with subcategory bars, category bars otherwise.
func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
    s.withFilter(func(w http.ResponseWriter, r *http.Request, f ledger.Filter) {
        bySub := strings.EqualFold(r.URL.Query().Get("por"), "subcategoria")
        c, err := s.svc.Reports.ChartData(r.Context(), f, bySub)
        if err != nil { s.writeError(w, err, ""); return }
        if c.Labels == nil { c.Labels = []string{} }
        toJSON(w, http.StatusOK, c)
    })(w, r)
}

// dateRange reads inicio/fim, defaulting to the current month.
func dateRange(r *http.Request) (string, string) {
    now := time.Now().UTC()
    first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
    start, end := strings.TrimSpace(r.URL.Query().Get("inicio")), strings.TrimSpace(r.URL.Query().Get("fim"))
    if start == "" { start = first.Format(ledger.DateLayout) }
    if end == "" { end = first.AddDate(0, 1, -1).Format(ledger.DateLayout) }
    return start, end
}

func (s *Server) generalReport(w http.ResponseWriter, r *http.Request) {
    start, end := dateRange(r)
    text, err := s.svc.Reports.GeneralReport(r.Context(), start, end)
    if err != nil { s.writeError(w, err, ""); return }
    w.Header().Set("Content-Type", "text/plain; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write([]byte(text))
}

// movement serves /movimento/{diario|mensal|anual}.
func (s *Server) movement(w http.ResponseWriter, r *http.Request) {
    start, end := dateRange(r)
    var fn func() ([]report.Movement, error)
    switch chi.URLParam(r, "periodo") {
    case "diario":
        fn = func() ([]report.Movement, error) { return s.svc.Reports.DailyMovement(r.Context(), start, end) }
    case "mensal":
        fn = func() ([]report.Movement, error) { return s.svc.Reports.MonthlyMovement(r.Context(), start, end) }
    case "anual":
        fn = func() ([]report.Movement, error) { return s.svc.Reports.AnnualMovement(r.Context(), start, end) }
    default:
        notFound(w, "Período deve ser diario, mensal ou anual")
        return
    }
    ms, err := fn()
    if err != nil { s.writeError(w, err, ""); return }
    toJSON(w, http.StatusOK, ms)
}

func (s *Server) cacheDailyBalances(w http.ResponseWriter, r *http.Request) {
    start, end := dateRange(r)
    n, err := s.svc.Reports.CacheDailyBalances(r.Context(), start, end)
    if err != nil { s.writeError(w, err, ""); return }
    toJSON(w, http.StatusOK, ledger.Succeeded(0, pluralDays(n)))
}

func pluralDays(n int) string {
    if n == 1 { return "1 dia atualizado no saldo diário" }
    return strconv.Itoa(n) + " dias atualizados no saldo diário"
}

// listAudit filters by tabela, registro_id, operacao, inicio, fim and limite.
func (s *Server) listAudit(w http.ResponseWriter, r *http.Request) {
    if s.svc.Audit == nil { toJSON(w, http.StatusOK, []ledger.AuditRecord{}); return }
    qv := r.URL.Query()
    q := ledger.AuditQuery{Table: ledger.Entity(strings.TrimSpace(qv.Get("tabela")))}
    if q.Table != "" && !q.Table.Valid() { s.writeError(w, errs.Invalid("Tabela inválida"), ""); return }
    if op := strings.ToUpper(strings.TrimSpace(qv.Get("operacao"))); op != "" {
        q.Operation = ledger.Operation(op)
        if q.Operation != ledger.OpInsert && q.Operation != ledger.OpUpdate && q.Operation != ledger.OpDelete {
            s.writeError(w, errs.Invalid("Operação inválida"), "")
            return
        }
    }
    id, err := queryInt(r, "registro_id")
    if err != nil { badRequest(w, err.Error()); return }
    limit, err := queryInt(r, "limite")
    if err != nil { badRequest(w, err.Error()); return }
    q.RecordID, q.Limit = id, int(limit)
    for _, p := range []struct {
        key string
        dst *time.Time
        end bool
    }{{"inicio", &q.Start, false}, {"fim", &q.End, true}} {
        raw := strings.TrimSpace(qv.Get(p.key))
        if raw == "" { continue }
        t, err := time.Parse(ledger.DateLayout, raw)
        if err != nil { s.writeError(w, errs.Invalid("Data de "+p.key+" inválida. Use formato YYYY-MM-DD"), ""); return }
        if p.end { t = t.AddDate(0, 0, 1).Add(-time.Nanosecond) }
        *p.dst = t
    }
    recs, err := s.svc.Audit.List(r.Context(), q)
    if err != nil { s.writeError(w, err, ""); return }
    if recs == nil { recs = []ledger.AuditRecord{} }
    toJSON(w, http.StatusOK, recs)
}
