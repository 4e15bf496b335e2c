package httpapi

import (
    "net/http"
    "strconv"
    "strings"
    "time"

    chi "github.com/go-chi/chi/v5"

    "github.com/tinoosan/fluxo/internal/ledger"
)

// count answers ?status= with CountByStatus and otherwise with the total.
func (s *Server) count(w http.ResponseWriter, r *http.Request, all func() (int64, error), by func(ledger.Status) (int64, error)) {
    status := strings.TrimSpace(r.URL.Query().Get("status"))
    var (
        n   int64
        err error
    )
    if status != "" {
        n, err = by(ledger.Status(status))
    } else {
        n, err = all()
    }
    if err != nil { s.writeError(w, err, ""); return }
    toJSON(w, http.StatusOK, countResponse{Status: status, Total: n})
}

// --- Clients ---

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
    q, err := listQuery(r)
    if err != nil { badRequest(w, err.Error()); return }
    cs, err := s.svc.Clients.List(r.Context(), q)
    if err != nil { s.writeError(w, err, ""); return }
    toJSON(w, http.StatusOK, cs)
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
    var req clientRequest
    if !decode(w, r, &req) { return }
    writeResult(w, s.svc.Clients.Create(r.Context(), req.domain()), true)
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    c, err := s.svc.Clients.Get(r.Context(), id)
    if err != nil { s.writeError(w, err, "Cliente não encontrado"); return }
    toJSON(w, http.StatusOK, c)
}

func (s *Server) getClientByDocument(w http.ResponseWriter, r *http.Request) {
    c, err := s.svc.Clients.GetByDocument(r.Context(), chi.URLParam(r, "doc"))
    if err != nil { s.writeError(w, err, "Cliente não encontrado"); return }
    toJSON(w, http.StatusOK, c)
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    var req clientRequest
    if !decode(w, r, &req) { return }
    writeResult(w, s.svc.Clients.Update(r.Context(), id, req.domain()), false)
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    writeResult(w, s.svc.Clients.SoftDelete(r.Context(), id), false)
}

func (s *Server) countClients(w http.ResponseWriter, r *http.Request) {
    ctx := r.Context()
    s.count(w, r, func() (int64, error) { return s.svc.Clients.Count(ctx) },
        func(st ledger.Status) (int64, error) { return s.svc.Clients.CountByStatus(ctx, st) })
}

// --- Suppliers ---

// listSuppliers searches by ?nome= when given, otherwise pages the registry.
func (s *Server) listSuppliers(w http.ResponseWriter, r *http.Request) {
    if name, ok := r.URL.Query()["nome"]; ok {
        ss, err := s.svc.Suppliers.SearchByName(r.Context(), strings.Join(name, " "))
        if err != nil { s.writeError(w, err, ""); return }
        toJSON(w, http.StatusOK, ss)
        return
    }
    q, err := listQuery(r)
    if err != nil { badRequest(w, err.Error()); return }
    ss, err := s.svc.Suppliers.List(r.Context(), q)
    if err != nil { s.writeError(w, err, ""); return }
    toJSON(w, http.StatusOK, ss)
}

func (s *Server) createSupplier(w http.ResponseWriter, r *http.Request) {
    var req supplierRequest
    if !decode(w, r, &req) { return }
    writeResult(w, s.svc.Suppliers.Create(r.Context(), req.domain()), true)
}

func (s *Server) getSupplier(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    sp, err := s.svc.Suppliers.Get(r.Context(), id)
    if err != nil { s.writeError(w, err, "Fornecedor não encontrado"); return }
    toJSON(w, http.StatusOK, sp)
}

func (s *Server) getSupplierByDocument(w http.ResponseWriter, r *http.Request) {
    sp, err := s.svc.Suppliers.GetByDocument(r.Context(), chi.URLParam(r, "doc"))
    if err != nil { s.writeError(w, err, "Fornecedor não encontrado"); return }
    toJSON(w, http.StatusOK, sp)
}

func (s *Server) updateSupplier(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    var req supplierRequest
    if !decode(w, r, &req) { return }
    writeResult(w, s.svc.Suppliers.Update(r.Context(), id, req.domain()), false)
}

func (s *Server) deleteSupplier(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    writeResult(w, s.svc.Suppliers.SoftDelete(r.Context(), id), false)
}

func (s *Server) activateSupplier(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    writeResult(w, s.svc.Suppliers.Activate(r.Context(), id), false)
}

func (s *Server) countSuppliers(w http.ResponseWriter, r *http.Request) {
    ctx := r.Context()
    s.count(w, r, func() (int64, error) { return s.svc.Suppliers.Count(ctx) },
        func(st ledger.Status) (int64, error) { return s.svc.Suppliers.CountByStatus(ctx, st) })
}

// --- Employees ---

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
    q, err := listQuery(r)
    if err != nil { badRequest(w, err.Error()); return }
    es, err := s.svc.Employees.List(r.Context(), q)
    if err != nil { s.writeError(w, err, ""); return }
    toJSON(w, http.StatusOK, es)
}

func (s *Server) createEmployee(w http.ResponseWriter, r *http.Request) {
    var req employeeRequest
    if !decode(w, r, &req) { return }
    writeResult(w, s.svc.Employees.Create(r.Context(), req.domain()), true)
}

func (s *Server) getEmployee(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    e, err := s.svc.Employees.Get(r.Context(), id)
    if err != nil { s.writeError(w, err, "Funcionário não encontrado"); return }
    toJSON(w, http.StatusOK, e)
}

func (s *Server) getEmployeeByDocument(w http.ResponseWriter, r *http.Request) {
    e, err := s.svc.Employees.GetByDocument(r.Context(), chi.URLParam(r, "doc"))
    if err != nil { s.writeError(w, err, "Funcionário não encontrado"); return }
    toJSON(w, http.StatusOK, e)
}

func (s *Server) updateEmployee(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    var req employeeRequest
    if !decode(w, r, &req) { return }
    writeResult(w, s.svc.Employees.Update(r.Context(), id, req.domain()), false)
}

func (s *Server) deleteEmployee(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    writeResult(w, s.svc.Employees.SoftDelete(r.Context(), id), false)
}

func (s *Server) countEmployees(w http.ResponseWriter, r *http.Request) {
    ctx := r.Context()
    s.count(w, r, func() (int64, error) { return s.svc.Employees.Count(ctx) },
        func(st ledger.Status) (int64, error) { return s.svc.Employees.CountByStatus(ctx, st) })
}

// payroll sums active salaries for ?ano=&mes=, defaulting to the current month.
func (s *Server) payroll(w http.ResponseWriter, r *http.Request) {
    now := time.Now().UTC()
    year, month := now.Year(), int(now.Month())
    if v := r.URL.Query().Get("ano"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil { badRequest(w, "ano inválido"); return }
        year = n
    }
    if v := r.URL.Query().Get("mes"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil { badRequest(w, "mes inválido"); return }
        month = n
    }
    total, err := s.svc.Employees.MonthlyPayroll(r.Context(), year, time.Month(month))
    if err != nil { s.writeError(w, err, ""); return }
    toJSON(w, http.StatusOK, amountResponse{Value: ledger.FormatAmount(total)})
}
