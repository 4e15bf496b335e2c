package httpapi

import (
    "bytes"
    "net/http"
    "strconv"

    "github.com/tinoosan/fluxo/internal/export"
    "github.com/tinoosan/fluxo/internal/ledger"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportLimit bounds registry exports; ListQuery pages otherwise.
const exportLimit = 100000

// sendWorkbook buffers the workbook so a late failure still yields a JSON error.
func (s *Server) sendWorkbook(w http.ResponseWriter, name string, build func(buf *bytes.Buffer) error) {
    var buf bytes.Buffer
    if err := build(&buf); err != nil { s.writeError(w, err, ""); return }
    w.Header().Set("Content-Type", xlsxType)
    w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
    w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(buf.Bytes())
}

func (s *Server) exportEntries(w http.ResponseWriter, r *http.Request) {
    f, err := filterFromQuery(r)
    if err != nil { s.writeError(w, err, ""); return }
    name := export.FileName("lancamentos", f.Start, f.End)
    s.sendWorkbook(w, name, func(buf *bytes.Buffer) error { return export.Ledger(r.Context(), s.svc.Reports, f, buf) })
}

func registryQuery(r *http.Request) ledger.ListQuery {
    q, err := listQuery(r)
    if err != nil { q = ledger.ListQuery{} }
    q.Limit, q.Offset = exportLimit, 0
    return q
}

func (s *Server) exportClients(w http.ResponseWriter, r *http.Request) {
    q := registryQuery(r)
    s.sendWorkbook(w, export.FileName("clientes", string(q.Status)), func(buf *bytes.Buffer) error {
        cs, err := s.svc.Clients.List(r.Context(), q)
        if err != nil { return err }
        return export.Clients(buf, cs)
    })
}

func (s *Server) exportSuppliers(w http.ResponseWriter, r *http.Request) {
    q := registryQuery(r)
    s.sendWorkbook(w, export.FileName("fornecedores", string(q.Status)), func(buf *bytes.Buffer) error {
        ss, err := s.svc.Suppliers.List(r.Context(), q)
        if err != nil { return err }
        return export.Suppliers(buf, ss)
    })
}

func (s *Server) exportEmployees(w http.ResponseWriter, r *http.Request) {
    q := registryQuery(r)
    s.sendWorkbook(w, export.FileName("funcionarios", string(q.Status)), func(buf *bytes.Buffer) error {
        es, err := s.svc.Employees.List(r.Context(), q)
        if err != nil { return err }
        return export.Employees(buf, es)
    })
}
