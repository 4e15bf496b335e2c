package httpapi

import (
    "net/http"

    "github.com/tinoosan/fluxo/internal/ledger"
)

// listEntries applies the query filter; no parameters lists everything.
func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
    f, err := filterFromQuery(r)
    if err != nil { s.writeError(w, err, ""); return }
    var entries []ledger.Entry
    if f == (ledger.Filter{}) {
        entries, err = s.svc.Entries.ListAll(r.Context())
    } else {
        entries, err = s.svc.Entries.Search(r.Context(), f)
    }
    if err != nil { s.writeError(w, err, ""); return }
    toJSON(w, http.StatusOK, entries)
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
    var req entryRequest
    if !decode(w, r, &req) { return }
    writeResult(w, s.svc.Entries.Create(r.Context(), req.domain()), true)
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    e, err := s.svc.Entries.Get(r.Context(), id)
    if err != nil { s.writeError(w, err, "Lançamento não encontrado"); return }
    toJSON(w, http.StatusOK, e)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    var req entryRequest
    if !decode(w, r, &req) { return }
    writeResult(w, s.svc.Entries.Update(r.Context(), id, req.domain()), false)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    writeResult(w, s.svc.Entries.Delete(r.Context(), id), false)
}
