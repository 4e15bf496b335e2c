package httpapi

import (
    "context"
    "net/http"
    "time"

    chi "github.com/go-chi/chi/v5"

    "github.com/tinoosan/fluxo/internal/brdoc"
    "github.com/tinoosan/fluxo/internal/cep"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
    if s.svc.Ready == nil { w.WriteHeader(http.StatusOK); return }
    ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
    defer cancel()
    if err := s.svc.Ready.Ready(ctx); err != nil {
        s.log.Warn("readiness check failed", "err", err)
        w.WriteHeader(http.StatusServiceUnavailable)
        return
    }
    w.WriteHeader(http.StatusOK)
}

// lookupCEP resolves a postal code without blocking past the request deadline.
func (s *Server) lookupCEP(w http.ResponseWriter, r *http.Request) {
    if s.svc.CEP == nil {
        writeErr(w, http.StatusServiceUnavailable, "Consulta de CEP não configurada", "lookup_unavailable")
        return
    }
    code := brdoc.Digits(chi.URLParam(r, "cep"))
    if len(code) != 8 { writeErr(w, http.StatusUnprocessableEntity, "CEP deve ter 8 dígitos", "validation_error"); return }
    out, ok := <-cep.Async(r.Context(), s.svc.CEP, code)
    if !ok { return }
    if out.Err != nil { s.writeError(w, out.Err, ""); return }
    out.Address.PostalCode = code
    toJSON(w, http.StatusOK, out.Address)
}
