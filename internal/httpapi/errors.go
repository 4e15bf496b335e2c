package httpapi

import (
    "errors"
    "net/http"

    "github.com/tinoosan/fluxo/internal/cep"
    "github.com/tinoosan/fluxo/internal/errs"
    "github.com/tinoosan/fluxo/internal/ledger"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
    Error string `json:"error"`
    Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
    toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "bad_request") }
func notFound(w http.ResponseWriter, msg string)   { writeErr(w, http.StatusNotFound, msg, "not_found") }

// classify maps a domain error onto a status and machine code.
func classify(err error) (int, string) {
    switch {
    case errors.Is(err, errs.ErrInvalid):
        return http.StatusUnprocessableEntity, "validation_error"
    case errors.Is(err, errs.ErrConflict):
        return http.StatusConflict, "conflict"
    case errors.Is(err, errs.ErrReferenced):
        return http.StatusConflict, "referenced"
    case errors.Is(err, errs.ErrImmutable):
        return http.StatusConflict, "immutable"
    case errors.Is(err, errs.ErrNotFound), errors.Is(err, cep.ErrNotFound):
        return http.StatusNotFound, "not_found"
    case errors.Is(err, errs.ErrLookup):
        return http.StatusBadGateway, "lookup_unavailable"
    }
    return http.StatusInternalServerError, "persistence_error"
}

// writeError renders err; notFoundMsg replaces the bare sentinel text on 404.
func (s *Server) writeError(w http.ResponseWriter, err error, notFoundMsg string) {
    status, code := classify(err)
    msg := err.Error()
    if status == http.StatusNotFound && errors.Is(err, errs.ErrNotFound) && notFoundMsg != "" { msg = notFoundMsg }
    if status == http.StatusInternalServerError {
        s.log.Error("request failed", "err", err)
        msg = "Erro interno ao processar a requisição"
    }
    writeErr(w, status, msg, code)
}

// writeResult renders an operation result; created selects 201 on success.
func writeResult(w http.ResponseWriter, r ledger.Result, created bool) {
    if r.OK {
        status := http.StatusOK
        if created { status = http.StatusCreated }
        toJSON(w, status, r)
        return
    }
    status, code := classify(r.Err())
    writeErr(w, status, r.Message, code)
}
