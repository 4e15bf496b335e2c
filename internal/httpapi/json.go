package httpapi

import (
    "encoding/json"
    "errors"
    "io"
    "net/http"
    "strings"
)

const maxBody = 1 << 20

// toJSON writes a JSON response with status code.
func toJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

// requireJSON ensures the request has Content-Type application/json (optionally with params).
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
    ct := r.Header.Get("Content-Type")
    mime := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
    if mime != "application/json" {
        writeErr(w, http.StatusUnsupportedMediaType, "Content-Type deve ser application/json", "unsupported_media_type")
        return false
    }
    return true
}

// decode reads a single JSON object into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
    if !requireJSON(w, r) { return false }
    dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
    dec.DisallowUnknownFields()
    if err := dec.Decode(v); err != nil {
        badRequest(w, "JSON inválido: "+err.Error())
        return false
    }
    if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
        badRequest(w, "JSON inválido: corpo com mais de um objeto")
        return false
    }
    return true
}
