package httpapi

import (
    "log/slog"
    "net/http"
    "runtime/debug"
    "strings"
    "time"

    chimw "github.com/go-chi/chi/v5/middleware"

    "github.com/tinoosan/fluxo/internal/audit"
)

// actorHeader names the caller when bearer authentication is off.
const actorHeader = "X-Usuario"

// requestLogger logs basic request info at INFO and panics at ERROR.
func requestLogger(l *slog.Logger) func(next http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()

            reqID := chimw.GetReqID(r.Context())
            l.Debug("request started", "req_id", reqID, "method", r.Method, "path", r.URL.Path)

            next.ServeHTTP(ww, r)

            l.Info("request complete",
                "req_id", reqID,
                "method", r.Method,
                "path", r.URL.Path,
                "status", ww.Status(),
                "bytes", ww.BytesWritten(),
                "duration", time.Since(start).String(),
            )
        })
    }
}

// recoverer logs panics as ERROR and returns 500.
func recoverer(l *slog.Logger) func(next http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            defer func() {
                if rec := recover(); rec != nil {
                    reqID := chimw.GetReqID(r.Context())
                    l.Error("panic", "req_id", reqID, "err", rec, "stack", string(debug.Stack()))
                    writeErr(w, http.StatusInternalServerError, "Erro interno ao processar a requisição", "internal_error")
                }
            }()
            next.ServeHTTP(w, r)
        })
    }
}

// auditContext copies the request id and, absent a token subject, the
// X-Usuario header into the context read by the audit trail.
func auditContext(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        ctx := audit.WithRequestID(r.Context(), chimw.GetReqID(r.Context()))
        if _, ok := subjectFrom(ctx); !ok {
            ctx = audit.WithActor(ctx, strings.TrimSpace(r.Header.Get(actorHeader)))
        }
        next.ServeHTTP(w, r.WithContext(ctx))
    })
}
