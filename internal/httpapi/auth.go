package httpapi

import (
    "context"
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"

    "github.com/tinoosan/fluxo/internal/audit"
    "github.com/tinoosan/fluxo/internal/config"
)

type ctxKey string

const ctxKeySubject ctxKey = "jwtSubject"

func parseBearerToken(r *http.Request) (string, bool) {
    h := r.Header.Get("Authorization")
    if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "Bearer ") { return "", false }
    tok := strings.TrimSpace(h[len("Bearer "):])
    return tok, tok != ""
}

func subjectFrom(ctx context.Context) (string, bool) {
    sub, ok := ctx.Value(ctxKeySubject).(string)
    return sub, ok && sub != ""
}

// authJWT enforces Authorization: Bearer <HS256 JWT> when a secret is
// configured, checking exp/nbf and the optional issuer and audience. The
// token subject becomes the audit actor. Returns nil when disabled.
func authJWT(cfg config.JWTConfig) func(http.Handler) http.Handler {
    if !cfg.Enabled() { return nil }
    opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
    if cfg.Issuer != "" { opts = append(opts, jwt.WithIssuer(cfg.Issuer)) }
    if cfg.Audience != "" { opts = append(opts, jwt.WithAudience(cfg.Audience)) }
    parser := jwt.NewParser(opts...)
    key := []byte(cfg.Secret)

    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            raw, ok := parseBearerToken(r)
            if !ok {
                writeErr(w, http.StatusUnauthorized, "Token de acesso ausente", "unauthorized")
                return
            }
            claims := &jwt.RegisteredClaims{}
            if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return key, nil }); err != nil {
                writeErr(w, http.StatusUnauthorized, "Token de acesso inválido", "unauthorized")
                return
            }
            ctx := r.Context()
            if claims.Subject != "" {
                ctx = context.WithValue(ctx, ctxKeySubject, claims.Subject)
                ctx = audit.WithActor(ctx, claims.Subject)
            }
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}
