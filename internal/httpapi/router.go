// Package httpapi wires the HTTP surface of the cash-flow service.
// It keeps handlers thin, delegating business rules to the service layer.
package httpapi

import (
    "log/slog"
    "net/http"

    chi "github.com/go-chi/chi/v5"
    chimw "github.com/go-chi/chi/v5/middleware"

    "github.com/tinoosan/fluxo/internal/config"
)

// Server wires handlers and middleware using Chi.
type Server struct {
    svc Services
    jwt config.JWTConfig
    log *slog.Logger
    rt  *chi.Mux
}

// New constructs the HTTP server with routes and middleware. Bearer
// authentication is enforced only when jwt carries a secret.
func New(svc Services, jwt config.JWTConfig, logger *slog.Logger) *Server {
    if logger == nil { logger = slog.Default() }
    r := chi.NewRouter()
    r.Use(chimw.RequestID)
    r.Use(requestLogger(logger))
    r.Use(recoverer(logger))
    r.Use(metricsMiddleware)

    s := &Server{svc: svc, jwt: jwt, rt: r, log: logger}
    s.routes()
    return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints.
func (s *Server) routes() {
    // Unversioned, never authenticated
    s.rt.Get("/healthz", s.healthz)
    s.rt.Get("/readyz", s.readyz)
    s.rt.Handle("/metrics", metricsHandler())

    s.rt.Route("/v1", func(r chi.Router) {
        if auth := authJWT(s.jwt); auth != nil { r.Use(auth) }
        r.Use(auditContext)

        r.Route("/categorias", func(r chi.Router) {
            r.Get("/", s.listCategories)
            r.Post("/", s.createCategory)
            r.Get("/arvore", s.categoryTree)
            r.Get("/{id}", s.getCategory)
            r.Patch("/{id}", s.updateCategory)
            r.Delete("/{id}", s.deleteCategory)
            r.Post("/{id}/ativar", s.setCategoryActive(true))
            r.Post("/{id}/desativar", s.setCategoryActive(false))
            r.Get("/{id}/subcategorias", s.listSubcategoriesOf)
        })
        r.Route("/subcategorias", func(r chi.Router) {
            r.Get("/", s.listSubcategories)
            r.Post("/", s.createSubcategory)
            r.Get("/{id}", s.getSubcategory)
            r.Patch("/{id}", s.updateSubcategory)
            r.Delete("/{id}", s.deleteSubcategory)
            r.Post("/{id}/ativar", s.setSubcategoryActive(true))
            r.Post("/{id}/desativar", s.setSubcategoryActive(false))
        })
        r.Route("/clientes", func(r chi.Router) {
            r.Get("/", s.listClients)
            r.Post("/", s.createClient)
            r.Get("/contagem", s.countClients)
            r.Get("/documento/{doc}", s.getClientByDocument)
            r.Get("/{id}", s.getClient)
            r.Put("/{id}", s.updateClient)
            r.Delete("/{id}", s.deleteClient)
        })
        r.Route("/fornecedores", func(r chi.Router) {
            r.Get("/", s.listSuppliers)
            r.Post("/", s.createSupplier)
            r.Get("/contagem", s.countSuppliers)
            r.Get("/documento/{doc}", s.getSupplierByDocument)
            r.Get("/{id}", s.getSupplier)
            r.Put("/{id}", s.updateSupplier)
            r.Delete("/{id}", s.deleteSupplier)
            r.Post("/{id}/ativar", s.activateSupplier)
        })
        r.Route("/funcionarios", func(r chi.Router) {
            r.Get("/", s.listEmployees)
            r.Post("/", s.createEmployee)
            r.Get("/contagem", s.countEmployees)
            r.Get("/folha", s.payroll)
            r.Get("/documento/{doc}", s.getEmployeeByDocument)
            r.Get("/{id}", s.getEmployee)
            r.Put("/{id}", s.updateEmployee)
            r.Delete("/{id}", s.deleteEmployee)
        })
        r.Route("/lancamentos", func(r chi.Router) {
            r.Get("/", s.listEntries)
            r.Post("/", s.createEntry)
            r.Get("/{id}", s.getEntry)
            r.Put("/{id}", s.updateEntry)
            r.Delete("/{id}", s.deleteEntry)
        })
        r.Route("/relatorios", func(r chi.Router) {
            r.Get("/resumo", s.summary)
            r.Get("/linhas", s.reportRows)
            r.Get("/saldo", s.balance)
            r.Get("/por-tipo", s.totalsByType)
            r.Get("/por-categoria", s.totalsByCategory)
            r.Get("/por-subcategoria", s.totalsBySubcategory)
            r.Get("/despesas-por-tipo", s.expensesByCategoryType)
            r.Get("/grafico", s.chart)
            r.Get("/geral", s.generalReport)
            r.Get("/movimento/{periodo}", s.movement)
            r.Post("/saldo-diario", s.cacheDailyBalances)
        })
        r.Get("/auditoria", s.listAudit)
        r.Get("/cep/{cep}", s.lookupCEP)
        r.Route("/export", func(r chi.Router) {
            r.Get("/lancamentos.xlsx", s.exportEntries)
            r.Get("/clientes.xlsx", s.exportClients)
            r.Get("/fornecedores.xlsx", s.exportSuppliers)
            r.Get("/funcionarios.xlsx", s.exportEmployees)
        })
    })
}
