package httpapi

import (
    "context"

    "github.com/tinoosan/fluxo/internal/cep"
    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/service/catalog"
    "github.com/tinoosan/fluxo/internal/service/client"
    "github.com/tinoosan/fluxo/internal/service/employee"
    "github.com/tinoosan/fluxo/internal/service/entry"
    "github.com/tinoosan/fluxo/internal/service/report"
    "github.com/tinoosan/fluxo/internal/service/supplier"
)

// AuditReader lists audit records.
type AuditReader interface {
    List(ctx context.Context, q ledger.AuditQuery) ([]ledger.AuditRecord, error)
}

// ReadyChecker is optionally implemented by stores to indicate readiness.
type ReadyChecker interface {
    Ready(ctx context.Context) error
}

// Services bundles what the handlers call. Ready and CEP may be nil.
type Services struct {
    Catalog   catalog.Service
    Clients   client.Service
    Suppliers supplier.Service
    Employees employee.Service
    Entries   entry.Service
    Reports   report.Service
    Audit     AuditReader
    CEP       cep.Lookup
    Ready     ReadyChecker
}
