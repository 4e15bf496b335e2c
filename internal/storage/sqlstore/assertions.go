package sqlstore

import (
	"github.com/tinoosan/fluxo/internal/audit"
	"github.com/tinoosan/fluxo/internal/service/catalog"
	"github.com/tinoosan/fluxo/internal/service/client"
	"github.com/tinoosan/fluxo/internal/service/employee"
	"github.com/tinoosan/fluxo/internal/service/entry"
	"github.com/tinoosan/fluxo/internal/service/report"
	"github.com/tinoosan/fluxo/internal/service/supplier"
)

// Compile-time interface assertions documenting which interfaces Store satisfies.
var (
	// Service layer repos and writers
	_ catalog.Repo    = (*Store)(nil)
	_ catalog.Writer  = (*Store)(nil)
	_ client.Repo     = (*Store)(nil)
	_ client.Writer   = (*Store)(nil)
	_ supplier.Repo   = (*Store)(nil)
	_ supplier.Writer = (*Store)(nil)
	_ employee.Repo   = (*Store)(nil)
	_ employee.Writer = (*Store)(nil)
	_ entry.Repo      = (*Store)(nil)
	_ entry.Writer    = (*Store)(nil)
	_ report.Repo     = (*Store)(nil)
	_ report.Cache    = (*Store)(nil)

	// Audit trail
	_ audit.Store = (*Store)(nil)
)
