// Package testutil opens throwaway SQLite stores and builds valid fixtures
// for service and HTTP tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/storage/sqlite"
	"github.com/tinoosan/fluxo/internal/storage/sqlstore"
)

// Logger discards everything.
func Logger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// Store opens a fresh database under t.TempDir and closes it on cleanup.
func Store(t *testing.T) *sqlstore.Store {
	t.Helper()
	g, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "fluxo.db"), Logger())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return sqlstore.New(g)
}

// Address is a complete, valid address.
func Address() ledger.Address {
	return ledger.Address{
		PostalCode:   "01310-100",
		Street:       "Avenida Paulista",
		Number:       "1000",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "sp",
	}
}

// Client returns a valid individual client.
func Client() ledger.Client {
	return ledger.Client{
		Name:     "Ana Souza",
		Document: "111.444.777-35",
		Email:    " Ana@Example.com ",
		Phone:    "(11) 98765-4321",
		Address:  Address(),
	}
}

// Supplier returns a valid organization supplier.
func Supplier() ledger.Supplier {
	return ledger.Supplier{
		Kind:      ledger.PersonJuridica,
		Name:      "Papelaria Central Ltda",
		TradeName: "Papelaria Central",
		TaxID:     "11.222.333/0001-81",
		Email:     "contato@papelaria.com.br",
		Phone:     "1133334444",
		Address:   Address(),
	}
}

// Employee returns a valid employee admitted a year ago.
func Employee() ledger.Employee {
	return ledger.Employee{
		Name:    "Carlos Lima",
		CPF:     "529.982.247-25",
		Role:    "Analista",
		Salary:  ledger.FromCents(350000),
		HiredOn: time.Now().UTC().AddDate(-1, 0, 0),
		Email:   "carlos@example.com",
		Phone:   "21987654321",
		Address: Address(),
	}
}

// Taxonomy inserts one income and one expense category with a subcategory each.
type Taxonomy struct {
	Income, Expense       ledger.Category
	IncomeSub, ExpenseSub ledger.Subcategory
}

func SeedTaxonomy(t *testing.T, s *sqlstore.Store) Taxonomy {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	var tx Taxonomy
	var err error
	if tx.Income, err = s.CreateCategory(ctx, ledger.Category{Name: "Receita", Type: ledger.CategoryReceita, Active: true, CreatedAt: now}); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if tx.Expense, err = s.CreateCategory(ctx, ledger.Category{Name: "Despesa Variável", Type: ledger.CategoryDespesaVariavel, Active: true, CreatedAt: now}); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if tx.IncomeSub, err = s.CreateSubcategory(ctx, ledger.Subcategory{CategoryID: tx.Income.ID, Name: "Vendas", Active: true, CreatedAt: now}); err != nil {
		t.Fatalf("seed subcategory: %v", err)
	}
	if tx.ExpenseSub, err = s.CreateSubcategory(ctx, ledger.Subcategory{CategoryID: tx.Expense.ID, Name: "Material", Active: true, CreatedAt: now}); err != nil {
		t.Fatalf("seed subcategory: %v", err)
	}
	return tx
}

// PartyIDs inserts one client and one supplier directly through the store.
func PartyIDs(t *testing.T, s *sqlstore.Store) (clientID, supplierID int64) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	c := Client()
	c.Document, c.Email, c.Phone, c.Kind, c.Status = "11144477735", "ana@example.com", "11987654321", ledger.PersonFisica, ledger.StatusAtivo
	c.CreatedAt, c.UpdatedAt = now, now
	cc, err := s.CreateClient(ctx, c)
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	sp := Supplier()
	sp.TaxID, sp.Status = "11222333000181", ledger.StatusAtivo
	sp.CreatedAt, sp.UpdatedAt = now, now
	ss, err := s.CreateSupplier(ctx, sp)
	if err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return cc.ID, ss.ID
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
