package sqlstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tinoosan/fluxo/internal/errs"
	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/storage/sqlstore"
	"github.com/tinoosan/fluxo/internal/testutil"
)

func TestCategoryCRUD(t *testing.T) {
	s := testutil.Store(t)
	ctx := context.Background()
	tx := testutil.SeedTaxonomy(t, s)

	got, err := s.FindCategoryByName(ctx, "receita")
	if err != nil || got.ID != tx.Income.ID {
		t.Fatalf("find by name: %+v %v", got, err)
	}
	got.Description, got.Active = "entradas", false
	if _, err := s.UpdateCategory(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	active, err := s.ListCategories(ctx, true)
	if err != nil || len(active) != 1 || active[0].ID != tx.Expense.ID {
		t.Fatalf("active list: %+v %v", active, err)
	}
	all, _ := s.ListCategories(ctx, false)
	if len(all) != 2 || all[0].ID != tx.Income.ID {
		t.Fatalf("list ordered by id: %+v", all)
	}
	if n, _ := s.CountCategories(ctx); n != 2 {
		t.Fatalf("count: %d", n)
	}
	if err := s.DeleteCategory(ctx, 999); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("delete missing: %v", err)
	}
	if err := s.DeleteCategory(ctx, tx.Expense.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetSubcategory(ctx, tx.ExpenseSub.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("subcategory should cascade: %v", err)
	}
}

func TestDuplicateCategoryIsConflict(t *testing.T) {
	s := testutil.Store(t)
	testutil.SeedTaxonomy(t, s)
	_, err := s.CreateCategory(context.Background(), ledger.Category{Name: "Receita", Type: ledger.CategoryReceita, CreatedAt: time.Now()})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestClientLifecycle(t *testing.T) {
	s := testutil.Store(t)
	ctx := context.Background()
	clientID, _ := testutil.PartyIDs(t, s)

	c, err := s.FindClientByDocument(ctx, "11144477735")
	if err != nil || c.ID != clientID || c.Kind != ledger.PersonFisica {
		t.Fatalf("find by document: %+v %v", c, err)
	}
	if _, err := s.FindClientByEmail(ctx, "nobody@example.com"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.SetClientStatus(ctx, clientID, ledger.StatusInativo, time.Now().UTC()); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if n, _ := s.CountClients(ctx, ledger.StatusInativo); n != 1 {
		t.Fatalf("inactive count: %d", n)
	}
	if n, _ := s.CountClients(ctx, ledger.StatusAtivo); n != 0 {
		t.Fatalf("active count: %d", n)
	}
	list, err := s.ListClients(ctx, ledger.ListQuery{Status: ledger.StatusInativo})
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %+v %v", list, err)
	}
	if err := s.SetClientStatus(ctx, 404, ledger.StatusInativo, time.Now()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("missing client: %v", err)
	}
}

func TestSupplierSearch(t *testing.T) {
	s := testutil.Store(t)
	ctx := context.Background()
	testutil.PartyIDs(t, s)
	found, err := s.SearchSuppliers(ctx, "central")
	if err != nil || len(found) != 1 {
		t.Fatalf("search: %+v %v", found, err)
	}
	if found, _ := s.SearchSuppliers(ctx, "padaria"); len(found) != 0 {
		t.Fatalf("unexpected match: %+v", found)
	}
	for _, fragment := range []string{"%", "_", "papel%central"} {
		if found, _ := s.SearchSuppliers(ctx, fragment); len(found) != 0 {
			t.Fatalf("%q must match literally: %+v", fragment, found)
		}
	}
}

func TestEmployeeSalariesAndDates(t *testing.T) {
	s := testutil.Store(t)
	ctx := context.Background()
	e := testutil.Employee()
	e.CPF, e.Status = "52998224725", ledger.StatusAtivo
	e.HiredOn = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	e.CreatedAt, e.UpdatedAt = time.Now().UTC(), time.Now().UTC()
	created, err := s.CreateEmployee(ctx, e)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.GetEmployee(ctx, created.ID)
	if err != nil || !got.HiredOn.Equal(e.HiredOn) || ledger.Cents(got.Salary) != 350000 {
		t.Fatalf("round trip: %+v %v", got, err)
	}
	total, err := s.SumSalaries(ctx, ledger.StatusAtivo, "2025-03-31")
	if err != nil || ledger.Cents(total) != 350000 {
		t.Fatalf("sum: %v %v", total, err)
	}
	if total, _ := s.SumSalaries(ctx, ledger.StatusAtivo, "2025-02-28"); ledger.Cents(total) != 0 {
		t.Fatalf("hired after the cutoff must not count: %v", total)
	}
}

func seedEntries(t *testing.T) (*sqlstore.Store, testutil.Taxonomy) {
	t.Helper()
	s := testutil.Store(t)
	tx := testutil.SeedTaxonomy(t, s)
	clientID, supplierID := testutil.PartyIDs(t, s)
	now := time.Now().UTC()
	entries := []ledger.Entry{
		{Date: "2026-01-05", Type: ledger.EntryReceita, CategoryID: tx.Income.ID, SubcategoryID: tx.IncomeSub.ID, Amount: ledger.FromCents(100000), Description: "Venda balcão", ClientID: &clientID, Invoice: "NF1"},
		{Date: "2026-01-05", Type: ledger.EntryDespesa, CategoryID: tx.Expense.ID, SubcategoryID: tx.ExpenseSub.ID, Amount: ledger.FromCents(25050), Description: "Papel A4", SupplierID: &supplierID},
		{Date: "2026-01-07", Type: ledger.EntryDespesa, CategoryID: tx.Expense.ID, SubcategoryID: tx.ExpenseSub.ID, Amount: ledger.FromCents(4950), Description: "Canetas", SupplierID: &supplierID},
	}
	for _, e := range entries {
		e.CreatedAt, e.UpdatedAt = now, now
		if _, err := s.CreateEntry(context.Background(), e); err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}
	return s, tx
}

func TestEntryFiltersAndOrder(t *testing.T) {
	ts, tx := seedEntries(t)
	ctx := context.Background()

	all, err := ts.ListEntries(ctx, ledger.Filter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("list all: %d %v", len(all), err)
	}
	if all[0].Date != "2026-01-07" || all[1].ID < all[2].ID {
		t.Fatalf("expected date desc then id desc: %+v", all)
	}
	got, _ := ts.ListEntries(ctx, ledger.Filter{Type: ledger.EntryDespesa, Description: "PAPEL"})
	if len(got) != 1 || got[0].Description != "Papel A4" {
		t.Fatalf("description filter: %+v", got)
	}
	got, _ = ts.ListEntries(ctx, ledger.Filter{Start: "2026-01-06", End: "2026-01-31", CategoryID: tx.Expense.ID})
	if len(got) != 1 || ledger.Cents(got[0].Amount) != 4950 {
		t.Fatalf("range filter: %+v", got)
	}
	if got[0].ClientID != nil || got[0].SupplierID == nil {
		t.Fatalf("nullable ids: %+v", got[0])
	}
}

func TestDescriptionWildcardsMatchLiterally(t *testing.T) {
	ts, tx := seedEntries(t)
	ctx := context.Background()
	now := time.Now().UTC()
	discount := ledger.Entry{Date: "2026-01-08", Type: ledger.EntryDespesa, CategoryID: tx.Expense.ID, SubcategoryID: tx.ExpenseSub.ID,
		Amount: ledger.FromCents(1000), Description: "Taxa 10% cartão", CreatedAt: now, UpdatedAt: now}
	if _, err := ts.CreateEntry(ctx, discount); err != nil {
		t.Fatalf("create: %v", err)
	}
	cases := map[string]int{"%": 1, "10%": 1, "_": 0, "papel_a4": 0, "ta%ão": 0}
	for fragment, want := range cases {
		got, err := ts.ListEntries(ctx, ledger.Filter{Description: fragment})
		if err != nil || len(got) != want {
			t.Fatalf("description %q: want %d, got %+v %v", fragment, want, got, err)
		}
	}
}

func TestEntryReferencesAreRestricted(t *testing.T) {
	ts, tx := seedEntries(t)
	err := ts.DeleteSubcategory(context.Background(), tx.ExpenseSub.ID)
	if !errors.Is(err, errs.ErrReferenced) {
		t.Fatalf("expected referenced, got %v", err)
	}
	if n, _ := ts.CountEntriesForCategory(context.Background(), tx.Expense.ID); n != 2 {
		t.Fatalf("entries for category: %d", n)
	}
}

func TestAggregates(t *testing.T) {
	ts, _ := seedEntries(t)
	ctx := context.Background()

	byType, err := ts.TotalsByType(ctx, ledger.Filter{})
	if err != nil {
		t.Fatalf("totals by type: %v", err)
	}
	if ledger.Cents(byType[ledger.EntryReceita]) != 100000 || ledger.Cents(byType[ledger.EntryDespesa]) != 30000 {
		t.Fatalf("unexpected totals: %v", byType)
	}
	cats, _ := ts.CategoryBuckets(ctx, ledger.Filter{})
	if len(cats) != 2 || cats[0].Category != "Receita" || cats[1].CategoryType != ledger.CategoryDespesaVariavel {
		t.Fatalf("category buckets: %+v", cats)
	}
	days, _ := ts.DailyTotals(ctx, "2026-01-01", "2026-01-31")
	if len(days) != 2 || ledger.Cents(days[0].Net()) != 100000-25050 {
		t.Fatalf("daily totals: %+v", days)
	}
	rows, _ := ts.EntryRows(ctx, ledger.Filter{Type: ledger.EntryReceita})
	if len(rows) != 1 || rows[0].ClientName != "Ana Souza" || rows[0].Subcategory != "Vendas" {
		t.Fatalf("entry rows: %+v", rows)
	}
}

func TestDailyBalanceUpsert(t *testing.T) {
	s := testutil.Store(t)
	ctx := context.Background()
	b := ledger.DailyBalance{Date: "2026-01-05", Income: ledger.FromCents(100), Expense: ledger.FromCents(40), Net: ledger.FromCents(60), UpdatedAt: time.Now().UTC()}
	if err := s.UpsertDailyBalance(ctx, b); err != nil {
		t.Fatalf("insert: %v", err)
	}
	b.Income, b.Net = ledger.FromCents(200), ledger.FromCents(160)
	if err := s.UpsertDailyBalance(ctx, b); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	var n int
	if err := s.Gateway().DB().QueryRow(`SELECT COUNT(*) FROM saldo_diario WHERE saldo_liquido = 160`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("expected one updated row, n=%d err=%v", n, err)
	}
}

func TestAuditAppendAndList(t *testing.T) {
	s := testutil.Store(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, op := range []ledger.Operation{ledger.OpInsert, ledger.OpUpdate, ledger.OpDelete} {
		rec := ledger.AuditRecord{Table: ledger.EntityClient, Operation: op, RecordID: 7, After: []byte(`{"id":7}`), User: "sistema", RequestID: "r", At: base.Add(time.Duration(i) * time.Minute)}
		if _, err := s.AppendAudit(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	recs, err := s.ListAudit(ctx, ledger.AuditQuery{Table: ledger.EntityClient, RecordID: 7})
	if err != nil || len(recs) != 3 || recs[0].Operation != ledger.OpDelete {
		t.Fatalf("list newest first: %+v %v", recs, err)
	}
	recs, _ = s.ListAudit(ctx, ledger.AuditQuery{Operation: ledger.OpUpdate})
	if len(recs) != 1 || string(recs[0].After) != `{"id":7}` {
		t.Fatalf("filter by operation: %+v", recs)
	}
}

func TestExists(t *testing.T) {
	s := testutil.Store(t)
	tx := testutil.SeedTaxonomy(t, s)
	ok, err := s.Exists(context.Background(), ledger.EntityCategory, tx.Income.ID)
	if err != nil || !ok {
		t.Fatalf("exists: %v %v", ok, err)
	}
	if ok, _ := s.Exists(context.Background(), ledger.EntityClient, 1); ok {
		t.Fatalf("no clients seeded")
	}
	if _, err := s.Exists(context.Background(), ledger.Entity("usuarios"), 1); err == nil {
		t.Fatalf("unknown entity must fail")
	}
}
