package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fluxo/internal/errs"
	"github.com/tinoosan/fluxo/internal/ledger"
	"github.com/tinoosan/fluxo/internal/service/catalog"
	"github.com/tinoosan/fluxo/internal/storage/sqlstore"
	"github.com/tinoosan/fluxo/internal/testutil"
)

func newService(t *testing.T) (catalog.Service, *sqlstore.Store) {
	t.Helper()
	st := testutil.Store(t)
	return catalog.New(st, st, nil, testutil.Logger()), st
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, name(it))
	}
	return out
}

func TestBootstrapSeedsDefaultTaxonomyInOrder(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	assert.Equal(t, 4, svc.Bootstrap(ctx))

	tree, err := svc.Tree(ctx, false)
	require.NoError(t, err)
	require.Len(t, tree, 4)
	assert.Equal(t, []string{"Receita", "Despesa Variável", "Despesa Fixa", "Despesa Pessoal"},
		names(tree, func(n catalog.Node) string { return n.Name }))
	assert.Equal(t, []ledger.CategoryType{ledger.CategoryReceita, ledger.CategoryDespesaVariavel, ledger.CategoryDespesaFixa, ledger.CategoryDespesaPessoal},
		[]ledger.CategoryType{tree[0].Type, tree[1].Type, tree[2].Type, tree[3].Type})

	sub := func(s ledger.Subcategory) string { return s.Name }
	assert.Equal(t, []string{"Serviços", "Produtos", "Investimentos", "Empréstimos", "Outras"}, names(tree[0].Subcategories, sub))
	assert.Equal(t, []string{"Insumos", "Mão de Obra", "Fornecimentos", "Transportes", "Outras"}, names(tree[1].Subcategories, sub))
	assert.Equal(t, []string{"Energia", "Água", "Internet", "Contador", "Seguro", "Outras"}, names(tree[2].Subcategories, sub))
	assert.Equal(t, []string{"Educação", "Saúde", "Alimentação", "Lazer", "Cartão de Crédito", "Outras"}, names(tree[3].Subcategories, sub))

	assert.Equal(t, 0, svc.Bootstrap(ctx))
	all, err := svc.ListSubcategories(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 22)
}

func TestBootstrapSkippedWhenAnyCategoryExists(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.True(t, svc.CreateCategory(ctx, ledger.Category{Name: "Aluguel", Type: ledger.CategoryDespesaFixa}).OK)

	assert.Equal(t, 0, svc.Bootstrap(ctx))
	cats, err := svc.ListCategories(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aluguel"}, names(cats, func(c ledger.Category) string { return c.Name }))
}

func TestCategoryNameIsUnique(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.True(t, svc.CreateCategory(ctx, ledger.Category{Name: "Receita", Type: ledger.CategoryReceita}).OK)

	res := svc.CreateCategory(ctx, ledger.Category{Name: " Receita ", Type: ledger.CategoryReceita})
	assert.ErrorIs(t, res.Err(), errs.ErrConflict)
	assert.Equal(t, "Categoria já cadastrada: Receita", res.Message)

	res = svc.CreateCategory(ctx, ledger.Category{Name: "", Type: "Transferência"})
	assert.ErrorIs(t, res.Err(), errs.ErrInvalid)
	assert.Equal(t, "Nome da categoria é obrigatório\nTipo de categoria inválido", res.Message)
}

func TestUpdateCategoryPatch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created := svc.CreateCategory(ctx, ledger.Category{Name: "Despesa Fixa", Type: ledger.CategoryDespesaFixa, Description: "Contas"})
	require.True(t, created.OK, created.Message)

	res := svc.UpdateCategory(ctx, created.ID, catalog.CategoryPatch{})
	assert.ErrorIs(t, res.Err(), errs.ErrInvalid)
	assert.Equal(t, "Nenhum campo para atualizar", res.Message)

	res = svc.UpdateCategory(ctx, created.ID, catalog.CategoryPatch{Description: testutil.Ptr("  Contas mensais ")})
	require.True(t, res.OK, res.Message)
	got, err := svc.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Despesa Fixa", got.Name)
	assert.Equal(t, ledger.CategoryDespesaFixa, got.Type)
	assert.Equal(t, "Contas mensais", got.Description)
	assert.True(t, got.Active)

	res = svc.SetCategoryActive(ctx, created.ID, false)
	require.True(t, res.OK)
	assert.Equal(t, "Categoria desativada com sucesso", res.Message)
	active, err := svc.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	res = svc.UpdateCategory(ctx, 999, catalog.CategoryPatch{Name: testutil.Ptr("Outra")})
	assert.ErrorIs(t, res.Err(), errs.ErrNotFound)
}

func TestSubcategoryRules(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	cat := svc.CreateCategory(ctx, ledger.Category{Name: "Receita", Type: ledger.CategoryReceita})
	other := svc.CreateCategory(ctx, ledger.Category{Name: "Despesa Fixa", Type: ledger.CategoryDespesaFixa})

	res := svc.CreateSubcategory(ctx, ledger.Subcategory{CategoryID: 999, Name: "Vendas"})
	assert.ErrorIs(t, res.Err(), errs.ErrInvalid)

	sub := svc.CreateSubcategory(ctx, ledger.Subcategory{CategoryID: cat.ID, Name: "Vendas"})
	require.True(t, sub.OK, sub.Message)
	res = svc.CreateSubcategory(ctx, ledger.Subcategory{CategoryID: cat.ID, Name: "Vendas"})
	assert.ErrorIs(t, res.Err(), errs.ErrConflict)
	// the same name under another category is fine
	assert.True(t, svc.CreateSubcategory(ctx, ledger.Subcategory{CategoryID: other.ID, Name: "Vendas"}).OK)

	res = svc.UpdateSubcategory(ctx, sub.ID, catalog.SubcategoryPatch{})
	assert.Equal(t, "Nenhum campo para atualizar", res.Message)

	res = svc.UpdateSubcategory(ctx, sub.ID, catalog.SubcategoryPatch{Description: testutil.Ptr("Vendas no balcão")})
	require.True(t, res.OK, res.Message)
	got, err := svc.GetSubcategory(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vendas", got.Name)
	assert.Equal(t, cat.ID, got.CategoryID)
	assert.Equal(t, "Vendas no balcão", got.Description)

	res = svc.UpdateSubcategory(ctx, sub.ID, catalog.SubcategoryPatch{CategoryID: testutil.Ptr(other.ID)})
	assert.ErrorIs(t, res.Err(), errs.ErrConflict)
}

func TestDeleteRefusedWhileEntriesReferenceIt(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	tx := testutil.SeedTaxonomy(t, st)
	_, supplierID := testutil.PartyIDs(t, st)
	now := time.Now().UTC()
	e, err := st.CreateEntry(ctx, ledger.Entry{
		Date: "2026-01-06", Type: ledger.EntryDespesa, CategoryID: tx.Expense.ID, SubcategoryID: tx.ExpenseSub.ID,
		Amount: ledger.FromCents(2500), Description: "Resma de papel", SupplierID: &supplierID, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	res := svc.DeleteSubcategory(ctx, tx.ExpenseSub.ID)
	assert.ErrorIs(t, res.Err(), errs.ErrReferenced)
	assert.Equal(t, "Subcategoria possui 1 lançamento(s) vinculado(s) e não pode ser excluída", res.Message)
	res = svc.DeleteCategory(ctx, tx.Expense.ID)
	assert.ErrorIs(t, res.Err(), errs.ErrReferenced)

	_, err = svc.GetSubcategory(ctx, tx.ExpenseSub.ID)
	require.NoError(t, err)

	require.NoError(t, st.DeleteEntry(ctx, e.ID))
	assert.True(t, svc.DeleteSubcategory(ctx, tx.ExpenseSub.ID).OK)
	assert.ErrorIs(t, svc.DeleteSubcategory(ctx, tx.ExpenseSub.ID).Err(), errs.ErrNotFound)
}

func TestDeleteCategoryCascadesToSubcategories(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	cat := svc.CreateCategory(ctx, ledger.Category{Name: "Despesa Pessoal", Type: ledger.CategoryDespesaPessoal})
	a := svc.CreateSubcategory(ctx, ledger.Subcategory{CategoryID: cat.ID, Name: "Saúde"})
	b := svc.CreateSubcategory(ctx, ledger.Subcategory{CategoryID: cat.ID, Name: "Lazer"})
	require.True(t, a.OK && b.OK)

	res := svc.DeleteCategory(ctx, cat.ID)
	require.True(t, res.OK, res.Message)
	assert.Equal(t, "Categoria excluída com sucesso", res.Message)

	for _, id := range []int64{a.ID, b.ID} {
		_, err := svc.GetSubcategory(ctx, id)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	}
	assert.ErrorIs(t, svc.DeleteCategory(ctx, cat.ID).Err(), errs.ErrNotFound)
}
