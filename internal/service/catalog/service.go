// Package catalog implements the reference-data rules: unique category names,
// subcategories unique per category, the one-time taxonomy bootstrap and
// deletes restricted while entries still point at the target.
package catalog

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
    "strings"
    "time"

    "github.com/tinoosan/fluxo/internal/errs"
    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/taxonomy"
)

type Repo interface {
    GetCategory(ctx context.Context, id int64) (ledger.Category, error)
    FindCategoryByName(ctx context.Context, name string) (ledger.Category, error)
    ListCategories(ctx context.Context, activeOnly bool) ([]ledger.Category, error)
    ListCategoriesByType(ctx context.Context, t ledger.CategoryType) ([]ledger.Category, error)
    CountCategories(ctx context.Context) (int64, error)
    CountEntriesForCategory(ctx context.Context, id int64) (int64, error)
    GetSubcategory(ctx context.Context, id int64) (ledger.Subcategory, error)
    FindSubcategoryByName(ctx context.Context, categoryID int64, name string) (ledger.Subcategory, error)
    ListSubcategories(ctx context.Context, categoryID int64, activeOnly bool) ([]ledger.Subcategory, error)
    CountEntriesForSubcategory(ctx context.Context, id int64) (int64, error)
}

type Writer interface {
    CreateCategory(ctx context.Context, c ledger.Category) (ledger.Category, error)
    UpdateCategory(ctx context.Context, c ledger.Category) (ledger.Category, error)
    DeleteCategory(ctx context.Context, id int64) error
    CreateSubcategory(ctx context.Context, sc ledger.Subcategory) (ledger.Subcategory, error)
    UpdateSubcategory(ctx context.Context, sc ledger.Subcategory) (ledger.Subcategory, error)
    DeleteSubcategory(ctx context.Context, id int64) error
}

// CategoryPatch carries the fields to change; nil fields are left untouched.
type CategoryPatch struct {
    Name        *string
    Type        *ledger.CategoryType
    Description *string
    Active      *bool
}

func (p CategoryPatch) empty() bool {
    return p.Name == nil && p.Type == nil && p.Description == nil && p.Active == nil
}

// SubcategoryPatch carries the fields to change; nil fields are left untouched.
type SubcategoryPatch struct {
    CategoryID  *int64
    Name        *string
    Description *string
    Active      *bool
}

func (p SubcategoryPatch) empty() bool {
    return p.CategoryID == nil && p.Name == nil && p.Description == nil && p.Active == nil
}

// Node is a category with its subcategories.
type Node struct {
    ledger.Category
    Subcategories []ledger.Subcategory `json:"subcategorias"`
}

type Service interface {
    CreateCategory(ctx context.Context, c ledger.Category) ledger.Result
    GetCategory(ctx context.Context, id int64) (ledger.Category, error)
    ListCategories(ctx context.Context, activeOnly bool) ([]ledger.Category, error)
    ListCategoriesByType(ctx context.Context, t ledger.CategoryType) ([]ledger.Category, error)
    UpdateCategory(ctx context.Context, id int64, p CategoryPatch) ledger.Result
    DeleteCategory(ctx context.Context, id int64) ledger.Result
    SetCategoryActive(ctx context.Context, id int64, active bool) ledger.Result

    CreateSubcategory(ctx context.Context, sc ledger.Subcategory) ledger.Result
    GetSubcategory(ctx context.Context, id int64) (ledger.Subcategory, error)
    ListSubcategories(ctx context.Context, activeOnly bool) ([]ledger.Subcategory, error)
    ListSubcategoriesOf(ctx context.Context, categoryID int64, activeOnly bool) ([]ledger.Subcategory, error)
    UpdateSubcategory(ctx context.Context, id int64, p SubcategoryPatch) ledger.Result
    DeleteSubcategory(ctx context.Context, id int64) ledger.Result
    SetSubcategoryActive(ctx context.Context, id int64, active bool) ledger.Result

    Tree(ctx context.Context, activeOnly bool) ([]Node, error)
    Bootstrap(ctx context.Context) int
}

type service struct {
    repo   Repo
    writer Writer
    groups []taxonomy.GroupDef
    log    *slog.Logger
    now    func() time.Time
}

// New builds the catalog service. groups is the taxonomy seeded by Bootstrap;
// nil selects taxonomy.Default().
func New(repo Repo, writer Writer, groups []taxonomy.GroupDef, logger *slog.Logger) Service {
    if groups == nil { groups = taxonomy.Default() }
    if logger == nil { logger = slog.Default() }
    return &service{repo: repo, writer: writer, groups: groups, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

const (
    msgNoFields            = "Nenhum campo para atualizar"
    msgCategoryNotFound    = "Categoria não encontrada"
    msgSubcategoryNotFound = "Subcategoria não encontrada"
)

// --- Categories ---

func validateCategory(c ledger.Category) error {
    var problems []string
    if strings.TrimSpace(c.Name) == "" { problems = append(problems, "Nome da categoria é obrigatório") }
    if !c.Type.Valid() { problems = append(problems, "Tipo de categoria inválido") }
    if len(problems) > 0 { return errs.Invalid(problems...) }
    return nil
}

// nameTaken reports whether another category (not exceptID) already uses name.
func (s *service) categoryNameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
    existing, err := s.repo.FindCategoryByName(ctx, name)
    if errors.Is(err, errs.ErrNotFound) { return false, nil }
    if err != nil { return false, err }
    return existing.ID != exceptID, nil
}

func (s *service) CreateCategory(ctx context.Context, c ledger.Category) ledger.Result {
    c.Name = strings.TrimSpace(c.Name)
    c.Description = strings.TrimSpace(c.Description)
    if err := validateCategory(c); err != nil { return ledger.FailedWith("", err) }
    taken, err := s.categoryNameTaken(ctx, c.Name, 0)
    if err != nil { return ledger.FailedWith("Erro ao criar categoria", err) }
    if taken { return ledger.Failed(errs.ErrConflict, "Categoria já cadastrada: "+c.Name) }
    c.Active = true
    c.CreatedAt = s.now()
    created, err := s.writer.CreateCategory(ctx, c)
    if err != nil { return ledger.FailedWith("Erro ao criar categoria", err) }
    s.log.Info("category created", "id", created.ID, "name", created.Name, "type", created.Type)
    return ledger.Succeeded(created.ID, fmt.Sprintf("Categoria criada com sucesso (ID: %d)", created.ID))
}

func (s *service) GetCategory(ctx context.Context, id int64) (ledger.Category, error) {
    return s.repo.GetCategory(ctx, id)
}

func (s *service) ListCategories(ctx context.Context, activeOnly bool) ([]ledger.Category, error) {
    return s.repo.ListCategories(ctx, activeOnly)
}

func (s *service) ListCategoriesByType(ctx context.Context, t ledger.CategoryType) ([]ledger.Category, error) {
    if !t.Valid() { return nil, errs.Invalid("Tipo de categoria inválido") }
    return s.repo.ListCategoriesByType(ctx, t)
}

func (s *service) UpdateCategory(ctx context.Context, id int64, p CategoryPatch) ledger.Result {
    if p.empty() { return ledger.Failed(errs.ErrInvalid, msgNoFields) }
    c, err := s.repo.GetCategory(ctx, id)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgCategoryNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao atualizar categoria", err) }
    if p.Name != nil { c.Name = strings.TrimSpace(*p.Name) }
    if p.Type != nil { c.Type = *p.Type }
    if p.Description != nil { c.Description = strings.TrimSpace(*p.Description) }
    if p.Active != nil { c.Active = *p.Active }
    if err := validateCategory(c); err != nil { return ledger.FailedWith("", err) }
    if p.Name != nil {
        taken, err := s.categoryNameTaken(ctx, c.Name, id)
        if err != nil { return ledger.FailedWith("Erro ao atualizar categoria", err) }
        if taken { return ledger.Failed(errs.ErrConflict, "Categoria já cadastrada: "+c.Name) }
    }
    if _, err := s.writer.UpdateCategory(ctx, c); err != nil {
        if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgCategoryNotFound) }
        return ledger.FailedWith("Erro ao atualizar categoria", err)
    }
    return ledger.Succeeded(id, "Categoria atualizada com sucesso")
}

// DeleteCategory removes the category and, by cascade, its subcategories. It
// refuses while any entry references the category or one of its subcategories.
func (s *service) DeleteCategory(ctx context.Context, id int64) ledger.Result {
    if _, err := s.repo.GetCategory(ctx, id); err != nil {
        if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgCategoryNotFound) }
        return ledger.FailedWith("Erro ao excluir categoria", err)
    }
    n, err := s.repo.CountEntriesForCategory(ctx, id)
    if err != nil { return ledger.FailedWith("Erro ao excluir categoria", err) }
    if n > 0 {
        return ledger.Failed(errs.ErrReferenced, fmt.Sprintf("Categoria possui %d lançamento(s) vinculado(s) e não pode ser excluída", n))
    }
    if err := s.writer.DeleteCategory(ctx, id); err != nil { return ledger.FailedWith("Erro ao excluir categoria", err) }
    s.log.Info("category deleted", "id", id)
    return ledger.Succeeded(id, "Categoria excluída com sucesso")
}

func (s *service) SetCategoryActive(ctx context.Context, id int64, active bool) ledger.Result {
    r := s.UpdateCategory(ctx, id, CategoryPatch{Active: &active})
    if !r.OK { return r }
    return ledger.Succeeded(id, "Categoria "+activeWord(active)+" com sucesso")
}

// --- Subcategories ---

func validateSubcategory(sc ledger.Subcategory) error {
    var problems []string
    if strings.TrimSpace(sc.Name) == "" { problems = append(problems, "Nome da subcategoria é obrigatório") }
    if sc.CategoryID <= 0 { problems = append(problems, "Categoria inválida") }
    if len(problems) > 0 { return errs.Invalid(problems...) }
    return nil
}

func (s *service) subcategoryNameTaken(ctx context.Context, categoryID int64, name string, exceptID int64) (bool, error) {
    existing, err := s.repo.FindSubcategoryByName(ctx, categoryID, name)
    if errors.Is(err, errs.ErrNotFound) { return false, nil }
    if err != nil { return false, err }
    return existing.ID != exceptID, nil
}

func (s *service) checkOwner(ctx context.Context, categoryID int64) error {
    if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
        if errors.Is(err, errs.ErrNotFound) { return errs.Invalid(msgCategoryNotFound) }
        return err
    }
    return nil
}

func (s *service) CreateSubcategory(ctx context.Context, sc ledger.Subcategory) ledger.Result {
    sc.Name = strings.TrimSpace(sc.Name)
    sc.Description = strings.TrimSpace(sc.Description)
    if err := validateSubcategory(sc); err != nil { return ledger.FailedWith("", err) }
    if err := s.checkOwner(ctx, sc.CategoryID); err != nil { return ledger.FailedWith("Erro ao criar subcategoria", err) }
    taken, err := s.subcategoryNameTaken(ctx, sc.CategoryID, sc.Name, 0)
    if err != nil { return ledger.FailedWith("Erro ao criar subcategoria", err) }
    if taken { return ledger.Failed(errs.ErrConflict, "Subcategoria já cadastrada nesta categoria: "+sc.Name) }
    sc.Active = true
    sc.CreatedAt = s.now()
    created, err := s.writer.CreateSubcategory(ctx, sc)
    if err != nil { return ledger.FailedWith("Erro ao criar subcategoria", err) }
    return ledger.Succeeded(created.ID, fmt.Sprintf("Subcategoria criada com sucesso (ID: %d)", created.ID))
}

func (s *service) GetSubcategory(ctx context.Context, id int64) (ledger.Subcategory, error) {
    return s.repo.GetSubcategory(ctx, id)
}

func (s *service) ListSubcategories(ctx context.Context, activeOnly bool) ([]ledger.Subcategory, error) {
    return s.repo.ListSubcategories(ctx, 0, activeOnly)
}

func (s *service) ListSubcategoriesOf(ctx context.Context, categoryID int64, activeOnly bool) ([]ledger.Subcategory, error) {
    if categoryID <= 0 { return nil, errs.Invalid("Categoria inválida") }
    return s.repo.ListSubcategories(ctx, categoryID, activeOnly)
}

func (s *service) UpdateSubcategory(ctx context.Context, id int64, p SubcategoryPatch) ledger.Result {
    if p.empty() { return ledger.Failed(errs.ErrInvalid, msgNoFields) }
    sc, err := s.repo.GetSubcategory(ctx, id)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgSubcategoryNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao atualizar subcategoria", err) }
    if p.CategoryID != nil { sc.CategoryID = *p.CategoryID }
    if p.Name != nil { sc.Name = strings.TrimSpace(*p.Name) }
    if p.Description != nil { sc.Description = strings.TrimSpace(*p.Description) }
    if p.Active != nil { sc.Active = *p.Active }
    if err := validateSubcategory(sc); err != nil { return ledger.FailedWith("", err) }
    if p.CategoryID != nil {
        if err := s.checkOwner(ctx, sc.CategoryID); err != nil { return ledger.FailedWith("Erro ao atualizar subcategoria", err) }
    }
    if p.Name != nil || p.CategoryID != nil {
        taken, err := s.subcategoryNameTaken(ctx, sc.CategoryID, sc.Name, id)
        if err != nil { return ledger.FailedWith("Erro ao atualizar subcategoria", err) }
        if taken { return ledger.Failed(errs.ErrConflict, "Subcategoria já cadastrada nesta categoria: "+sc.Name) }
    }
    if _, err := s.writer.UpdateSubcategory(ctx, sc); err != nil {
        if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgSubcategoryNotFound) }
        return ledger.FailedWith("Erro ao atualizar subcategoria", err)
    }
    return ledger.Succeeded(id, "Subcategoria atualizada com sucesso")
}

func (s *service) DeleteSubcategory(ctx context.Context, id int64) ledger.Result {
    if _, err := s.repo.GetSubcategory(ctx, id); err != nil {
        if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgSubcategoryNotFound) }
        return ledger.FailedWith("Erro ao excluir subcategoria", err)
    }
    n, err := s.repo.CountEntriesForSubcategory(ctx, id)
    if err != nil { return ledger.FailedWith("Erro ao excluir subcategoria", err) }
    if n > 0 {
        return ledger.Failed(errs.ErrReferenced, fmt.Sprintf("Subcategoria possui %d lançamento(s) vinculado(s) e não pode ser excluída", n))
    }
    if err := s.writer.DeleteSubcategory(ctx, id); err != nil { return ledger.FailedWith("Erro ao excluir subcategoria", err) }
    return ledger.Succeeded(id, "Subcategoria excluída com sucesso")
}

func (s *service) SetSubcategoryActive(ctx context.Context, id int64, active bool) ledger.Result {
    r := s.UpdateSubcategory(ctx, id, SubcategoryPatch{Active: &active})
    if !r.OK { return r }
    return ledger.Succeeded(id, "Subcategoria "+activeWord(active)+" com sucesso")
}

func (s *service) Tree(ctx context.Context, activeOnly bool) ([]Node, error) {
    cats, err := s.repo.ListCategories(ctx, activeOnly)
    if err != nil { return nil, err }
    subs, err := s.repo.ListSubcategories(ctx, 0, activeOnly)
    if err != nil { return nil, err }
    byCat := make(map[int64][]ledger.Subcategory, len(cats))
    for _, sc := range subs { byCat[sc.CategoryID] = append(byCat[sc.CategoryID], sc) }
    out := make([]Node, 0, len(cats))
    for _, c := range cats {
        children := byCat[c.ID]
        if children == nil { children = []ledger.Subcategory{} }
        out = append(out, Node{Category: c, Subcategories: children})
    }
    return out, nil
}

func activeWord(active bool) string {
    if active { return "ativada" }
    return "desativada"
}
