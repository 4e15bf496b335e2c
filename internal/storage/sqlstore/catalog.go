package sqlstore

import (
    "context"
    "strings"

    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/storage/gateway"
)

const categoryCols = `id, nome, tipo, descricao, ativo, criado_em`

func scanCategory(r gateway.Scanner, c *ledger.Category) error {
    var tipo string
    if err := r.Scan(&c.ID, &c.Name, &tipo, &c.Description, &c.Active, &c.CreatedAt); err != nil { return err }
    c.Type = ledger.CategoryType(tipo)
    return nil
}

func (s *Store) collectCategories(ctx context.Context, query string, args ...any) ([]ledger.Category, error) {
    out := make([]ledger.Category, 0)
    err := s.g.Query(ctx, query, args, func(r gateway.Scanner) error {
        var c ledger.Category
        if err := scanCategory(r, &c); err != nil { return err }
        out = append(out, c)
        return nil
    })
    return out, err
}

// CreateCategory inserts c and returns it with its id.
func (s *Store) CreateCategory(ctx context.Context, c ledger.Category) (ledger.Category, error) {
    id, err := s.g.Insert(ctx, `INSERT INTO categorias (nome, tipo, descricao, ativo, criado_em) VALUES (?, ?, ?, ?, ?)`,
        c.Name, string(c.Type), c.Description, c.Active, c.CreatedAt)
    if err != nil { return ledger.Category{}, err }
    c.ID = id
    return c, nil
}

// GetCategory returns errs.ErrNotFound when id does not exist.
func (s *Store) GetCategory(ctx context.Context, id int64) (ledger.Category, error) {
    var c ledger.Category
    err := s.one(ctx, `SELECT `+categoryCols+` FROM categorias WHERE id = ?`, []any{id}, func(r gateway.Scanner) error {
        return scanCategory(r, &c)
    })
    return c, err
}

// FindCategoryByName matches names case-insensitively.
func (s *Store) FindCategoryByName(ctx context.Context, name string) (ledger.Category, error) {
    var c ledger.Category
    err := s.one(ctx, `SELECT `+categoryCols+` FROM categorias WHERE LOWER(nome) = ?`, []any{strings.ToLower(name)}, func(r gateway.Scanner) error {
        return scanCategory(r, &c)
    })
    return c, err
}

// ListCategories returns categories in creation order.
func (s *Store) ListCategories(ctx context.Context, activeOnly bool) ([]ledger.Category, error) {
    q := `SELECT ` + categoryCols + ` FROM categorias`
    if activeOnly { q += ` WHERE ativo = ?`; return s.collectCategories(ctx, q+` ORDER BY id`, true) }
    return s.collectCategories(ctx, q+` ORDER BY id`)
}

// ListCategoriesByType returns active categories of one type.
func (s *Store) ListCategoriesByType(ctx context.Context, t ledger.CategoryType) ([]ledger.Category, error) {
    return s.collectCategories(ctx, `SELECT `+categoryCols+` FROM categorias WHERE tipo = ? AND ativo = ? ORDER BY id`, string(t), true)
}

// UpdateCategory overwrites the mutable columns of c.
func (s *Store) UpdateCategory(ctx context.Context, c ledger.Category) (ledger.Category, error) {
    err := affected(s.g.Update(ctx, `UPDATE categorias SET nome = ?, tipo = ?, descricao = ?, ativo = ? WHERE id = ?`,
        c.Name, string(c.Type), c.Description, c.Active, c.ID))
    if err != nil { return ledger.Category{}, err }
    return c, nil
}

// DeleteCategory removes the category; its subcategories cascade.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
    return affected(s.g.Delete(ctx, `DELETE FROM categorias WHERE id = ?`, id))
}

func (s *Store) CountCategories(ctx context.Context) (int64, error) {
    return s.count(ctx, `SELECT COUNT(*) FROM categorias`)
}

// CountEntriesForCategory counts entries pointing at the category or at any of its subcategories.
func (s *Store) CountEntriesForCategory(ctx context.Context, id int64) (int64, error) {
    return s.count(ctx, `SELECT COUNT(*) FROM lancamentos WHERE categoria_id = ? OR subcategoria_id IN (SELECT id FROM subcategorias WHERE categoria_id = ?)`, id, id)
}

// --- Subcategories ---

const subcategoryCols = `id, categoria_id, nome, descricao, ativo, criado_em`

func scanSubcategory(r gateway.Scanner, sc *ledger.Subcategory) error {
    return r.Scan(&sc.ID, &sc.CategoryID, &sc.Name, &sc.Description, &sc.Active, &sc.CreatedAt)
}

func (s *Store) CreateSubcategory(ctx context.Context, sc ledger.Subcategory) (ledger.Subcategory, error) {
    id, err := s.g.Insert(ctx, `INSERT INTO subcategorias (categoria_id, nome, descricao, ativo, criado_em) VALUES (?, ?, ?, ?, ?)`,
        sc.CategoryID, sc.Name, sc.Description, sc.Active, sc.CreatedAt)
    if err != nil { return ledger.Subcategory{}, err }
    sc.ID = id
    return sc, nil
}

func (s *Store) GetSubcategory(ctx context.Context, id int64) (ledger.Subcategory, error) {
    var sc ledger.Subcategory
    err := s.one(ctx, `SELECT `+subcategoryCols+` FROM subcategorias WHERE id = ?`, []any{id}, func(r gateway.Scanner) error {
        return scanSubcategory(r, &sc)
    })
    return sc, err
}

// FindSubcategoryByName looks a name up within one category, case-insensitively.
func (s *Store) FindSubcategoryByName(ctx context.Context, categoryID int64, name string) (ledger.Subcategory, error) {
    var sc ledger.Subcategory
    err := s.one(ctx, `SELECT `+subcategoryCols+` FROM subcategorias WHERE categoria_id = ? AND LOWER(nome) = ?`,
        []any{categoryID, strings.ToLower(name)}, func(r gateway.Scanner) error { return scanSubcategory(r, &sc) })
    return sc, err
}

// ListSubcategories lists subcategories of categoryID, or of every category when it is zero.
func (s *Store) ListSubcategories(ctx context.Context, categoryID int64, activeOnly bool) ([]ledger.Subcategory, error) {
    var b strings.Builder
    b.WriteString(`SELECT ` + subcategoryCols + ` FROM subcategorias WHERE 1=1`)
    args := make([]any, 0, 2)
    if categoryID > 0 { b.WriteString(` AND categoria_id = ?`); args = append(args, categoryID) }
    if activeOnly { b.WriteString(` AND ativo = ?`); args = append(args, true) }
    b.WriteString(` ORDER BY categoria_id, id`)
    out := make([]ledger.Subcategory, 0)
    err := s.g.Query(ctx, b.String(), args, func(r gateway.Scanner) error {
        var sc ledger.Subcategory
        if err := scanSubcategory(r, &sc); err != nil { return err }
        out = append(out, sc)
        return nil
    })
    return out, err
}

func (s *Store) UpdateSubcategory(ctx context.Context, sc ledger.Subcategory) (ledger.Subcategory, error) {
    err := affected(s.g.Update(ctx, `UPDATE subcategorias SET categoria_id = ?, nome = ?, descricao = ?, ativo = ? WHERE id = ?`,
        sc.CategoryID, sc.Name, sc.Description, sc.Active, sc.ID))
    if err != nil { return ledger.Subcategory{}, err }
    return sc, nil
}

func (s *Store) DeleteSubcategory(ctx context.Context, id int64) error {
    return affected(s.g.Delete(ctx, `DELETE FROM subcategorias WHERE id = ?`, id))
}

func (s *Store) CountEntriesForSubcategory(ctx context.Context, id int64) (int64, error) {
    return s.count(ctx, `SELECT COUNT(*) FROM lancamentos WHERE subcategoria_id = ?`, id)
}
