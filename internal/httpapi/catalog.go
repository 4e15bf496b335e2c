package httpapi

import (
    "net/http"
    "strings"

    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/service/catalog"
)

func categoryType(s string) ledger.CategoryType {
    if t, ok := ledger.ParseCategoryType(s); ok { return t }
    return ledger.CategoryType(s)
}

// listCategories honours ?tipo= and ?ativas=true.
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
    var (
        cats []ledger.Category
        err  error
    )
    if t := strings.TrimSpace(r.URL.Query().Get("tipo")); t != "" {
        cats, err = s.svc.Catalog.ListCategoriesByType(r.Context(), categoryType(t))
    } else {
        cats, err = s.svc.Catalog.ListCategories(r.Context(), queryBool(r, "ativas"))
    }
    if err != nil { s.writeError(w, err, ""); return }
    toJSON(w, http.StatusOK, cats)
}

func (s *Server) categoryTree(w http.ResponseWriter, r *http.Request) {
    tree, err := s.svc.Catalog.Tree(r.Context(), queryBool(r, "ativas"))
    if err != nil { s.writeError(w, err, ""); return }
    toJSON(w, http.StatusOK, tree)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
    var req categoryRequest
    if !decode(w, r, &req) { return }
    res := s.svc.Catalog.CreateCategory(r.Context(), ledger.Category{Name: req.Name, Type: categoryType(req.Type), Description: req.Description})
    writeResult(w, res, true)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    c, err := s.svc.Catalog.GetCategory(r.Context(), id)
    if err != nil { s.writeError(w, err, "Categoria não encontrada"); return }
    toJSON(w, http.StatusOK, c)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    var req categoryPatchRequest
    if !decode(w, r, &req) { return }
    p := catalog.CategoryPatch{Name: req.Name, Description: req.Description, Active: req.Active}
    if req.Type != nil {
        t := categoryType(*req.Type)
        p.Type = &t
    }
    writeResult(w, s.svc.Catalog.UpdateCategory(r.Context(), id, p), false)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    writeResult(w, s.svc.Catalog.DeleteCategory(r.Context(), id), false)
}

func (s *Server) setCategoryActive(active bool) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        id, ok := pathID(w, r)
        if !ok { return }
        writeResult(w, s.svc.Catalog.SetCategoryActive(r.Context(), id, active), false)
    }
}

func (s *Server) listSubcategoriesOf(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    subs, err := s.svc.Catalog.ListSubcategoriesOf(r.Context(), id, queryBool(r, "ativas"))
    if err != nil { s.writeError(w, err, "Categoria não encontrada"); return }
    toJSON(w, http.StatusOK, subs)
}

func (s *Server) listSubcategories(w http.ResponseWriter, r *http.Request) {
    subs, err := s.svc.Catalog.ListSubcategories(r.Context(), queryBool(r, "ativas"))
    if err != nil { s.writeError(w, err, ""); return }
    toJSON(w, http.StatusOK, subs)
}

func (s *Server) createSubcategory(w http.ResponseWriter, r *http.Request) {
    var req subcategoryRequest
    if !decode(w, r, &req) { return }
    res := s.svc.Catalog.CreateSubcategory(r.Context(), ledger.Subcategory{CategoryID: req.CategoryID, Name: req.Name, Description: req.Description})
    writeResult(w, res, true)
}

func (s *Server) getSubcategory(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    sc, err := s.svc.Catalog.GetSubcategory(r.Context(), id)
    if err != nil { s.writeError(w, err, "Subcategoria não encontrada"); return }
    toJSON(w, http.StatusOK, sc)
}

func (s *Server) updateSubcategory(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    var req subcategoryPatchRequest
    if !decode(w, r, &req) { return }
    p := catalog.SubcategoryPatch{CategoryID: req.CategoryID, Name: req.Name, Description: req.Description, Active: req.Active}
    writeResult(w, s.svc.Catalog.UpdateSubcategory(r.Context(), id, p), false)
}

func (s *Server) deleteSubcategory(w http.ResponseWriter, r *http.Request) {
    id, ok := pathID(w, r)
    if !ok { return }
    writeResult(w, s.svc.Catalog.DeleteSubcategory(r.Context(), id), false)
}

func (s *Server) setSubcategoryActive(active bool) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        id, ok := pathID(w, r)
        if !ok { return }
        writeResult(w, s.svc.Catalog.SetSubcategoryActive(r.Context(), id, active), false)
    }
}
