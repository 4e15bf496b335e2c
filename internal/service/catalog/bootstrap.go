package catalog

import (
    "context"

    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/taxonomy"
)

// Bootstrap seeds the taxonomy into an empty catalog and returns the number of
// categories inserted. It does nothing when any category exists. Failures are
// logged and skipped so a partial seed never blocks startup.
func (s *service) Bootstrap(ctx context.Context) int {
    n, err := s.repo.CountCategories(ctx)
    if err != nil {
        s.log.Error("bootstrap: count categories", "err", err)
        return 0
    }
    if n > 0 {
        s.log.Debug("bootstrap skipped", "categories", n)
        return 0
    }
    inserted := 0
    for _, g := range s.groups {
        r := s.CreateCategory(ctx, ledgerCategory(g))
        if !r.OK {
            s.log.Warn("bootstrap: category not created", "name", g.Name, "reason", r.Message)
            continue
        }
        inserted++
        for _, sub := range g.Subcategories {
            sr := s.CreateSubcategory(ctx, ledgerSubcategory(r.ID, sub))
            if !sr.OK {
                s.log.Warn("bootstrap: subcategory not created", "category", g.Name, "name", sub.Name, "reason", sr.Message)
            }
        }
    }
    s.log.Info("taxonomy seeded", "categories", inserted)
    return inserted
}

func ledgerCategory(g taxonomy.GroupDef) ledger.Category {
    return ledger.Category{Name: g.Name, Type: g.Type, Description: g.Description}
}

func ledgerSubcategory(categoryID int64, d taxonomy.SubDef) ledger.Subcategory {
    return ledger.Subcategory{CategoryID: categoryID, Name: d.Name, Description: d.Description}
}
