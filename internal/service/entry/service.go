// Package entry implements the ledger of cash movements: staged validation,
// referential checks against the catalog and the party registries, and CRUD.
// Entries are physically deleted and never audited.
package entry

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
    "strings"
    "time"
    "unicode/utf8"

    "github.com/tinoosan/fluxo/internal/errs"
    "github.com/tinoosan/fluxo/internal/ledger"
)

// MaxDescription is the longest accepted description, in characters.
const MaxDescription = 500

// Repo defines read operations needed by the service.
type Repo interface {
    GetEntry(ctx context.Context, id int64) (ledger.Entry, error)
    ListEntries(ctx context.Context, f ledger.Filter) ([]ledger.Entry, error)
    GetSubcategory(ctx context.Context, id int64) (ledger.Subcategory, error)
    Exists(ctx context.Context, e ledger.Entity, id int64) (bool, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
    CreateEntry(ctx context.Context, e ledger.Entry) (ledger.Entry, error)
    UpdateEntry(ctx context.Context, e ledger.Entry) (ledger.Entry, error)
    DeleteEntry(ctx context.Context, id int64) error
}

type Service interface {
    Validate(ctx context.Context, e ledger.Entry) error
    Create(ctx context.Context, e ledger.Entry) ledger.Result
    Get(ctx context.Context, id int64) (ledger.Entry, error)
    ListAll(ctx context.Context) ([]ledger.Entry, error)
    ListByPeriod(ctx context.Context, start, end string) ([]ledger.Entry, error)
    ListByType(ctx context.Context, t ledger.EntryType) ([]ledger.Entry, error)
    ListByCategory(ctx context.Context, categoryID int64) ([]ledger.Entry, error)
    ListByClient(ctx context.Context, clientID int64) ([]ledger.Entry, error)
    ListBySupplier(ctx context.Context, supplierID int64) ([]ledger.Entry, error)
    Search(ctx context.Context, f ledger.Filter) ([]ledger.Entry, error)
    Update(ctx context.Context, id int64, e ledger.Entry) ledger.Result
    Delete(ctx context.Context, id int64) ledger.Result
}

type service struct {
    repo   Repo
    writer Writer
    log    *slog.Logger
    now    func() time.Time
}

func New(repo Repo, writer Writer, logger *slog.Logger) Service {
    if logger == nil { logger = slog.Default() }
    return &service{repo: repo, writer: writer, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

const msgNotFound = "Lançamento não encontrado"

func normalize(e ledger.Entry) ledger.Entry {
    e.Date = strings.TrimSpace(e.Date)
    e.Description = strings.TrimSpace(e.Description)
    e.Bank = strings.TrimSpace(e.Bank)
    e.Invoice = strings.TrimSpace(e.Invoice)
    e.Receipt = strings.TrimSpace(e.Receipt)
    e.Note = strings.TrimSpace(e.Note)
    if t, ok := ledger.ParseEntryType(string(e.Type)); ok { e.Type = t }
    e.ClientID, e.SupplierID, e.EmployeeID = positive(e.ClientID), positive(e.SupplierID), positive(e.EmployeeID)
    return e
}

// positive drops ids that cannot reference a row.
func positive(id *int64) *int64 {
    if id == nil || *id <= 0 { return nil }
    return id
}

// Validate runs the validation stages in order. Format stages stop at the
// first failure; the business and referential stages report every violation.
func (s *service) Validate(ctx context.Context, e ledger.Entry) error {
    if !ledger.ValidDate(e.Date) { return errs.Invalid("Data inválida. Use formato YYYY-MM-DD") }
    if !e.Amount.IsPos() { return errs.Invalid("Valor deve ser maior que zero") }
    if !ledger.InCents(e.Amount) { return errs.Invalid("Valor deve ter no máximo 2 casas decimais") }
    if !e.Type.Valid() { return errs.Invalid("Tipo inválido. Deve ser: Receita ou Despesa") }
    if e.CategoryID <= 0 { return errs.Invalid("Categoria inválida") }
    if e.SubcategoryID <= 0 { return errs.Invalid("Subcategoria inválida") }
    if e.Description == "" { return errs.Invalid("Descrição é obrigatória") }
    if utf8.RuneCountInString(e.Description) > MaxDescription {
        return errs.Invalid(fmt.Sprintf("Descrição deve ter no máximo %d caracteres", MaxDescription))
    }

    var msgs []string
    switch e.Type {
    case ledger.EntryReceita:
        if e.ClientID == nil { msgs = append(msgs, "Para receitas, cliente é obrigatório") }
        if e.Invoice == "" { msgs = append(msgs, "Para receitas, nota fiscal é obrigatória") }
    case ledger.EntryDespesa:
        if e.SupplierID == nil { msgs = append(msgs, "Para despesas, fornecedor é obrigatório") }
    }
    if len(msgs) > 0 { return errs.Invalid(msgs...) }

    return s.checkReferences(ctx, e)
}

func (s *service) checkReferences(ctx context.Context, e ledger.Entry) error {
    var msgs []string
    ok, err := s.repo.Exists(ctx, ledger.EntityCategory, e.CategoryID)
    if err != nil { return err }
    if !ok { msgs = append(msgs, "Categoria não encontrada") }

    sc, err := s.repo.GetSubcategory(ctx, e.SubcategoryID)
    switch {
    case errors.Is(err, errs.ErrNotFound):
        msgs = append(msgs, "Subcategoria não encontrada")
    case err != nil:
        return err
    case ok && sc.CategoryID != e.CategoryID:
        msgs = append(msgs, "Subcategoria não pertence à categoria informada")
    }

    refs := []struct {
        entity ledger.Entity
        id     *int64
        msg    string
    }{
        {ledger.EntityClient, e.ClientID, "Cliente não encontrado"},
        {ledger.EntitySupplier, e.SupplierID, "Fornecedor não encontrado"},
        {ledger.EntityEmployee, e.EmployeeID, "Funcionário não encontrado"},
    }
    for _, ref := range refs {
        if ref.id == nil { continue }
        found, err := s.repo.Exists(ctx, ref.entity, *ref.id)
        if err != nil { return err }
        if !found { msgs = append(msgs, ref.msg) }
    }
    if len(msgs) > 0 { return errs.Invalid(msgs...) }
    return nil
}

// validate maps a validation or lookup failure onto a result.
func (s *service) validate(ctx context.Context, e ledger.Entry, prefix string) (ledger.Result, bool) {
    if err := s.Validate(ctx, e); err != nil { return ledger.FailedWith(prefix, err), false }
    if e.ClientID != nil && e.SupplierID != nil {
        s.log.Warn("entry references both client and supplier", "type", e.Type, "cliente_id", *e.ClientID, "fornecedor_id", *e.SupplierID)
    }
    return ledger.Result{}, true
}

func (s *service) Create(ctx context.Context, e ledger.Entry) ledger.Result {
    e = normalize(e)
    if r, ok := s.validate(ctx, e, "Erro ao criar lançamento"); !ok { return r }
    now := s.now()
    e.ID, e.CreatedAt, e.UpdatedAt = 0, now, now
    created, err := s.writer.CreateEntry(ctx, e)
    if err != nil { return ledger.FailedWith("Erro ao criar lançamento", err) }
    s.log.Debug("entry created", "id", created.ID, "type", created.Type, "date", created.Date)
    return ledger.Succeeded(created.ID, fmt.Sprintf("Lançamento criado com sucesso (ID: %d)", created.ID))
}

func (s *service) Get(ctx context.Context, id int64) (ledger.Entry, error) {
    return s.repo.GetEntry(ctx, id)
}

func (s *service) ListAll(ctx context.Context) ([]ledger.Entry, error) {
    return s.repo.ListEntries(ctx, ledger.Filter{})
}

func (s *service) ListByPeriod(ctx context.Context, start, end string) ([]ledger.Entry, error) {
    return s.Search(ctx, ledger.Filter{Start: start, End: end})
}

func (s *service) ListByType(ctx context.Context, t ledger.EntryType) ([]ledger.Entry, error) {
    if !t.Valid() { return nil, errs.Invalid("Tipo inválido. Use Receita ou Despesa") }
    return s.repo.ListEntries(ctx, ledger.Filter{Type: t})
}

func (s *service) ListByCategory(ctx context.Context, categoryID int64) ([]ledger.Entry, error) {
    return s.repo.ListEntries(ctx, ledger.Filter{CategoryID: categoryID})
}

// ListByClient returns the income entries of a client.
func (s *service) ListByClient(ctx context.Context, clientID int64) ([]ledger.Entry, error) {
    return s.repo.ListEntries(ctx, ledger.Filter{ClientID: clientID, Type: ledger.EntryReceita})
}

// ListBySupplier returns the expense entries of a supplier.
func (s *service) ListBySupplier(ctx context.Context, supplierID int64) ([]ledger.Entry, error) {
    return s.repo.ListEntries(ctx, ledger.Filter{SupplierID: supplierID, Type: ledger.EntryDespesa})
}

func (s *service) Search(ctx context.Context, f ledger.Filter) ([]ledger.Entry, error) {
    if err := f.Validate(); err != nil { return nil, err }
    return s.repo.ListEntries(ctx, f)
}

func (s *service) Update(ctx context.Context, id int64, e ledger.Entry) ledger.Result {
    before, err := s.repo.GetEntry(ctx, id)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao atualizar lançamento", err) }
    e = normalize(e)
    if r, ok := s.validate(ctx, e, "Erro ao atualizar lançamento"); !ok { return r }
    e.ID, e.CreatedAt, e.UpdatedAt = id, before.CreatedAt, s.now()
    if _, err := s.writer.UpdateEntry(ctx, e); err != nil {
        if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgNotFound) }
        return ledger.FailedWith("Erro ao atualizar lançamento", err)
    }
    return ledger.Succeeded(id, "Lançamento atualizado com sucesso")
}

func (s *service) Delete(ctx context.Context, id int64) ledger.Result {
    err := s.writer.DeleteEntry(ctx, id)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao deletar lançamento", err) }
    s.log.Debug("entry deleted", "id", id)
    return ledger.Succeeded(id, "Lançamento deletado com sucesso")
}
