// Package supplier implements the vendor registry.
package supplier

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
    "strings"
    "time"

    "github.com/go-playground/validator/v10"

    "github.com/tinoosan/fluxo/internal/audit"
    "github.com/tinoosan/fluxo/internal/brdoc"
    "github.com/tinoosan/fluxo/internal/errs"
    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/service/party"
)

type Repo interface {
    GetSupplier(ctx context.Context, id int64) (ledger.Supplier, error)
    FindSupplierByDocument(ctx context.Context, doc string) (ledger.Supplier, error)
    FindSupplierByName(ctx context.Context, name string) (ledger.Supplier, error)
    FindSupplierByEmail(ctx context.Context, email string) (ledger.Supplier, error)
    ListSuppliers(ctx context.Context, q ledger.ListQuery) ([]ledger.Supplier, error)
    SearchSuppliers(ctx context.Context, fragment string) ([]ledger.Supplier, error)
    CountSuppliers(ctx context.Context, status ledger.Status) (int64, error)
}

type Writer interface {
    CreateSupplier(ctx context.Context, sp ledger.Supplier) (ledger.Supplier, error)
    UpdateSupplier(ctx context.Context, sp ledger.Supplier) (ledger.Supplier, error)
    SetSupplierStatus(ctx context.Context, id int64, status ledger.Status, at time.Time) error
}

type Service interface {
    Validate(sp ledger.Supplier) error
    Create(ctx context.Context, sp ledger.Supplier) ledger.Result
    Get(ctx context.Context, id int64) (ledger.Supplier, error)
    GetByDocument(ctx context.Context, doc string) (ledger.Supplier, error)
    List(ctx context.Context, q ledger.ListQuery) ([]ledger.Supplier, error)
    SearchByName(ctx context.Context, fragment string) ([]ledger.Supplier, error)
    Update(ctx context.Context, id int64, sp ledger.Supplier) ledger.Result
    SoftDelete(ctx context.Context, id int64) ledger.Result
    Activate(ctx context.Context, id int64) ledger.Result
    Count(ctx context.Context) (int64, error)
    CountByStatus(ctx context.Context, status ledger.Status) (int64, error)
    LookupAddress(ctx context.Context, cep string) (ledger.Address, error)
}

type service struct {
    repo     Repo
    writer   Writer
    trail    audit.Recorder
    lookup   party.AddressLookup
    validate *validator.Validate
    log      *slog.Logger
    now      func() time.Time
}

func New(repo Repo, writer Writer, trail audit.Recorder, lookup party.AddressLookup, logger *slog.Logger) Service {
    if logger == nil { logger = slog.Default() }
    return &service{
        repo: repo, writer: writer, trail: trail, lookup: lookup,
        validate: validator.New(),
        log:      logger,
        now:      func() time.Time { return time.Now().UTC() },
    }
}

const msgNotFound = "Fornecedor não encontrado"

func normalize(sp ledger.Supplier) ledger.Supplier {
    sp.Name = strings.TrimSpace(sp.Name)
    sp.TradeName = strings.TrimSpace(sp.TradeName)
    sp.TaxID = brdoc.Digits(sp.TaxID)
    sp.Email = brdoc.NormalizeEmail(sp.Email)
    sp.Phone = brdoc.Digits(sp.Phone)
    sp.Address = party.NormalizeAddress(sp.Address)
    sp.Notes = strings.TrimSpace(sp.Notes)
    if sp.Kind == "" { sp.Kind = party.KindOf(sp.TaxID) }
    if sp.Status == "" { sp.Status = ledger.StatusAtivo }
    return sp
}

// Validate checks a normalized supplier. The address is optional but, once
// any field is given, it must be complete.
func (s *service) Validate(sp ledger.Supplier) error {
    var p party.Problems
    p.Check(sp.Name != "", "Nome é obrigatório")
    party.CheckDocument(&p, sp.Kind, sp.TaxID)
    p.Check(s.validate.Var(sp.Email, "required,email") == nil, "Email inválido")
    if !brdoc.ValidPhone(sp.Phone) {
        p.Add("Telefone inválido")
    } else {
        p.Check(brdoc.ValidAreaCode(sp.Phone), "DDD (código de área) inválido")
    }
    if sp.Kind == ledger.PersonJuridica { p.Check(sp.TradeName != "", "Nome fantasia é obrigatório para PJ") }
    if !party.IsBlank(sp.Address) { party.CheckAddress(&p, sp.Address) }
    p.Check(sp.Status.In(ledger.SupplierStatuses), "Status inválido")
    return p.Err()
}

func (s *service) unique(ctx context.Context, sp ledger.Supplier, selfID int64) (ledger.Result, bool) {
    other, err := s.repo.FindSupplierByDocument(ctx, sp.TaxID)
    switch {
    case err == nil && other.ID != selfID:
        return ledger.Failed(errs.ErrConflict, fmt.Sprintf("Fornecedor com %s %s já existe", brdoc.DocumentLabel(sp.TaxID), sp.TaxID)), false
    case err != nil && !errors.Is(err, errs.ErrNotFound):
        return ledger.FailedWith("Erro ao verificar documento", err), false
    }
    other, err = s.repo.FindSupplierByName(ctx, sp.Name)
    switch {
    case err == nil && other.ID != selfID:
        return ledger.Failed(errs.ErrConflict, fmt.Sprintf("Fornecedor com nome '%s' já existe", sp.Name)), false
    case err != nil && !errors.Is(err, errs.ErrNotFound):
        return ledger.FailedWith("Erro ao verificar nome", err), false
    }
    other, err = s.repo.FindSupplierByEmail(ctx, sp.Email)
    switch {
    case err == nil && other.ID != selfID:
        if selfID == 0 { return ledger.Failed(errs.ErrConflict, "Email já cadastrado no sistema"), false }
        return ledger.Failed(errs.ErrConflict, "Email já cadastrado por outro fornecedor"), false
    case err != nil && !errors.Is(err, errs.ErrNotFound):
        return ledger.FailedWith("Erro ao verificar email", err), false
    }
    return ledger.Result{}, true
}

func (s *service) Create(ctx context.Context, sp ledger.Supplier) ledger.Result {
    sp = normalize(sp)
    if err := s.Validate(sp); err != nil { return ledger.FailedWith("", err) }
    if r, ok := s.unique(ctx, sp, 0); !ok { return r }
    now := s.now()
    sp.ID, sp.CreatedAt, sp.UpdatedAt = 0, now, now
    created, err := s.writer.CreateSupplier(ctx, sp)
    if err != nil { return ledger.FailedWith("Erro ao criar fornecedor", err) }
    _ = s.trail.Record(ctx, ledger.EntitySupplier, ledger.OpInsert, created.ID, nil, created)
    s.log.Info("supplier created", "id", created.ID)
    return ledger.Succeeded(created.ID, fmt.Sprintf("Fornecedor criado com sucesso (ID: %d)", created.ID))
}

func (s *service) Get(ctx context.Context, id int64) (ledger.Supplier, error) {
    return s.repo.GetSupplier(ctx, id)
}

func (s *service) GetByDocument(ctx context.Context, doc string) (ledger.Supplier, error) {
    d := brdoc.Digits(doc)
    if d == "" { return ledger.Supplier{}, errs.ErrNotFound }
    return s.repo.FindSupplierByDocument(ctx, d)
}

func (s *service) List(ctx context.Context, q ledger.ListQuery) ([]ledger.Supplier, error) {
    if q.Status != "" && !q.Status.In(ledger.SupplierStatuses) { return nil, errs.Invalid("Status inválido") }
    return s.repo.ListSuppliers(ctx, q.Normalize())
}

// SearchByName matches a case-insensitive fragment of the legal or trade name.
func (s *service) SearchByName(ctx context.Context, fragment string) ([]ledger.Supplier, error) {
    fragment = strings.TrimSpace(fragment)
    if fragment == "" { return s.repo.ListSuppliers(ctx, ledger.ListQuery{}.Normalize()) }
    return s.repo.SearchSuppliers(ctx, fragment)
}

func (s *service) Update(ctx context.Context, id int64, sp ledger.Supplier) ledger.Result {
    before, err := s.repo.GetSupplier(ctx, id)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao atualizar fornecedor", err) }
    if sp.Status == "" { sp.Status = before.Status }
    sp = normalize(sp)
    if err := s.Validate(sp); err != nil { return ledger.FailedWith("", err) }
    if r, ok := s.unique(ctx, sp, id); !ok { return r }
    sp.ID, sp.CreatedAt, sp.UpdatedAt = id, before.CreatedAt, s.now()
    after, err := s.writer.UpdateSupplier(ctx, sp)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao atualizar fornecedor", err) }
    _ = s.trail.Record(ctx, ledger.EntitySupplier, ledger.OpUpdate, id, before, after)
    return ledger.Succeeded(id, "Fornecedor atualizado com sucesso")
}

func (s *service) SoftDelete(ctx context.Context, id int64) ledger.Result {
    return s.setStatus(ctx, id, ledger.StatusInativo, ledger.OpDelete)
}

// Activate reverses a soft delete.
func (s *service) Activate(ctx context.Context, id int64) ledger.Result {
    return s.setStatus(ctx, id, ledger.StatusAtivo, ledger.OpUpdate)
}

func (s *service) setStatus(ctx context.Context, id int64, status ledger.Status, op ledger.Operation) ledger.Result {
    word := "desativado"
    if status == ledger.StatusAtivo { word = "ativado" }
    before, err := s.repo.GetSupplier(ctx, id)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao alterar status do fornecedor", err) }
    if before.Status == status { return ledger.Succeeded(id, fmt.Sprintf("Fornecedor já está %s", status)) }
    at := s.now()
    if err := s.writer.SetSupplierStatus(ctx, id, status, at); err != nil {
        return ledger.FailedWith("Erro ao alterar status do fornecedor", err)
    }
    after := before
    after.Status, after.UpdatedAt = status, at
    _ = s.trail.Record(ctx, ledger.EntitySupplier, op, id, before, after)
    s.log.Info("supplier status changed", "id", id, "status", status)
    return ledger.Succeeded(id, "Fornecedor "+word+" com sucesso")
}

func (s *service) Count(ctx context.Context) (int64, error) { return s.repo.CountSuppliers(ctx, "") }

func (s *service) CountByStatus(ctx context.Context, status ledger.Status) (int64, error) {
    return s.repo.CountSuppliers(ctx, status)
}

func (s *service) LookupAddress(ctx context.Context, cep string) (ledger.Address, error) {
    return party.Lookup(ctx, s.lookup, cep)
}
