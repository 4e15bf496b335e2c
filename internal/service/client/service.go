// Package client implements the customer registry: format validation, unique
// document and e-mail, soft delete and an audit record per mutation.
package client

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
    "strings"
    "time"

    "github.com/tinoosan/fluxo/internal/audit"
    "github.com/tinoosan/fluxo/internal/brdoc"
    "github.com/tinoosan/fluxo/internal/errs"
    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/service/party"
)

type Repo interface {
    GetClient(ctx context.Context, id int64) (ledger.Client, error)
    FindClientByDocument(ctx context.Context, doc string) (ledger.Client, error)
    FindClientByEmail(ctx context.Context, email string) (ledger.Client, error)
    ListClients(ctx context.Context, q ledger.ListQuery) ([]ledger.Client, error)
    CountClients(ctx context.Context, status ledger.Status) (int64, error)
}

type Writer interface {
    CreateClient(ctx context.Context, c ledger.Client) (ledger.Client, error)
    UpdateClient(ctx context.Context, c ledger.Client) (ledger.Client, error)
    SetClientStatus(ctx context.Context, id int64, status ledger.Status, at time.Time) error
}

type Service interface {
    Validate(c ledger.Client) error
    Create(ctx context.Context, c ledger.Client) ledger.Result
    Get(ctx context.Context, id int64) (ledger.Client, error)
    GetByDocument(ctx context.Context, doc string) (ledger.Client, error)
    List(ctx context.Context, q ledger.ListQuery) ([]ledger.Client, error)
    Update(ctx context.Context, id int64, c ledger.Client) ledger.Result
    SoftDelete(ctx context.Context, id int64) ledger.Result
    Count(ctx context.Context) (int64, error)
    CountByStatus(ctx context.Context, status ledger.Status) (int64, error)
    LookupAddress(ctx context.Context, cep string) (ledger.Address, error)
}

type service struct {
    repo   Repo
    writer Writer
    trail  audit.Recorder
    lookup party.AddressLookup
    log    *slog.Logger
    now    func() time.Time
}

func New(repo Repo, writer Writer, trail audit.Recorder, lookup party.AddressLookup, logger *slog.Logger) Service {
    if logger == nil { logger = slog.Default() }
    return &service{repo: repo, writer: writer, trail: trail, lookup: lookup, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

const msgNotFound = "Cliente não encontrado"

func normalize(c ledger.Client) ledger.Client {
    c.Name = strings.TrimSpace(c.Name)
    c.Document = brdoc.Digits(c.Document)
    c.Email = brdoc.NormalizeEmail(c.Email)
    c.Phone = brdoc.Digits(c.Phone)
    c.Address = party.NormalizeAddress(c.Address)
    c.Notes = strings.TrimSpace(c.Notes)
    if c.Kind == "" { c.Kind = party.KindOf(c.Document) }
    if c.Status == "" { c.Status = ledger.StatusAtivo }
    return c
}

// Validate checks a normalized client and reports every violation at once.
func (s *service) Validate(c ledger.Client) error {
    var p party.Problems
    p.Check(party.MinLen(c.Name, 3), "Nome deve ter no mínimo 3 caracteres")
    p.Check(brdoc.SimpleEmail(c.Email), "Email inválido")
    party.CheckPhone(&p, c.Phone)
    party.CheckDocument(&p, c.Kind, c.Document)
    party.CheckAddress(&p, c.Address)
    p.Check(c.Status.In(ledger.ClientStatuses), "Status inválido")
    return p.Err()
}

// unique rejects a document or e-mail already used by a client other than selfID.
func (s *service) unique(ctx context.Context, c ledger.Client, selfID int64) (ledger.Result, bool) {
    other, err := s.repo.FindClientByDocument(ctx, c.Document)
    switch {
    case err == nil && other.ID != selfID:
        if selfID == 0 { return ledger.Failed(errs.ErrConflict, brdoc.DocumentLabel(c.Document)+" já cadastrado no sistema"), false }
        return ledger.Failed(errs.ErrConflict, brdoc.DocumentLabel(c.Document)+" já cadastrado por outro cliente"), false
    case err != nil && !errors.Is(err, errs.ErrNotFound):
        return ledger.FailedWith("Erro ao verificar documento", err), false
    }
    other, err = s.repo.FindClientByEmail(ctx, c.Email)
    switch {
    case err == nil && other.ID != selfID:
        if selfID == 0 { return ledger.Failed(errs.ErrConflict, "Email já cadastrado no sistema"), false }
        return ledger.Failed(errs.ErrConflict, "Email já cadastrado por outro cliente"), false
    case err != nil && !errors.Is(err, errs.ErrNotFound):
        return ledger.FailedWith("Erro ao verificar email", err), false
    }
    return ledger.Result{}, true
}

func (s *service) Create(ctx context.Context, c ledger.Client) ledger.Result {
    c = normalize(c)
    if err := s.Validate(c); err != nil { return ledger.FailedWith("", err) }
    if r, ok := s.unique(ctx, c, 0); !ok { return r }
    now := s.now()
    c.ID, c.CreatedAt, c.UpdatedAt = 0, now, now
    created, err := s.writer.CreateClient(ctx, c)
    if err != nil { return ledger.FailedWith("Erro ao criar cliente", err) }
    _ = s.trail.Record(ctx, ledger.EntityClient, ledger.OpInsert, created.ID, nil, created)
    s.log.Info("client created", "id", created.ID)
    return ledger.Succeeded(created.ID, fmt.Sprintf("Cliente criado com sucesso (ID: %d)", created.ID))
}

func (s *service) Get(ctx context.Context, id int64) (ledger.Client, error) {
    return s.repo.GetClient(ctx, id)
}

func (s *service) GetByDocument(ctx context.Context, doc string) (ledger.Client, error) {
    d := brdoc.Digits(doc)
    if d == "" { return ledger.Client{}, errs.ErrNotFound }
    return s.repo.FindClientByDocument(ctx, d)
}

func (s *service) List(ctx context.Context, q ledger.ListQuery) ([]ledger.Client, error) {
    if q.Status != "" && !q.Status.In(ledger.ClientStatuses) { return nil, errs.Invalid("Status inválido") }
    return s.repo.ListClients(ctx, q.Normalize())
}

func (s *service) Update(ctx context.Context, id int64, c ledger.Client) ledger.Result {
    before, err := s.repo.GetClient(ctx, id)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao atualizar cliente", err) }
    if c.Status == "" { c.Status = before.Status }
    c = normalize(c)
    if err := s.Validate(c); err != nil { return ledger.FailedWith("", err) }
    if r, ok := s.unique(ctx, c, id); !ok { return r }
    c.ID, c.CreatedAt, c.UpdatedAt = id, before.CreatedAt, s.now()
    after, err := s.writer.UpdateClient(ctx, c)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao atualizar cliente", err) }
    _ = s.trail.Record(ctx, ledger.EntityClient, ledger.OpUpdate, id, before, after)
    return ledger.Succeeded(id, "Cliente atualizado com sucesso")
}

// SoftDelete flips the status to inativo. The row is kept; deleting an already
// inactive client changes nothing.
func (s *service) SoftDelete(ctx context.Context, id int64) ledger.Result {
    before, err := s.repo.GetClient(ctx, id)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao deletar cliente", err) }
    if before.Status == ledger.StatusInativo { return ledger.Succeeded(id, "Cliente já está inativo") }
    at := s.now()
    if err := s.writer.SetClientStatus(ctx, id, ledger.StatusInativo, at); err != nil {
        return ledger.FailedWith("Erro ao deletar cliente", err)
    }
    after := before
    after.Status, after.UpdatedAt = ledger.StatusInativo, at
    _ = s.trail.Record(ctx, ledger.EntityClient, ledger.OpDelete, id, before, after)
    s.log.Info("client deactivated", "id", id)
    return ledger.Succeeded(id, "Cliente desativado com sucesso")
}

func (s *service) Count(ctx context.Context) (int64, error) { return s.repo.CountClients(ctx, "") }

func (s *service) CountByStatus(ctx context.Context, status ledger.Status) (int64, error) {
    return s.repo.CountClients(ctx, status)
}

func (s *service) LookupAddress(ctx context.Context, cep string) (ledger.Address, error) {
    return party.Lookup(ctx, s.lookup, cep)
}
