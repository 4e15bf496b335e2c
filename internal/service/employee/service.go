// Package employee implements the staff registry and the monthly payroll total.
package employee

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
    "strings"
    "time"

    "github.com/govalues/money"

    "github.com/tinoosan/fluxo/internal/audit"
    "github.com/tinoosan/fluxo/internal/brdoc"
    "github.com/tinoosan/fluxo/internal/errs"
    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/service/party"
)

type Repo interface {
    GetEmployee(ctx context.Context, id int64) (ledger.Employee, error)
    FindEmployeeByCPF(ctx context.Context, cpf string) (ledger.Employee, error)
    FindEmployeeByEmail(ctx context.Context, email string) (ledger.Employee, error)
    ListEmployees(ctx context.Context, q ledger.ListQuery) ([]ledger.Employee, error)
    CountEmployees(ctx context.Context, status ledger.Status) (int64, error)
    SumSalaries(ctx context.Context, status ledger.Status, hiredBy string) (money.Amount, error)
}

type Writer interface {
    CreateEmployee(ctx context.Context, e ledger.Employee) (ledger.Employee, error)
    UpdateEmployee(ctx context.Context, e ledger.Employee) (ledger.Employee, error)
    SetEmployeeStatus(ctx context.Context, id int64, status ledger.Status, at time.Time) error
}

type Service interface {
    Validate(e ledger.Employee) error
    Create(ctx context.Context, e ledger.Employee) ledger.Result
    Get(ctx context.Context, id int64) (ledger.Employee, error)
    GetByDocument(ctx context.Context, cpf string) (ledger.Employee, error)
    List(ctx context.Context, q ledger.ListQuery) ([]ledger.Employee, error)
    Update(ctx context.Context, id int64, e ledger.Employee) ledger.Result
    SoftDelete(ctx context.Context, id int64) ledger.Result
    Count(ctx context.Context) (int64, error)
    CountByStatus(ctx context.Context, status ledger.Status) (int64, error)
    MonthlyPayroll(ctx context.Context, year int, month time.Month) (money.Amount, error)
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

const msgNotFound = "Funcionário não encontrado"

func normalize(e ledger.Employee) ledger.Employee {
    e.Name = strings.TrimSpace(e.Name)
    e.CPF = brdoc.Digits(e.CPF)
    e.Role = strings.TrimSpace(e.Role)
    e.Email = brdoc.NormalizeEmail(e.Email)
    e.Phone = brdoc.Digits(e.Phone)
    e.Address = party.NormalizeAddress(e.Address)
    e.Notes = strings.TrimSpace(e.Notes)
    if !e.HiredOn.IsZero() {
        y, m, d := e.HiredOn.Date()
        e.HiredOn = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
    }
    if e.Status == "" { e.Status = ledger.StatusAtivo }
    return e
}

// Validate checks a normalized employee against the current date.
func (s *service) Validate(e ledger.Employee) error {
    var p party.Problems
    p.Check(party.MinLen(e.Name, 3), "Nome deve ter no mínimo 3 caracteres")
    p.Check(len(e.CPF) == 11 && brdoc.ValidCPF(e.CPF), "CPF inválido")
    p.Check(e.Role != "", "Cargo inválido")
    p.Check(e.Salary.IsPos(), "Salário deve ser maior que zero")
    p.Check(ledger.InCents(e.Salary), "Salário deve ter no máximo 2 casas decimais")
    switch {
    case e.HiredOn.IsZero():
        p.Add("Data de admissão é obrigatória")
    case e.HiredOn.After(s.now()):
        p.Add("Data de admissão não pode ser no futuro")
    }
    p.Check(brdoc.SimpleEmail(e.Email), "Email inválido")
    party.CheckPhone(&p, e.Phone)
    party.CheckAddress(&p, e.Address)
    p.Check(e.Status.In(ledger.EmployeeStatuses), "Status inválido")
    return p.Err()
}

func (s *service) unique(ctx context.Context, e ledger.Employee, selfID int64) (ledger.Result, bool) {
    other, err := s.repo.FindEmployeeByCPF(ctx, e.CPF)
    switch {
    case err == nil && other.ID != selfID:
        if selfID == 0 { return ledger.Failed(errs.ErrConflict, "CPF já cadastrado no sistema"), false }
        return ledger.Failed(errs.ErrConflict, "CPF já cadastrado por outro funcionário"), false
    case err != nil && !errors.Is(err, errs.ErrNotFound):
        return ledger.FailedWith("Erro ao verificar CPF", err), false
    }
    other, err = s.repo.FindEmployeeByEmail(ctx, e.Email)
    switch {
    case err == nil && other.ID != selfID:
        if selfID == 0 { return ledger.Failed(errs.ErrConflict, "Email já cadastrado no sistema"), false }
        return ledger.Failed(errs.ErrConflict, "Email já cadastrado por outro funcionário"), false
    case err != nil && !errors.Is(err, errs.ErrNotFound):
        return ledger.FailedWith("Erro ao verificar email", err), false
    }
    return ledger.Result{}, true
}

func (s *service) Create(ctx context.Context, e ledger.Employee) ledger.Result {
    e = normalize(e)
    if err := s.Validate(e); err != nil { return ledger.FailedWith("", err) }
    if r, ok := s.unique(ctx, e, 0); !ok { return r }
    now := s.now()
    e.ID, e.CreatedAt, e.UpdatedAt = 0, now, now
    created, err := s.writer.CreateEmployee(ctx, e)
    if err != nil { return ledger.FailedWith("Erro ao criar funcionário", err) }
    _ = s.trail.Record(ctx, ledger.EntityEmployee, ledger.OpInsert, created.ID, nil, created)
    s.log.Info("employee created", "id", created.ID)
    return ledger.Succeeded(created.ID, fmt.Sprintf("Funcionário criado com sucesso (ID: %d)", created.ID))
}

func (s *service) Get(ctx context.Context, id int64) (ledger.Employee, error) {
    return s.repo.GetEmployee(ctx, id)
}

func (s *service) GetByDocument(ctx context.Context, cpf string) (ledger.Employee, error) {
    d := brdoc.Digits(cpf)
    if d == "" { return ledger.Employee{}, errs.ErrNotFound }
    return s.repo.FindEmployeeByCPF(ctx, d)
}

func (s *service) List(ctx context.Context, q ledger.ListQuery) ([]ledger.Employee, error) {
    if q.Status != "" && !q.Status.In(ledger.EmployeeStatuses) { return nil, errs.Invalid("Status inválido") }
    return s.repo.ListEmployees(ctx, q.Normalize())
}

func (s *service) Update(ctx context.Context, id int64, e ledger.Employee) ledger.Result {
    before, err := s.repo.GetEmployee(ctx, id)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao atualizar funcionário", err) }
    if e.Status == "" { e.Status = before.Status }
    e = normalize(e)
    if err := s.Validate(e); err != nil { return ledger.FailedWith("", err) }
    if r, ok := s.unique(ctx, e, id); !ok { return r }
    e.ID, e.CreatedAt, e.UpdatedAt = id, before.CreatedAt, s.now()
    after, err := s.writer.UpdateEmployee(ctx, e)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao atualizar funcionário", err) }
    _ = s.trail.Record(ctx, ledger.EntityEmployee, ledger.OpUpdate, id, before, after)
    return ledger.Succeeded(id, "Funcionário atualizado com sucesso")
}

func (s *service) SoftDelete(ctx context.Context, id int64) ledger.Result {
    before, err := s.repo.GetEmployee(ctx, id)
    if errors.Is(err, errs.ErrNotFound) { return ledger.Failed(errs.ErrNotFound, msgNotFound) }
    if err != nil { return ledger.FailedWith("Erro ao deletar funcionário", err) }
    if before.Status == ledger.StatusInativo { return ledger.Succeeded(id, "Funcionário já está inativo") }
    at := s.now()
    if err := s.writer.SetEmployeeStatus(ctx, id, ledger.StatusInativo, at); err != nil {
        return ledger.FailedWith("Erro ao deletar funcionário", err)
    }
    after := before
    after.Status, after.UpdatedAt = ledger.StatusInativo, at
    _ = s.trail.Record(ctx, ledger.EntityEmployee, ledger.OpDelete, id, before, after)
    s.log.Info("employee deactivated", "id", id)
    return ledger.Succeeded(id, "Funcionário desativado com sucesso")
}

func (s *service) Count(ctx context.Context) (int64, error) { return s.repo.CountEmployees(ctx, "") }

func (s *service) CountByStatus(ctx context.Context, status ledger.Status) (int64, error) {
    return s.repo.CountEmployees(ctx, status)
}

// MonthlyPayroll sums the salaries of active employees admitted on or before
// the last day of the month.
func (s *service) MonthlyPayroll(ctx context.Context, year int, month time.Month) (money.Amount, error) {
    if month < time.January || month > time.December { return ledger.Zero(), errs.Invalid("Mês inválido") }
    last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
    return s.repo.SumSalaries(ctx, ledger.StatusAtivo, last.Format(ledger.DateLayout))
}

func (s *service) LookupAddress(ctx context.Context, cep string) (ledger.Address, error) {
    return party.Lookup(ctx, s.lookup, cep)
}
