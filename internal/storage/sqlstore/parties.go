package sqlstore

import (
    "context"
    "time"

    "github.com/govalues/money"

    "github.com/tinoosan/fluxo/internal/ledger"
    "github.com/tinoosan/fluxo/internal/storage/gateway"
)

const addressCols = `cep, logradouro, numero, complemento, bairro, cidade, uf`

func addressArgs(a ledger.Address) []any {
    return []any{a.PostalCode, a.Street, a.Number, a.Complement, a.Neighborhood, a.City, a.State}
}

func addressDest(a *ledger.Address) []any {
    return []any{&a.PostalCode, &a.Street, &a.Number, &a.Complement, &a.Neighborhood, &a.City, &a.State}
}

// page appends the status predicate, ordering and paging shared by every registry listing.
func page(base string, q ledger.ListQuery) (string, []any) {
    q = q.Normalize()
    args := make([]any, 0, 3)
    if q.Status != "" { base += ` WHERE status = ?`; args = append(args, string(q.Status)) }
    base += ` ORDER BY data_cadastro DESC, id DESC LIMIT ? OFFSET ?`
    return base, append(args, q.Limit, q.Offset)
}

func (s *Store) countStatus(ctx context.Context, table string, status ledger.Status) (int64, error) {
    if status == "" { return s.count(ctx, `SELECT COUNT(*) FROM `+table) }
    return s.count(ctx, `SELECT COUNT(*) FROM `+table+` WHERE status = ?`, string(status))
}

func (s *Store) setStatus(ctx context.Context, table string, id int64, status ledger.Status, at time.Time) error {
    return affected(s.g.Update(ctx, `UPDATE `+table+` SET status = ?, data_atualizacao = ? WHERE id = ?`, string(status), at, id))
}

// --- Clients ---

const clientCols = `id, tipo_pessoa, nome, documento, email, telefone, ` + addressCols + `, status, observacoes, data_cadastro, data_atualizacao`

func scanClient(r gateway.Scanner, c *ledger.Client) error {
    var kind, status string
    dest := []any{&c.ID, &kind, &c.Name, &c.Document, &c.Email, &c.Phone}
    dest = append(dest, addressDest(&c.Address)...)
    dest = append(dest, &status, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
    if err := r.Scan(dest...); err != nil { return err }
    c.Kind, c.Status = ledger.PersonKind(kind), ledger.Status(status)
    return nil
}

func (s *Store) clientWhere(ctx context.Context, where string, arg any) (ledger.Client, error) {
    var c ledger.Client
    err := s.one(ctx, `SELECT `+clientCols+` FROM clientes WHERE `+where, []any{arg}, func(r gateway.Scanner) error {
        return scanClient(r, &c)
    })
    return c, err
}

func (s *Store) CreateClient(ctx context.Context, c ledger.Client) (ledger.Client, error) {
    args := []any{string(c.Kind), c.Name, c.Document, c.Email, c.Phone}
    args = append(args, addressArgs(c.Address)...)
    args = append(args, string(c.Status), c.Notes, c.CreatedAt, c.UpdatedAt)
    id, err := s.g.Insert(ctx, `INSERT INTO clientes (tipo_pessoa, nome, documento, email, telefone, `+addressCols+`, status, observacoes, data_cadastro, data_atualizacao)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
    if err != nil { return ledger.Client{}, err }
    c.ID = id
    return c, nil
}

func (s *Store) GetClient(ctx context.Context, id int64) (ledger.Client, error) {
    return s.clientWhere(ctx, `id = ?`, id)
}

func (s *Store) FindClientByDocument(ctx context.Context, doc string) (ledger.Client, error) {
    return s.clientWhere(ctx, `documento = ?`, doc)
}

func (s *Store) FindClientByEmail(ctx context.Context, email string) (ledger.Client, error) {
    return s.clientWhere(ctx, `email = ?`, email)
}

func (s *Store) ListClients(ctx context.Context, q ledger.ListQuery) ([]ledger.Client, error) {
    query, args := page(`SELECT `+clientCols+` FROM clientes`, q)
    out := make([]ledger.Client, 0)
    err := s.g.Query(ctx, query, args, func(r gateway.Scanner) error {
        var c ledger.Client
        if err := scanClient(r, &c); err != nil { return err }
        out = append(out, c)
        return nil
    })
    return out, err
}

func (s *Store) CountClients(ctx context.Context, status ledger.Status) (int64, error) {
    return s.countStatus(ctx, "clientes", status)
}

func (s *Store) UpdateClient(ctx context.Context, c ledger.Client) (ledger.Client, error) {
    args := []any{string(c.Kind), c.Name, c.Document, c.Email, c.Phone}
    args = append(args, addressArgs(c.Address)...)
    args = append(args, string(c.Status), c.Notes, c.UpdatedAt, c.ID)
    err := affected(s.g.Update(ctx, `UPDATE clientes SET tipo_pessoa = ?, nome = ?, documento = ?, email = ?, telefone = ?,
        cep = ?, logradouro = ?, numero = ?, complemento = ?, bairro = ?, cidade = ?, uf = ?,
        status = ?, observacoes = ?, data_atualizacao = ? WHERE id = ?`, args...))
    if err != nil { return ledger.Client{}, err }
    return c, nil
}

func (s *Store) SetClientStatus(ctx context.Context, id int64, status ledger.Status, at time.Time) error {
    return s.setStatus(ctx, "clientes", id, status, at)
}

// --- Suppliers ---

const supplierCols = `id, tipo, nome, nome_fantasia, cpf_cnpj, email, telefone, ` + addressCols + `, status, observacoes, data_cadastro, data_atualizacao`

func scanSupplier(r gateway.Scanner, sp *ledger.Supplier) error {
    var kind, status string
    dest := []any{&sp.ID, &kind, &sp.Name, &sp.TradeName, &sp.TaxID, &sp.Email, &sp.Phone}
    dest = append(dest, addressDest(&sp.Address)...)
    dest = append(dest, &status, &sp.Notes, &sp.CreatedAt, &sp.UpdatedAt)
    if err := r.Scan(dest...); err != nil { return err }
    sp.Kind, sp.Status = ledger.PersonKind(kind), ledger.Status(status)
    return nil
}

func (s *Store) collectSuppliers(ctx context.Context, query string, args []any) ([]ledger.Supplier, error) {
    out := make([]ledger.Supplier, 0)
    err := s.g.Query(ctx, query, args, func(r gateway.Scanner) error {
        var sp ledger.Supplier
        if err := scanSupplier(r, &sp); err != nil { return err }
        out = append(out, sp)
        return nil
    })
    return out, err
}

func (s *Store) supplierWhere(ctx context.Context, where string, arg any) (ledger.Supplier, error) {
    var sp ledger.Supplier
    err := s.one(ctx, `SELECT `+supplierCols+` FROM fornecedores WHERE `+where, []any{arg}, func(r gateway.Scanner) error {
        return scanSupplier(r, &sp)
    })
    return sp, err
}

func (s *Store) CreateSupplier(ctx context.Context, sp ledger.Supplier) (ledger.Supplier, error) {
    args := []any{string(sp.Kind), sp.Name, sp.TradeName, sp.TaxID, sp.Email, sp.Phone}
    args = append(args, addressArgs(sp.Address)...)
    args = append(args, string(sp.Status), sp.Notes, sp.CreatedAt, sp.UpdatedAt)
    id, err := s.g.Insert(ctx, `INSERT INTO fornecedores (tipo, nome, nome_fantasia, cpf_cnpj, email, telefone, `+addressCols+`, status, observacoes, data_cadastro, data_atualizacao)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
    if err != nil { return ledger.Supplier{}, err }
    sp.ID = id
    return sp, nil
}

func (s *Store) GetSupplier(ctx context.Context, id int64) (ledger.Supplier, error) {
    return s.supplierWhere(ctx, `id = ?`, id)
}

func (s *Store) FindSupplierByDocument(ctx context.Context, doc string) (ledger.Supplier, error) {
    return s.supplierWhere(ctx, `cpf_cnpj = ?`, doc)
}

func (s *Store) FindSupplierByName(ctx context.Context, name string) (ledger.Supplier, error) {
    return s.supplierWhere(ctx, `nome = ?`, name)
}

func (s *Store) FindSupplierByEmail(ctx context.Context, email string) (ledger.Supplier, error) {
    return s.supplierWhere(ctx, `email = ?`, email)
}

func (s *Store) ListSuppliers(ctx context.Context, q ledger.ListQuery) ([]ledger.Supplier, error) {
    query, args := page(`SELECT `+supplierCols+` FROM fornecedores`, q)
    return s.collectSuppliers(ctx, query, args)
}

// SearchSuppliers matches the fragment against legal and trade names, case-insensitively.
func (s *Store) SearchSuppliers(ctx context.Context, fragment string) ([]ledger.Supplier, error) {
    like := contains(fragment)
    return s.collectSuppliers(ctx, `SELECT `+supplierCols+` FROM fornecedores
        WHERE LOWER(nome) LIKE ? ESCAPE '\' OR LOWER(nome_fantasia) LIKE ? ESCAPE '\' ORDER BY nome`, []any{like, like})
}

func (s *Store) CountSuppliers(ctx context.Context, status ledger.Status) (int64, error) {
    return s.countStatus(ctx, "fornecedores", status)
}

func (s *Store) UpdateSupplier(ctx context.Context, sp ledger.Supplier) (ledger.Supplier, error) {
    args := []any{string(sp.Kind), sp.Name, sp.TradeName, sp.TaxID, sp.Email, sp.Phone}
    args = append(args, addressArgs(sp.Address)...)
    args = append(args, string(sp.Status), sp.Notes, sp.UpdatedAt, sp.ID)
    err := affected(s.g.Update(ctx, `UPDATE fornecedores SET tipo = ?, nome = ?, nome_fantasia = ?, cpf_cnpj = ?, email = ?, telefone = ?,
        cep = ?, logradouro = ?, numero = ?, complemento = ?, bairro = ?, cidade = ?, uf = ?,
        status = ?, observacoes = ?, data_atualizacao = ? WHERE id = ?`, args...))
    if err != nil { return ledger.Supplier{}, err }
    return sp, nil
}

func (s *Store) SetSupplierStatus(ctx context.Context, id int64, status ledger.Status, at time.Time) error {
    return s.setStatus(ctx, "fornecedores", id, status, at)
}

// --- Employees ---

const employeeCols = `id, nome, cpf, cargo, salario, data_admissao, email, telefone, ` + addressCols + `, status, observacoes, data_cadastro, data_atualizacao`

func scanEmployee(r gateway.Scanner, e *ledger.Employee) error {
    var status, hired string
    var cents int64
    dest := []any{&e.ID, &e.Name, &e.CPF, &e.Role, &cents, &hired, &e.Email, &e.Phone}
    dest = append(dest, addressDest(&e.Address)...)
    dest = append(dest, &status, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
    if err := r.Scan(dest...); err != nil { return err }
    d, err := time.Parse(ledger.DateLayout, hired)
    if err != nil { return err }
    e.HiredOn, e.Salary, e.Status = d, ledger.FromCents(cents), ledger.Status(status)
    return nil
}

func (s *Store) employeeWhere(ctx context.Context, where string, arg any) (ledger.Employee, error) {
    var e ledger.Employee
    err := s.one(ctx, `SELECT `+employeeCols+` FROM funcionarios WHERE `+where, []any{arg}, func(r gateway.Scanner) error {
        return scanEmployee(r, &e)
    })
    return e, err
}

func (s *Store) CreateEmployee(ctx context.Context, e ledger.Employee) (ledger.Employee, error) {
    args := []any{e.Name, e.CPF, e.Role, ledger.Cents(e.Salary), e.HiredOn.Format(ledger.DateLayout), e.Email, e.Phone}
    args = append(args, addressArgs(e.Address)...)
    args = append(args, string(e.Status), e.Notes, e.CreatedAt, e.UpdatedAt)
    id, err := s.g.Insert(ctx, `INSERT INTO funcionarios (nome, cpf, cargo, salario, data_admissao, email, telefone, `+addressCols+`, status, observacoes, data_cadastro, data_atualizacao)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
    if err != nil { return ledger.Employee{}, err }
    e.ID = id
    return e, nil
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (ledger.Employee, error) {
    return s.employeeWhere(ctx, `id = ?`, id)
}

func (s *Store) FindEmployeeByCPF(ctx context.Context, cpf string) (ledger.Employee, error) {
    return s.employeeWhere(ctx, `cpf = ?`, cpf)
}

func (s *Store) FindEmployeeByEmail(ctx context.Context, email string) (ledger.Employee, error) {
    return s.employeeWhere(ctx, `email = ?`, email)
}

func (s *Store) ListEmployees(ctx context.Context, q ledger.ListQuery) ([]ledger.Employee, error) {
    query, args := page(`SELECT `+employeeCols+` FROM funcionarios`, q)
    out := make([]ledger.Employee, 0)
    err := s.g.Query(ctx, query, args, func(r gateway.Scanner) error {
        var e ledger.Employee
        if err := scanEmployee(r, &e); err != nil { return err }
        out = append(out, e)
        return nil
    })
    return out, err
}

func (s *Store) CountEmployees(ctx context.Context, status ledger.Status) (int64, error) {
    return s.countStatus(ctx, "funcionarios", status)
}

func (s *Store) UpdateEmployee(ctx context.Context, e ledger.Employee) (ledger.Employee, error) {
    args := []any{e.Name, e.CPF, e.Role, ledger.Cents(e.Salary), e.HiredOn.Format(ledger.DateLayout), e.Email, e.Phone}
    args = append(args, addressArgs(e.Address)...)
    args = append(args, string(e.Status), e.Notes, e.UpdatedAt, e.ID)
    err := affected(s.g.Update(ctx, `UPDATE funcionarios SET nome = ?, cpf = ?, cargo = ?, salario = ?, data_admissao = ?, email = ?, telefone = ?,
        cep = ?, logradouro = ?, numero = ?, complemento = ?, bairro = ?, cidade = ?, uf = ?,
        status = ?, observacoes = ?, data_atualizacao = ? WHERE id = ?`, args...))
    if err != nil { return ledger.Employee{}, err }
    return e, nil
}

func (s *Store) SetEmployeeStatus(ctx context.Context, id int64, status ledger.Status, at time.Time) error {
    return s.setStatus(ctx, "funcionarios", id, status, at)
}

// SumSalaries totals the salaries of employees in status admitted on or before hiredBy (YYYY-MM-DD).
func (s *Store) SumSalaries(ctx context.Context, status ledger.Status, hiredBy string) (money.Amount, error) {
    cents, err := s.count(ctx, `SELECT CAST(COALESCE(SUM(salario), 0) AS BIGINT) FROM funcionarios WHERE status = ? AND data_admissao <= ?`,
        string(status), hiredBy)
    if err != nil { return ledger.Zero(), err }
    return ledger.FromCents(cents), nil
}
