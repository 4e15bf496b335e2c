package ledger

import (
    "time"

    "github.com/govalues/money"
)

// Currency is the single currency of the ledger.
const Currency = "BRL"

// DateLayout is the calendar-date layout used for entries and filters.
const DateLayout = "2006-01-02"

// Category is the first level of the entry taxonomy.
type Category struct {
    ID          int64        `json:"id"`
    Name        string       `json:"nome"`
    Type        CategoryType `json:"tipo"`
    Description string       `json:"descricao"`
    Active      bool         `json:"ativo"`
    CreatedAt   time.Time    `json:"criado_em"`
}

// Subcategory belongs to exactly one category and is unique per (category, name).
type Subcategory struct {
    ID          int64     `json:"id"`
    CategoryID  int64     `json:"categoria_id"`
    Name        string    `json:"nome"`
    Description string    `json:"descricao"`
    Active      bool      `json:"ativo"`
    CreatedAt   time.Time `json:"criado_em"`
}

// Address is the postal address shared by every party.
type Address struct {
    PostalCode   string `json:"cep"`
    Street       string `json:"logradouro"`
    Number       string `json:"numero"`
    Complement   string `json:"complemento"`
    Neighborhood string `json:"bairro"`
    City         string `json:"cidade"`
    State        string `json:"uf"`
}

// Client is a customer; income entries point at one.
type Client struct {
    ID        int64      `json:"id"`
    Kind      PersonKind `json:"tipo_pessoa"`
    Name      string     `json:"nome"`
    // Document is the CPF (11 digits) or CNPJ (14 digits), digits only.
    Document  string     `json:"documento"`
    Email     string     `json:"email"`
    Phone     string     `json:"telefone"`
    Address
    Status    Status     `json:"status"`
    Notes     string     `json:"observacoes"`
    CreatedAt time.Time  `json:"data_cadastro"`
    UpdatedAt time.Time  `json:"data_atualizacao"`
}

// Supplier is a vendor; expense entries point at one.
type Supplier struct {
    ID        int64      `json:"id"`
    Kind      PersonKind `json:"tipo"`
    Name      string     `json:"nome"`
    // TradeName is required for organizations.
    TradeName string     `json:"nome_fantasia"`
    TaxID     string     `json:"cpf_cnpj"`
    Email     string     `json:"email"`
    Phone     string     `json:"telefone"`
    Address
    Status    Status     `json:"status"`
    Notes     string     `json:"observacoes"`
    CreatedAt time.Time  `json:"data_cadastro"`
    UpdatedAt time.Time  `json:"data_atualizacao"`
}

// Employee is always an individual identified by CPF.
type Employee struct {
    ID        int64        `json:"id"`
    Name      string       `json:"nome"`
    CPF       string       `json:"cpf"`
    Role      string       `json:"cargo"`
    Salary    money.Amount `json:"-"`
    HiredOn   time.Time    `json:"data_admissao"`
    Email     string       `json:"email"`
    Phone     string       `json:"telefone"`
    Address
    Status    Status       `json:"status"`
    Notes     string       `json:"observacoes"`
    CreatedAt time.Time    `json:"data_cadastro"`
    UpdatedAt time.Time    `json:"data_atualizacao"`
}

// Entry is a single ledger movement. Amount is always positive; Type carries the sign.
type Entry struct {
    ID            int64        `json:"id"`
    Date          string       `json:"data"`
    Type          EntryType    `json:"tipo"`
    CategoryID    int64        `json:"categoria_id"`
    SubcategoryID int64        `json:"subcategoria_id"`
    Amount        money.Amount `json:"-"`
    Description   string       `json:"descricao"`
    ClientID      *int64       `json:"cliente_id,omitempty"`
    SupplierID    *int64       `json:"fornecedor_id,omitempty"`
    EmployeeID    *int64       `json:"funcionario_id,omitempty"`
    Bank          string       `json:"banco"`
    Invoice       string       `json:"nota_fiscal"`
    Receipt       string       `json:"comprovante"`
    Note          string       `json:"observacao"`
    CreatedAt     time.Time    `json:"criado_em"`
    UpdatedAt     time.Time    `json:"atualizado_em"`
}

// Signed returns the amount with the sign implied by the entry type.
func (e Entry) Signed() money.Amount {
    if e.Type == EntryDespesa { return e.Amount.Neg() }
    return e.Amount
}

// Operation is the kind of mutation captured by an audit record.
type Operation string

const (
    OpInsert Operation = "INSERT"
    OpUpdate Operation = "UPDATE"
    OpDelete Operation = "DELETE"
)

// AuditRecord is immutable once written.
type AuditRecord struct {
    ID        int64     `json:"id"`
    Table     Entity    `json:"tabela"`
    Operation Operation `json:"operacao"`
    RecordID  int64     `json:"registro_id"`
    // Before and After hold JSON snapshots; Before is empty on insert.
    Before    []byte    `json:"-"`
    After     []byte    `json:"-"`
    User      string    `json:"usuario"`
    RequestID string    `json:"request_id"`
    At        time.Time `json:"data_operacao"`
}

// EntryRow is the joined, display-ready view of an entry.
type EntryRow struct {
    ID           int64        `json:"id"`
    Date         string       `json:"data"`
    Type         EntryType    `json:"tipo"`
    Category     string       `json:"categoria"`
    // CategoryType is the type of the joined category, empty when it is missing.
    CategoryType CategoryType `json:"-"`
    Subcategory  string       `json:"subcategoria"`
    Description  string       `json:"descricao"`
    Amount       money.Amount `json:"-"`
    Bank         string       `json:"banco"`
    Invoice      string       `json:"nota_fiscal"`
    Note         string       `json:"observacao"`
    ClientName   string       `json:"cliente_nome"`
    SupplierName string       `json:"fornecedor_nome"`
    // Company is the client name for income and the supplier name for expenses.
    Company      string       `json:"empresa"`
}
