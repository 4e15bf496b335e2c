package httpapi

import (
    "bytes"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    chi "github.com/go-chi/chi/v5"
    "github.com/govalues/money"

    "github.com/tinoosan/fluxo/internal/ledger"
)

// amountField accepts 1500, 1500.5, "1500.50" or "1.500,50".
type amountField struct {
    set bool
    v   money.Amount
}

func (a *amountField) UnmarshalJSON(b []byte) error {
    s := string(bytes.TrimSpace(b))
    if s == "null" { return nil }
    if unq, err := strconv.Unquote(s); err == nil { s = unq }
    v, err := ledger.ParseAmount(s)
    if err != nil { return errors.New("valor inválido") }
    a.set, a.v = true, v
    return nil
}

func (a amountField) amount() money.Amount {
    if !a.set { return ledger.Zero() }
    return a.v
}

type categoryRequest struct {
    Name        string `json:"nome"`
    Type        string `json:"tipo"`
    Description string `json:"descricao"`
}

type categoryPatchRequest struct {
    Name        *string `json:"nome"`
    Type        *string `json:"tipo"`
    Description *string `json:"descricao"`
    Active      *bool   `json:"ativo"`
}

type subcategoryRequest struct {
    CategoryID  int64  `json:"categoria_id"`
    Name        string `json:"nome"`
    Description string `json:"descricao"`
}

type subcategoryPatchRequest struct {
    CategoryID  *int64  `json:"categoria_id"`
    Name        *string `json:"nome"`
    Description *string `json:"descricao"`
    Active      *bool   `json:"ativo"`
}

type clientRequest struct {
    Kind     string `json:"tipo_pessoa"`
    Name     string `json:"nome"`
    Document string `json:"documento"`
    Email    string `json:"email"`
    Phone    string `json:"telefone"`
    ledger.Address
    Status   string `json:"status"`
    Notes    string `json:"observacoes"`
}

func (c clientRequest) domain() ledger.Client {
    return ledger.Client{Kind: ledger.PersonKind(c.Kind), Name: c.Name, Document: c.Document, Email: c.Email,
        Phone: c.Phone, Address: c.Address, Status: ledger.Status(c.Status), Notes: c.Notes}
}

type supplierRequest struct {
    Kind      string `json:"tipo"`
    Name      string `json:"nome"`
    TradeName string `json:"nome_fantasia"`
    TaxID     string `json:"cpf_cnpj"`
    Email     string `json:"email"`
    Phone     string `json:"telefone"`
    ledger.Address
    Status    string `json:"status"`
    Notes     string `json:"observacoes"`
}

func (sp supplierRequest) domain() ledger.Supplier {
    return ledger.Supplier{Kind: ledger.PersonKind(sp.Kind), Name: sp.Name, TradeName: sp.TradeName, TaxID: sp.TaxID,
        Email: sp.Email, Phone: sp.Phone, Address: sp.Address, Status: ledger.Status(sp.Status), Notes: sp.Notes}
}

type employeeRequest struct {
    Name    string      `json:"nome"`
    CPF     string      `json:"cpf"`
    Role    string      `json:"cargo"`
    Salary  amountField `json:"salario"`
    HiredOn string      `json:"data_admissao"`
    Email   string      `json:"email"`
    Phone   string      `json:"telefone"`
    ledger.Address
    Status  string      `json:"status"`
    Notes   string      `json:"observacoes"`
}

// domain leaves HiredOn zero when the date does not parse; the service
// then reports it as missing.
func (e employeeRequest) domain() ledger.Employee {
    hired, _ := time.Parse(ledger.DateLayout, strings.TrimSpace(e.HiredOn))
    return ledger.Employee{Name: e.Name, CPF: e.CPF, Role: e.Role, Salary: e.Salary.amount(), HiredOn: hired,
        Email: e.Email, Phone: e.Phone, Address: e.Address, Status: ledger.Status(e.Status), Notes: e.Notes}
}

type entryRequest struct {
    Date          string      `json:"data"`
    Type          string      `json:"tipo"`
    CategoryID    int64       `json:"categoria_id"`
    SubcategoryID int64       `json:"subcategoria_id"`
    Amount        amountField `json:"valor"`
    Description   string      `json:"descricao"`
    ClientID      *int64      `json:"cliente_id"`
    SupplierID    *int64      `json:"fornecedor_id"`
    EmployeeID    *int64      `json:"funcionario_id"`
    Bank          string      `json:"banco"`
    Invoice       string      `json:"nota_fiscal"`
    Receipt       string      `json:"comprovante"`
    Note          string      `json:"observacao"`
}

func (e entryRequest) domain() ledger.Entry {
    return ledger.Entry{Date: e.Date, Type: ledger.EntryType(e.Type), CategoryID: e.CategoryID, SubcategoryID: e.SubcategoryID,
        Amount: e.Amount.amount(), Description: e.Description, ClientID: e.ClientID, SupplierID: e.SupplierID,
        EmployeeID: e.EmployeeID, Bank: e.Bank, Invoice: e.Invoice, Receipt: e.Receipt, Note: e.Note}
}

type countResponse struct {
    Status string `json:"status,omitempty"`
    Total  int64  `json:"total"`
}

type amountResponse struct {
    Value string `json:"valor"`
}

// pathID parses the {id} URL parameter, answering 400 when it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
    id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
    if err != nil || id <= 0 { badRequest(w, "id inválido"); return 0, false }
    return id, true
}

func queryInt(r *http.Request, key string) (int64, error) {
    raw := strings.TrimSpace(r.URL.Query().Get(key))
    if raw == "" { return 0, nil }
    n, err := strconv.ParseInt(raw, 10, 64)
    if err != nil || n < 0 { return 0, errors.New(key + " inválido") }
    return n, nil
}

func queryBool(r *http.Request, key string) bool {
    v, _ := strconv.ParseBool(r.URL.Query().Get(key))
    return v
}

// filterFromQuery reads inicio, fim, tipo, the *_id filters and descricao.
func filterFromQuery(r *http.Request) (ledger.Filter, error) {
    q := r.URL.Query()
    f := ledger.Filter{
        Start:       strings.TrimSpace(q.Get("inicio")),
        End:         strings.TrimSpace(q.Get("fim")),
        Description: strings.TrimSpace(q.Get("descricao")),
    }
    if t := strings.TrimSpace(q.Get("tipo")); t != "" {
        et, ok := ledger.ParseEntryType(t)
        if !ok { et = ledger.EntryType(t) }
        f.Type = et
    }
    ids := []struct {
        key string
        dst *int64
    }{
        {"categoria_id", &f.CategoryID}, {"subcategoria_id", &f.SubcategoryID}, {"cliente_id", &f.ClientID},
        {"fornecedor_id", &f.SupplierID}, {"funcionario_id", &f.EmployeeID},
    }
    for _, p := range ids {
        n, err := queryInt(r, p.key)
        if err != nil { return ledger.Filter{}, err }
        *p.dst = n
    }
    return f, f.Validate()
}

// listQuery reads status, limite and offset.
func listQuery(r *http.Request) (ledger.ListQuery, error) {
    limit, err := queryInt(r, "limite")
    if err != nil { return ledger.ListQuery{}, err }
    offset, err := queryInt(r, "offset")
    if err != nil { return ledger.ListQuery{}, err }
    q := ledger.ListQuery{Status: ledger.Status(strings.TrimSpace(r.URL.Query().Get("status"))), Limit: int(limit), Offset: int(offset)}
    return q.Normalize(), nil
}
