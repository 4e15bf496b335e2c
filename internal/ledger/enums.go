package ledger

import "strings"

// CategoryType classifies a category as income or one of the expense groups.
type CategoryType string

const (
    CategoryReceita         CategoryType = "Receita"
    CategoryDespesaVariavel CategoryType = "Despesa Variável"
    CategoryDespesaFixa     CategoryType = "Despesa Fixa"
    CategoryDespesaPessoal  CategoryType = "Despesa Pessoal"
)

// CategoryTypes lists the category types in taxonomy order.
var CategoryTypes = []CategoryType{CategoryReceita, CategoryDespesaVariavel, CategoryDespesaFixa, CategoryDespesaPessoal}

var categoryTypeLabels = map[string]CategoryType{
    "receita":          CategoryReceita,
    "despesa variável": CategoryDespesaVariavel,
    "despesa variavel": CategoryDespesaVariavel,
    "despesavariável":  CategoryDespesaVariavel,
    "despesavariavel":  CategoryDespesaVariavel,
    "despesa fixa":     CategoryDespesaFixa,
    "despesafixa":      CategoryDespesaFixa,
    "despesa pessoal":  CategoryDespesaPessoal,
    "despesapessoal":   CategoryDespesaPessoal,
}

// ParseCategoryType resolves a label to its CategoryType. Matching ignores case
// and surrounding spaces and accepts the compact spellings.
func ParseCategoryType(s string) (CategoryType, bool) {
    t, ok := categoryTypeLabels[strings.ToLower(strings.TrimSpace(s))]
    return t, ok
}

// Valid reports whether t is one of the closed set of category types.
func (t CategoryType) Valid() bool {
    switch t {
    case CategoryReceita, CategoryDespesaVariavel, CategoryDespesaFixa, CategoryDespesaPessoal:
        return true
    }
    return false
}

// EntryType returns the entry type compatible with categories of this type.
func (t CategoryType) EntryType() EntryType {
    if t == CategoryReceita { return EntryReceita }
    return EntryDespesa
}

// EntryType is the direction of an entry.
type EntryType string

const (
    EntryReceita EntryType = "Receita"
    EntryDespesa EntryType = "Despesa"
)

// ParseEntryType resolves "receita"/"despesa" in any case.
func ParseEntryType(s string) (EntryType, bool) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "receita":
        return EntryReceita, true
    case "despesa":
        return EntryDespesa, true
    }
    return "", false
}

func (t EntryType) Valid() bool { return t == EntryReceita || t == EntryDespesa }

// PersonKind distinguishes individuals (CPF) from organizations (CNPJ).
type PersonKind string

const (
    PersonFisica   PersonKind = "fisica"
    PersonJuridica PersonKind = "juridica"
)

func (k PersonKind) Valid() bool { return k == PersonFisica || k == PersonJuridica }

// Status is the lifecycle state of a party.
type Status string

const (
    StatusAtivo     Status = "ativo"
    StatusInativo   Status = "inativo"
    StatusSuspenso  Status = "suspenso"
    StatusLicenca   Status = "licenca"
    StatusDesligado Status = "desligado"
)

// Valid status sets per registry.
var (
    ClientStatuses   = []Status{StatusAtivo, StatusInativo, StatusSuspenso}
    SupplierStatuses = []Status{StatusAtivo, StatusInativo}
    EmployeeStatuses = []Status{StatusAtivo, StatusInativo, StatusLicenca, StatusDesligado}
)

// In reports whether s belongs to set.
func (s Status) In(set []Status) bool {
    for _, v := range set {
        if v == s { return true }
    }
    return false
}

// Entity names a persisted table.
type Entity string

const (
    EntityCategory    Entity = "categorias"
    EntitySubcategory Entity = "subcategorias"
    EntityClient      Entity = "clientes"
    EntitySupplier    Entity = "fornecedores"
    EntityEmployee    Entity = "funcionarios"
    EntityEntry       Entity = "lancamentos"
)

// DeletePolicy states how an entity is removed.
type DeletePolicy int

const (
    // SoftDelete flips the status to the inactive value and keeps the row.
    SoftDelete DeletePolicy = iota + 1
    // HardDelete removes the row.
    HardDelete
)

func (p DeletePolicy) String() string {
    switch p {
    case SoftDelete:
        return "soft"
    case HardDelete:
        return "hard"
    }
    return "unknown"
}

// Policy returns the deletion policy of the entity. Parties are soft-deleted;
// entries and reference data are physically removed.
func (e Entity) Policy() DeletePolicy {
    switch e {
    case EntityClient, EntitySupplier, EntityEmployee:
        return SoftDelete
    }
    return HardDelete
}

// Audited reports whether mutations on the entity append audit records.
// Entries are deliberately not audited.
func (e Entity) Audited() bool { return e.Policy() == SoftDelete }

// Entities lists every persisted table.
var Entities = []Entity{EntityCategory, EntitySubcategory, EntityClient, EntitySupplier, EntityEmployee, EntityEntry}

func (e Entity) Valid() bool {
    for _, v := range Entities {
        if v == e { return true }
    }
    return false
}
