// Package party holds the validation and address helpers shared by the
// client, supplier and employee registries.
package party

import (
    "context"
    "strings"
    "unicode/utf8"

    "github.com/tinoosan/fluxo/internal/brdoc"
    "github.com/tinoosan/fluxo/internal/errs"
    "github.com/tinoosan/fluxo/internal/ledger"
)

// AddressLookup resolves a postal code into a partial address.
type AddressLookup interface {
    Lookup(ctx context.Context, code string) (ledger.Address, error)
}

// Problems collects every violation found in one input.
type Problems []string

func (p *Problems) Add(msg string) { *p = append(*p, msg) }

// Check adds msg when ok is false.
func (p *Problems) Check(ok bool, msg string) {
    if !ok { p.Add(msg) }
}

// Err returns nil when nothing was collected.
func (p Problems) Err() error {
    if len(p) == 0 { return nil }
    return errs.Invalid(p...)
}

// MinLen reports whether the trimmed s has at least n characters.
func MinLen(s string, n int) bool { return utf8.RuneCountInString(strings.TrimSpace(s)) >= n }

// NormalizeAddress trims every field, strips the postal code to digits and
// upper-cases the state code.
func NormalizeAddress(a ledger.Address) ledger.Address {
    return ledger.Address{
        PostalCode:   brdoc.Digits(a.PostalCode),
        Street:       strings.TrimSpace(a.Street),
        Number:       strings.TrimSpace(a.Number),
        Complement:   strings.TrimSpace(a.Complement),
        Neighborhood: strings.TrimSpace(a.Neighborhood),
        City:         strings.TrimSpace(a.City),
        State:        strings.ToUpper(strings.TrimSpace(a.State)),
    }
}

// CheckAddress validates a normalized address.
func CheckAddress(p *Problems, a ledger.Address) {
    p.Check(len(a.PostalCode) == 8, "CEP deve ter 8 dígitos")
    p.Check(MinLen(a.Street, 3), "Logradouro inválido")
    p.Check(a.Number != "", "Número é obrigatório")
    p.Check(MinLen(a.Neighborhood, 2), "Bairro inválido")
    p.Check(MinLen(a.City, 2), "Cidade inválida")
    p.Check(utf8.RuneCountInString(a.State) == 2, "UF deve ter 2 caracteres")
}

// IsBlank reports whether no address field was supplied.
func IsBlank(a ledger.Address) bool { return a == ledger.Address{} }

// CheckPhone validates the digit count of a digits-only phone.
func CheckPhone(p *Problems, phone string) {
    p.Check(brdoc.ValidPhone(phone), "Telefone deve ter 10 ou 11 dígitos")
}

// CheckDocument validates a digits-only CPF/CNPJ against the person kind.
func CheckDocument(p *Problems, kind ledger.PersonKind, doc string) {
    switch kind {
    case ledger.PersonFisica:
        p.Check(len(doc) == 11 && brdoc.ValidCPF(doc), "CPF inválido")
    case ledger.PersonJuridica:
        p.Check(len(doc) == 14 && brdoc.ValidCNPJ(doc), "CNPJ inválido")
    default:
        p.Add("Tipo de pessoa inválido")
    }
}

// KindOf infers the person kind from the document length.
func KindOf(doc string) ledger.PersonKind {
    if len(brdoc.Digits(doc)) == 14 { return ledger.PersonJuridica }
    return ledger.PersonFisica
}

// Lookup normalizes code and delegates to l, mapping a malformed code to a
// validation error before any request is made.
func Lookup(ctx context.Context, l AddressLookup, code string) (ledger.Address, error) {
    d := brdoc.Digits(code)
    if len(d) != 8 { return ledger.Address{}, errs.Invalid("CEP deve ter 8 dígitos") }
    if l == nil { return ledger.Address{}, errs.ErrLookup }
    a, err := l.Lookup(ctx, d)
    if err != nil { return ledger.Address{}, err }
    a.PostalCode = d
    return a, nil
}
