package ledger

import (
    "fmt"
    "strings"

    "github.com/govalues/money"
)

// Zero returns a zero BRL amount at currency scale.
func Zero() money.Amount { return money.MustNewAmount(Currency, 0, 2) }

// FromCents converts stored minor units into an amount.
func FromCents(cents int64) money.Amount {
    a, err := money.NewAmountFromMinorUnits(Currency, cents)
    if err != nil { return Zero() }
    return a
}

// Cents converts an amount into minor units, rounding to the currency scale.
func Cents(a money.Amount) int64 {
    units, _ := a.MinorUnits()
    return units
}

// ParseAmount parses "1000.00", "1000" or the local "1.000,00" form. Extra
// decimal places are kept so callers can reject them with InCents.
func ParseAmount(s string) (money.Amount, error) {
    s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
    if strings.Contains(s, ",") {
        s = strings.ReplaceAll(s, ".", "")
        s = strings.ReplaceAll(s, ",", ".")
    }
    a, err := money.ParseAmount(Currency, s)
    if err != nil { return Zero(), fmt.Errorf("invalid amount %q: %w", s, err) }
    return a, nil
}

// InCents reports whether a has no nonzero digit below the cent.
func InCents(a money.Amount) bool { return a.Trim(2).Scale() <= 2 }

// FormatAmount renders an amount with two decimals, e.g. "1000.00".
func FormatAmount(a money.Amount) string {
    cents := Cents(a)
    sign := ""
    if cents < 0 { sign = "-"; cents = -cents }
    return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// FormatBRL renders an amount in the Brazilian display form, e.g. "R$ 1.234,56".
func FormatBRL(a money.Amount) string {
    plain := FormatAmount(a)
    sign := ""
    if strings.HasPrefix(plain, "-") { sign = "-"; plain = plain[1:] }
    intPart, frac, _ := strings.Cut(plain, ".")
    var b strings.Builder
    for i, r := range intPart {
        if i > 0 && (len(intPart)-i)%3 == 0 { b.WriteByte('.') }
        b.WriteRune(r)
    }
    return sign + "R$ " + b.String() + "," + frac
}

// Sum adds amounts; the ledger never mixes currencies so Add cannot fail.
func Sum(amounts ...money.Amount) money.Amount {
    total := Zero()
    for _, a := range amounts {
        if v, err := total.Add(a); err == nil { total = v }
    }
    return total
}
