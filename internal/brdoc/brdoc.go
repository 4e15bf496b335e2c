// Package brdoc validates Brazilian identifiers and contact fields:
// CPF, CNPJ, CEP, phone numbers and e-mail addresses.
package brdoc

import (
	"regexp"
	"strings"
)

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3}
)

var reEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// areaCodes holds every active DDD.
var areaCodes = map[string]struct{}{}

func init() {
	for _, c := range strings.Fields(`11 12 13 14 15 16 17 18 19 21 22 24 27 28
		31 32 33 34 35 37 38 41 42 43 44 45 46 47 48 49 51 53 54 55
		61 62 63 64 65 66 67 68 69 71 73 74 75 77 79
		81 82 83 84 85 86 87 88 89 91 92 93 94 95 96 97 98 99`) {
		areaCodes[c] = struct{}{}
	}
}

// Digits strips every non-digit character.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSame(d string) bool {
	return strings.Count(d, d[:1]) == len(d)
}

// checkDigit applies the mod-11 rule: 11 - (sum % 11), with 10 and 11 mapped to 0.
func checkDigit(sum int) int {
	d := 11 - sum%11
	if d >= 10 {
		return 0
	}
	return d
}

// ValidCPF reports whether s (formatted or not) is an 11-digit CPF with valid
// check digits. Strings of one repeated digit are rejected.
func ValidCPF(s string) bool {
	d := Digits(s)
	if len(d) != 11 || allSame(d) {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(d[i]-'0') * (10 - i)
	}
	if int(d[9]-'0') != checkDigit(sum) {
		return false
	}
	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(d[i]-'0') * (11 - i)
	}
	return int(d[10]-'0') == checkDigit(sum)
}

// ValidCNPJ reports whether s is a 14-digit CNPJ with valid check digits.
func ValidCNPJ(s string) bool {
	d := Digits(s)
	if len(d) != 14 || allSame(d) {
		return false
	}
	sum := 0
	for i, w := range cnpjWeights1 {
		sum += int(d[i]-'0') * w
	}
	d1 := checkDigit(sum)
	if int(d[12]-'0') != d1 {
		return false
	}
	sum = 0
	for i, w := range cnpjWeights2 {
		sum += int(d[i]-'0') * w
	}
	sum += d1 * 2
	return int(d[13]-'0') == checkDigit(sum)
}

// ValidDocument accepts a CPF (11 digits) or a CNPJ (14 digits).
func ValidDocument(s string) bool {
	switch len(Digits(s)) {
	case 11:
		return ValidCPF(s)
	case 14:
		return ValidCNPJ(s)
	}
	return false
}

// ValidCEP reports whether s has exactly 8 digits.
func ValidCEP(s string) bool { return len(Digits(s)) == 8 }

// ValidPhone reports whether s has 10 or 11 digits (area code included).
func ValidPhone(s string) bool {
	n := len(Digits(s))
	return n >= 10 && n <= 11
}

// ValidAreaCode reports whether the phone starts with an assigned DDD.
func ValidAreaCode(s string) bool {
	d := Digits(s)
	if len(d) < 2 {
		return false
	}
	_, ok := areaCodes[d[:2]]
	return ok
}

// SimpleEmail is the lenient check: an "@" followed somewhere by a ".".
func SimpleEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}

// ValidEmail matches the usual local-part@domain.tld shape.
func ValidEmail(s string) bool { return reEmail.MatchString(strings.TrimSpace(s)) }

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// FormatCPF renders 11 digits as 000.000.000-00; other input is returned unchanged.
func FormatCPF(s string) string {
	d := Digits(s)
	if len(d) != 11 {
		return s
	}
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// FormatCNPJ renders 14 digits as 00.000.000/0000-00.
func FormatCNPJ(s string) string {
	d := Digits(s)
	if len(d) != 14 {
		return s
	}
	return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
}

// DocumentLabel returns "CPF" or "CNPJ" depending on the digit count.
func DocumentLabel(s string) string {
	if len(Digits(s)) == 14 {
		return "CNPJ"
	}
	return "CPF"
}
