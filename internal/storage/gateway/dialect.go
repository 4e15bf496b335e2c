package gateway

import (
	"strconv"
	"strings"
)

// Dialect carries the driver-specific parts of statement execution.
type Dialect struct {
	Name string
	// Rebind rewrites '?' placeholders; nil leaves queries untouched.
	Rebind func(string) string
	// Classify maps a driver error to errs.ErrConflict or errs.ErrReferenced,
	// or returns nil when the error has no finer class.
	Classify func(error) error
}

// Plain uses '?' placeholders and no error classification.
var Plain = Dialect{Name: "plain"}

func (d Dialect) rebind(q string) string {
	if d.Rebind == nil {
		return q
	}
	return d.Rebind(q)
}

// DollarRebind rewrites '?' placeholders as $1, $2, ... leaving quoted
// literals and identifiers untouched.
func DollarRebind(q string) string {
	if !strings.Contains(q, "?") {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	var quote rune
	for _, r := range q {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
