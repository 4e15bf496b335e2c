// Package slug turns Portuguese labels into ASCII identifiers for taxonomy
// codes, spreadsheet file names and sheet names.
package slug

import (
	"regexp"
	"strings"
)

var reSlug = regexp.MustCompile(`^[a-z0-9_]{2,40}$`)

var folder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// IsSlug returns true if s matches ^[a-z0-9_]{2,40}$
func IsSlug(s string) bool {
	return reSlug.MatchString(s)
}

// Fold lower-cases s and strips Portuguese diacritics.
func Fold(s string) string {
	return folder.Replace(strings.ToLower(s))
}

// Slugify converts s to a slug: folded to ASCII lowercase, runs of anything
// outside [a-z0-9] become a single '_', trimmed to 40 and stripped of
// leading/trailing '_'.
func Slugify(s string) string {
	if s == "" {
		return s
	}
	out := make([]rune, 0, len(s))
	prevUnderscore := false
	for _, r := range Fold(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out = append(out, r)
			prevUnderscore = false
		} else if !prevUnderscore {
			out = append(out, '_')
			prevUnderscore = true
		}
		if len(out) >= 40 {
			break
		}
	}
	return strings.Trim(string(out), "_")
}

// FileName builds "<slug>_<part>_<part>.<ext>" skipping empty parts.
func FileName(base, ext string, parts ...string) string {
	name := Slugify(base)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			name += "_" + strings.ReplaceAll(p, "/", "-")
		}
	}
	return name + "." + ext
}
