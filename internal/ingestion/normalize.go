package ingestion

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	specNumberRe = regexp.MustCompile(`[^A-Z0-9-]`)
)

// NormalizeName canonicalizes a governance name (make, model, trim)
// so sheets from different dealers collapse onto one row: whitespace
// collapsed, diacritics stripped
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return RemoveDiacritics(s)
}

// RemoveDiacritics strips combining marks so 'Citroën' and 'Citroen'
// match
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// NormalizeSpecNumber canonicalizes a spec number: uppercase with only
// alphanumerics and dashes. Spec numbers are the vehicle's natural key,
// so formatting noise here would fork vehicles on re-ingest
func NormalizeSpecNumber(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = whitespaceRe.ReplaceAllString(s, "-")
	return specNumberRe.ReplaceAllString(s, "")
}
