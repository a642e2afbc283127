// Package textutil normaliza texto para comparaciones sin acentos ni mayúsculas.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve s sin marcas diacríticas y en minúsculas ("Éclair" -> "eclair").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// ContainsFold indica si needle aparece en haystack ignorando acentos y mayúsculas.
// Un needle vacío siempre coincide.
func ContainsFold(haystack, needle string) bool {
	if strings.TrimSpace(needle) == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(strings.TrimSpace(needle)))
}
