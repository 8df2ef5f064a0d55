package core

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// accentFold is the complete substitution table. It is case-sensitive and maps
// one rune to one rune; every other rune is left untouched.
var accentFold = map[rune]rune{
	'á': 'a', 'é': 'e', 'í': 'i', 'ó': 'o', 'ú': 'u',
	'Á': 'A', 'É': 'E', 'Í': 'I', 'Ó': 'O', 'Ú': 'U',
	'ñ': 'n', 'Ñ': 'N',
	'ü': 'u', 'Ü': 'U',
}

func foldRune(r rune) rune {
	if m, ok := accentFold[r]; ok {
		return m
	}
	return r
}

func hasFoldable(s string) bool {
	for _, r := range s {
		if _, ok := accentFold[r]; ok {
			return true
		}
	}
	return false
}

// NormalizeText applies the substitution table to every rune of s.
func NormalizeText(s string) string {
	return normalizeWith(runes.Map(foldRune), s)
}

func normalizeWith(t transform.Transformer, s string) string {
	if !hasFoldable(s) {
		return s
	}
	out, _, err := transform.String(t, s)
	if err != nil {
		// runes.Map never reports an error for in-memory input.
		return s
	}
	return out
}

// Normalize returns a new table with every cell passed through NormalizeText,
// and the number of cells whose value changed. The input table is not
// modified. Row errors are not carried over.
func Normalize(t *ParsedTable) (*NormalizedTable, int) {
	fold := runes.Map(foldRune)

	headers := make([]string, len(t.Headers))
	copy(headers, t.Headers)

	out := &NormalizedTable{
		Headers: headers,
		Records: make([]Record, len(t.Records)),
	}

	changed := 0
	for i, rec := range t.Records {
		values := make([]string, len(rec.Values))
		for j, v := range rec.Values {
			nv := normalizeWith(fold, v)
			if nv != v {
				changed++
			}
			values[j] = nv
		}
		out.Records[i] = Record{Values: values}
	}

	return out, changed
}

// Renormalize runs the substitution over an already normalized table.
// It is used to verify idempotence and always reports zero changes for the
// output of Normalize.
func Renormalize(t *NormalizedTable) (*NormalizedTable, int) {
	return Normalize(&ParsedTable{Headers: t.Headers, Records: t.Records})
}
