// Package search compara textos sin distinguir mayúsculas ni acentos ("Crème" ~ "creme").
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize pasa a minúsculas y elimina las marcas diacríticas (NFD + quitar Mn).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Match true si query está contenido en text tras normalizar ambos. Query vacío siempre coincide.
func Match(text, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	if text == "" {
		return false
	}
	return strings.Contains(Normalize(text), Normalize(strings.TrimSpace(query)))
}

// MatchAny true si query coincide con alguno de los campos.
func MatchAny(query string, fields ...string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	for _, f := range fields {
		if Match(f, query) {
			return true
		}
	}
	return false
}

// Filter conserva los elementos cuyos campos (según fields) coinciden con query.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if MatchAny(query, fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}
