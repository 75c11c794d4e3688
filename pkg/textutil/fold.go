package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldChain descompone (NFD), elimina marcas diacríticas y recompone (NFC).
// "José Gutiérrez" -> "Jose Gutierrez". Los nombres en Colombia llevan tildes;
// la búsqueda debe encontrarlos se escriban como se escriban.
var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normaliza un texto para búsqueda: minúsculas y sin tildes/diacríticos.
func Fold(s string) string {
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		// Entrada no normalizable: degradar a minúsculas simples
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// FoldPattern normaliza un término de búsqueda y lo envuelve para LIKE.
func FoldPattern(term string) string {
	return "%" + Fold(strings.TrimSpace(term)) + "%"
}
