package notation

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize returns the cache key for raw: case-folded with every Unicode
// whitespace rune removed. Expressions differing only by case or spacing
// normalize to the same key.
func Normalize(raw string) string {
	folded := cases.Fold().String(raw)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, folded)
}
