package match

import (
	"strings"
	"unicode"
)

// Normalize lower-cases an identifier and drops '_', '-' and spaces, so
// that "leaf_a", "leafA" and "Leaf-A" compare equal.
func Normalize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// Tokens splits an identifier on separators and lower-to-upper case
// transitions: "leaf_bValue" -> ["leaf", "b", "value"].
func Tokens(s string) []string {
	var (
		out []string
		cur strings.Builder
	)

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			flush()
		}

		cur.WriteRune(r)
	}

	flush()

	return out
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
