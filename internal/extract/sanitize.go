package extract

import (
	"strings"
	"unicode"
)

// SanitizeDocumentName rewrites a display name to satisfy the model
// provider's document naming constraints: letters and digits pass through,
// as do space, hyphen, underscore, brackets and parentheses; anything else
// becomes an underscore. Trailing whitespace is stripped.
func SanitizeDocumentName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == ']' || r == '[' || r == '(' || r == ')':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}
