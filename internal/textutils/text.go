package textutils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ProperCase capitalizes the first letter of every word and lowers the rest.
func ProperCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// PersonName is a name split into its parts.
type PersonName struct {
	First  string
	Middle string
	Last   string
}

// SplitName splits "LAST, FIRST, MIDDLE". Missing parts are empty; parts are proper-cased.
func SplitName(full string) PersonName {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(full)), ", ")
	part := func(i int) string {
		if i < len(parts) {
			return ProperCase(parts[i])
		}
		return ""
	}
	return PersonName{Last: part(0), First: part(1), Middle: part(2)}
}

// LastToken returns the last whitespace-separated token of s.
func LastToken(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}

// NormalizeHeader upper-cases a header and collapses its whitespace for fuzzy column matching.
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToUpper(h)), " ")
}

// StripLeadingZeros removes leading zeros of an identifier; "000" becomes "".
func StripLeadingZeros(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), "0")
}
