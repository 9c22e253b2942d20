// Package textutils provides text normalization helpers for remark, phone and name cells.
package textutils

import (
	"regexp"
	"strings"
)

var trailingMobile = regexp.MustCompile(`9\d{9}$`)

// DigitsOnly drops every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeMobile rewrites a Philippine mobile number to the 11-digit 09XXXXXXXXX form.
// Numbers that match none of the known shapes are returned digit-stripped.
// NormalizeMobile(NormalizeMobile(x)) == NormalizeMobile(x) for every x.
func NormalizeMobile(raw string) string {
	s := DigitsOnly(raw)
	switch {
	case len(s) == 12 && strings.HasPrefix(s, "639"):
		return "0" + s[2:]
	case len(s) == 10 && strings.HasPrefix(s, "9"):
		return "0" + s
	default:
		return s
	}
}

// CleanPhone keeps the first of several '/'-separated numbers and returns it as
// 0 + the trailing ten digits when those start with 9.
func CleanPhone(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return ""
	}
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	digits := DigitsOnly(s)
	if m := trailingMobile.FindString(digits); m != "" {
		return "0" + m
	}
	return digits
}
