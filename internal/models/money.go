package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a spreadsheet amount. Thousands separators, currency marks and
// surrounding spaces are ignored. Anything unparseable is reported as not ok.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(",", "", "₱", "", "PHP", "", " ", "").Replace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return decimal.Zero, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}

// NonZero reports a present, non-zero amount.
func NonZero(d decimal.NullDecimal) bool {
	return d.Valid && !d.Decimal.IsZero()
}

// ZeroIfAbsent returns the amount or zero.
func ZeroIfAbsent(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// Sum adds the present amounts.
func Sum(amounts ...decimal.NullDecimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		if a.Valid {
			total = total.Add(a.Decimal)
		}
	}
	return total
}
