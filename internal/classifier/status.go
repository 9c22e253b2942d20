// Package classifier assigns each input record its canonical status, exclusion verdict,
// buckets, reason code and derived PTP fields, and expands cured-list action cascades.
package classifier

import (
	"strings"

	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
)

// ParseStatus splits "CATEGORY - SUBSTATUS" on its first '-' and tags the category.
func ParseStatus(raw string) models.CanonicalStatus {
	raw = strings.TrimSpace(raw)
	cat, sub, _ := strings.Cut(raw, "-")
	return models.CanonicalStatus{
		Raw:       raw,
		Category:  strings.TrimSpace(cat),
		SubStatus: strings.TrimSpace(sub),
		Kind:      CategoryOf(raw),
	}
}

// CategoryOf tags a raw status. "NO PTP" statuses are not promises and fall to Other.
func CategoryOf(raw string) models.StatusCategory {
	s := strings.ToUpper(strings.TrimSpace(raw))
	cat, _, _ := strings.Cut(s, "-")
	cat = strings.TrimSpace(cat)
	switch {
	case s == "":
		return models.CategoryOther
	case strings.HasPrefix(s, "PAYMENT"):
		return models.CategoryPayment
	case strings.HasPrefix(s, "UNCON"):
		return models.CategoryUncon
	case cat == "DNC" || strings.Contains(s, "EXCLUDE"):
		return models.CategoryExclude
	case strings.Contains(s, "PTP") && !strings.Contains(s, "NO PTP"):
		return models.CategoryPTP
	default:
		return models.CategoryOther
	}
}

// MapStatus resolves the bank status of st: the full raw status first, then its category.
// A miss leaves Mapped false.
func MapStatus(st models.CanonicalStatus, snap *reference.Snapshot) models.CanonicalStatus {
	if bs, ok := snap.BankStatus(st.Raw); ok {
		st.BankStatus, st.Mapped = bs, true
		return st
	}
	if bs, ok := snap.BankStatus(st.Category); ok {
		st.BankStatus, st.Mapped = bs, true
	}
	return st
}
