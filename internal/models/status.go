package models

import "strings"

// StatusCategory is the closed classification of a raw status, computed once per row.
type StatusCategory int

const (
	CategoryOther StatusCategory = iota
	CategoryPTP
	CategoryPayment
	CategoryUncon
	CategoryExclude
)

func (c StatusCategory) String() string {
	switch c {
	case CategoryPTP:
		return "PTP"
	case CategoryPayment:
		return "PAYMENT"
	case CategoryUncon:
		return "UNCON"
	case CategoryExclude:
		return "EXCLUDE"
	default:
		return "OTHER"
	}
}

// CanonicalStatus is a raw "CATEGORY - SUBSTATUS" value split on its first '-'.
type CanonicalStatus struct {
	Raw       string
	Category  string
	SubStatus string
	Kind      StatusCategory
	// BankStatus is the bank-facing status; empty with Mapped false when the lookup missed.
	BankStatus string
	Mapped     bool
}

// MentionsPTP reports whether "PTP" appears anywhere in the raw status. Unlike
// CategoryPTP it also holds for statuses such as "CALL NO PTP - BUSY".
func (s CanonicalStatus) MentionsPTP() bool {
	return strings.Contains(strings.ToUpper(s.Raw), "PTP")
}
