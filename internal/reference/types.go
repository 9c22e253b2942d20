// Package reference provides the read-only lookup data a report run consults: agent rosters,
// bank status mappings, reason codes, dispositions and endorsed-account metadata.
package reference

import "time"

// Agent is one roster row. An agent listed in several bucket rosters has one row per bucket.
type Agent struct {
	ID       string `yaml:"id" csv:"VOLARE USER"`
	FullName string `yaml:"full_name" csv:"FULL NAME"`
	Bucket   string `yaml:"bucket" csv:"-"`
}

// StatusMapping maps a contact-management status to the bank-facing status.
type StatusMapping struct {
	RawStatus  string `yaml:"cms_status" csv:"CMS STATUS"`
	BankStatus string `yaml:"bank_status" csv:"BANK STATUS"`
}

// AccountMeta is the endorsement record of an account.
type AccountMeta struct {
	AccountID string    `yaml:"account_id"`
	ChCode    string    `yaml:"chcode"`
	EndoDate  time.Time `yaml:"endo_date"`
	Store     string    `yaml:"store"`
	Cluster   string    `yaml:"cluster"`
}

// FieldResult is one field-visit outcome recorded against a ChCode.
type FieldResult struct {
	ChCode       string    `yaml:"chcode"`
	Status       string    `yaml:"status"`
	SubStatus    string    `yaml:"sub_status"`
	InsertedDate time.Time `yaml:"inserted_date"`
}

// Need selects the datasets a run loads.
type Need uint8

const (
	NeedRoster Need = 1 << iota
	NeedBankStatus
	NeedReasonCodes
	NeedDispositions
	NeedAccounts
	NeedFieldResults
)

// Has reports whether n includes o.
func (n Need) Has(o Need) bool { return n&o == o }
