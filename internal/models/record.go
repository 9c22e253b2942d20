package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is the typed view of one input row used by classification.
// Columns a campaign does not map stay reachable through Row.
type Record struct {
	Row             Row
	AccountID       string
	Timestamp       time.Time
	StatusRaw       string
	Remark          string
	RemarkBy        string
	Card            string
	Debtor          string
	Balance         decimal.NullDecimal
	PTPAmount       decimal.NullDecimal
	PTPDate         time.Time
	ClaimPaidAmount decimal.NullDecimal
	ClaimPaidDate   time.Time
}

// RecordMapping names the source columns of each Record field. Empty names are skipped.
type RecordMapping struct {
	Account     string
	Date        string
	Time        string
	Status      string
	Remark      string
	RemarkBy    string
	Card        string
	Debtor      string
	Balance     string
	PTPAmount   string
	PTPDate     string
	ClaimAmount string
	ClaimDate   string
}

// CMSMapping is the column layout of the contact-management remark export.
var CMSMapping = RecordMapping{
	Account:     "Account No.",
	Date:        "Date",
	Time:        "Time",
	Status:      "Status",
	Remark:      "Remark",
	RemarkBy:    "Remark By",
	Card:        "Card No.",
	Debtor:      "Debtor",
	Balance:     "Balance",
	PTPAmount:   "PTP Amount",
	PTPDate:     "PTP Date",
	ClaimAmount: "Claim Paid Amount",
	ClaimDate:   "Claim Paid Date",
}

// Record maps one row.
func (m RecordMapping) Record(r Row) Record {
	rec := Record{
		Row:             r,
		AccountID:       AccountKey(r.Get(m.Account)),
		StatusRaw:       strings.TrimSpace(text(r, m.Status)),
		Remark:          text(r, m.Remark),
		RemarkBy:        strings.TrimSpace(text(r, m.RemarkBy)),
		Card:            text(r, m.Card),
		Debtor:          text(r, m.Debtor),
		Balance:         number(r, m.Balance),
		PTPAmount:       number(r, m.PTPAmount),
		PTPDate:         date(r, m.PTPDate),
		ClaimPaidAmount: number(r, m.ClaimAmount),
		ClaimPaidDate:   date(r, m.ClaimDate),
	}
	rec.Timestamp = combine(date(r, m.Date), date(r, m.Time))
	return rec
}

// Records maps every row of t.
func (m RecordMapping) Records(t *Table) []Record {
	out := make([]Record, 0, t.Len())
	for _, r := range t.Rows {
		out = append(out, m.Record(r))
	}
	return out
}

// AccountKey renders an account cell as a join key: numbers lose any ".0" tail.
func AccountKey(v Value) string {
	if d, ok := v.Decimal(); ok {
		if d.Equal(d.Truncate(0)) {
			return d.Truncate(0).String()
		}
		return d.String()
	}
	return strings.TrimSuffix(strings.TrimSpace(v.String()), ".0")
}

func text(r Row, col string) string {
	if col == "" {
		return ""
	}
	return r.Text(col)
}

func number(r Row, col string) decimal.NullDecimal {
	if col == "" {
		return decimal.NullDecimal{}
	}
	v := r.Get(col)
	if d, ok := v.Decimal(); ok {
		return decimal.NullDecimal{Decimal: d, Valid: true}
	}
	if v.Kind() == KindText {
		if d, ok := ParseAmount(v.String()); ok {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	return decimal.NullDecimal{}
}

func date(r Row, col string) time.Time {
	if col == "" {
		return time.Time{}
	}
	t, _ := r.Get(col).Time()
	return t
}

// combine puts the clock of c on day d. Either side may be zero.
func combine(d, c time.Time) time.Time {
	switch {
	case d.IsZero():
		return c
	case c.IsZero():
		return d
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, d.Location())
}
