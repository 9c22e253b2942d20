package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the content of a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindText
	KindNumber
	KindDate
)

// Value is one normalized cell. Absent is distinct from an empty string:
// ingest turns blank cells into Absent, while derivations may still emit "".
type Value struct {
	kind Kind
	text string
	num  decimal.Decimal
	date time.Time
}

// Absent returns the missing value.
func Absent() Value { return Value{} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number wraps a decimal.
func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }

// NumberOrAbsent wraps d when it is valid.
func NumberOrAbsent(d decimal.NullDecimal) Value {
	if !d.Valid {
		return Absent()
	}
	return Number(d.Decimal)
}

// Date wraps a time. A zero time is Absent.
func Date(t time.Time) Value {
	if t.IsZero() {
		return Absent()
	}
	return Value{kind: KindDate, date: t}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsBlank reports absent values and empty strings.
func (v Value) IsBlank() bool {
	return v.kind == KindAbsent || (v.kind == KindText && v.text == "")
}

// Decimal returns the numeric content.
func (v Value) Decimal() (decimal.Decimal, bool) {
	if v.kind != KindNumber {
		return decimal.Zero, false
	}
	return v.num, true
}

// NullDecimal returns the numeric content as a NullDecimal.
func (v Value) NullDecimal() decimal.NullDecimal {
	d, ok := v.Decimal()
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

// Time returns the date content.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.date, true
}

// String renders the value the way it is written to a report cell:
// dates as MM/DD/YYYY, numbers without trailing zeros, absent as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num.String()
	case KindDate:
		return v.date.Format("01/02/2006")
	default:
		return ""
	}
}

// Equal compares kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num.Equal(o.num)
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}
