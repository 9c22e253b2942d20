package report

import (
	"time"

	"github.com/shopspring/decimal"

	"spmadrid/collections-reports/internal/dateutils"
	"spmadrid/collections-reports/internal/models"
)

// Column derives one output cell per row.
type Column[T any] struct {
	Name  string
	Value func(T) models.Value
}

// Text projects a string. Empty strings are written as blank cells.
func Text[T any](name string, f func(T) string) Column[T] {
	return Column[T]{Name: name, Value: func(r T) models.Value {
		if s := f(r); s != "" {
			return models.Text(s)
		}
		return models.Absent()
	}}
}

// Amount projects an optional amount.
func Amount[T any](name string, f func(T) decimal.NullDecimal) Column[T] {
	return Column[T]{Name: name, Value: func(r T) models.Value { return models.NumberOrAbsent(f(r)) }}
}

// DateText projects a time through format. Zero times are blank.
func DateText[T any](name string, f func(T) time.Time, format func(time.Time) string) Column[T] {
	return Column[T]{Name: name, Value: func(r T) models.Value {
		t := f(r)
		if t.IsZero() {
			return models.Absent()
		}
		return models.Text(format(t))
	}}
}

// ReportDate projects a time as MM/DD/YYYY text.
func ReportDate[T any](name string, f func(T) time.Time) Column[T] {
	return DateText(name, f, dateutils.ToReportDate)
}

// Fixed writes the same value on every row.
func Fixed[T any](name string, v models.Value) Column[T] {
	return Column[T]{Name: name, Value: func(T) models.Value { return v }}
}

// Blank is an always-empty column.
func Blank[T any](name string) Column[T] {
	return Fixed[T](name, models.Absent())
}

// Aggregate computes one summary value over a row set.
type Aggregate[T any] func(rows []T) models.Value

// Count counts the rows matching pred; nil counts every row.
func Count[T any](pred func(T) bool) Aggregate[T] {
	return func(rows []T) models.Value {
		n := 0
		for _, r := range rows {
			if pred == nil || pred(r) {
				n++
			}
		}
		return models.Number(decimal.NewFromInt(int64(n)))
	}
}

// CountPresent counts the rows whose amount is present.
func CountPresent[T any](f func(T) decimal.NullDecimal) Aggregate[T] {
	return Count(func(r T) bool { return f(r).Valid })
}

// Sum adds the present amounts of the rows matching pred; nil takes every row.
func Sum[T any](f func(T) decimal.NullDecimal, pred func(T) bool) Aggregate[T] {
	return func(rows []T) models.Value {
		amounts := make([]decimal.NullDecimal, 0, len(rows))
		for _, r := range rows {
			if pred == nil || pred(r) {
				amounts = append(amounts, f(r))
			}
		}
		return models.Number(models.Sum(amounts...))
	}
}

// Const is an aggregate that ignores the rows.
func Const[T any](v models.Value) Aggregate[T] {
	return func([]T) models.Value { return v }
}

// SummaryCell writes an aggregate at a fixed coordinate.
type SummaryCell[T any] struct {
	Ref   string
	Value Aggregate[T]
}
