// Package campaign holds the per-client report pipelines. Each campaign declares how its
// input is read and which reference data it needs, then turns one ingested table into
// the workbooks of a run.
package campaign

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spmadrid/collections-reports/internal/dateutils"
	"spmadrid/collections-reports/internal/ingest"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
	"spmadrid/collections-reports/internal/report"
)

// Campaign is one report pipeline.
type Campaign interface {
	Name() string
	// Ingest returns the read options of the input sheet.
	Ingest() ingest.Options
	// Needs selects the reference datasets loaded before Run.
	Needs() reference.Need
	// AccountKeys lists the accounts whose metadata Run will look up.
	AccountKeys(in *models.Table) []string
	Run(ctx context.Context, in *models.Table, snap *reference.Snapshot, p Params) (*Result, error)
}

// Params are the per-run inputs besides the table itself.
type Params struct {
	RunID      string
	ReportDate time.Time
	// InputName is the input file name without extension.
	InputName string
	Mode      string
	// Template is the ingested template sheet of campaigns that fill an existing workbook.
	Template     *models.Table
	TemplatePath string
	TargetColumn string
	// Productivity holds the kept and allocation figures per bucket label such as "B5".
	Productivity map[string]Productivity
}

// Productivity are the hand-entered figures of a daily productivity sheet.
type Productivity struct {
	KeptCount   int
	KeptBalance decimal.Decimal
	Allocation  decimal.Decimal
}

// Stats summarize a run.
type Stats struct {
	Rows       int
	Excluded   int
	ExcludedBy map[string]int
	Outputs    int
}

// Result is everything a run produced.
type Result struct {
	Workbooks []*report.Workbook
	Warnings  []models.Warning
	Stats     Stats
}

func newResult(rows int) *Result {
	return &Result{Stats: Stats{Rows: rows, ExcludedBy: make(map[string]int)}}
}

func (r *Result) add(wbs ...*report.Workbook) {
	for _, wb := range wbs {
		if wb != nil {
			r.Workbooks = append(r.Workbooks, wb)
		}
	}
	r.Stats.Outputs = len(r.Workbooks)
}

func (r *Result) exclude(rule string, n int) {
	if n == 0 {
		return
	}
	r.Stats.Excluded += n
	r.Stats.ExcludedBy[rule] += n
}

// columnKeys returns the distinct non-blank account keys of column col in input order.
func columnKeys(in *models.Table, col string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range in.Rows {
		k := models.AccountKey(r.Get(col))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// project copies column name of each row.
func project(name string) report.Column[models.Row] {
	return report.Column[models.Row]{Name: name, Value: func(r models.Row) models.Value { return r.Get(name) }}
}

// cellDate reads a date from a typed or text cell.
func cellDate(v models.Value) time.Time {
	if t, ok := v.Time(); ok {
		return t
	}
	t, _ := dateutils.ParseCell(v.String())
	return t
}

// cellAmount reads an amount from a typed or text cell.
func cellAmount(v models.Value) decimal.NullDecimal {
	if d, ok := v.Decimal(); ok {
		return decimal.NullDecimal{Decimal: d, Valid: true}
	}
	if d, ok := models.ParseAmount(v.String()); ok {
		return decimal.NullDecimal{Decimal: d, Valid: true}
	}
	return decimal.NullDecimal{}
}

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// blankZero blanks the placeholder "0" some exports put in empty text cells.
func blankZero(s string) string {
	if strings.TrimSpace(s) == "0" {
		return ""
	}
	return s
}
