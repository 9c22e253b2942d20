package campaign

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spmadrid/collections-reports/internal/classifier"
	"spmadrid/collections-reports/internal/dateutils"
	"spmadrid/collections-reports/internal/dedupe"
	"spmadrid/collections-reports/internal/ingest"
	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
	"spmadrid/collections-reports/internal/report"
)

// AgencyColumns are the expected columns of the BDO remark export.
var AgencyColumns = []string{
	"Date", "Debtor", "Account No.", "Card No.", "Remark", "Remark By",
	"PTP Amount", "PTP Date", "Claim Paid Amount", "Claim Paid Date", "Balance", "Status",
}

// Agency report templates.
const (
	AgencyReportTemplate       = "AGENCY DAILY REPORT TEMPLATE.xlsx"
	AgencyProductivityTemplate = "DAILY PRODUCTIVITY TEMPLATE.xlsx"
)

const (
	bankStatusPTP     = "PTP"
	bankStatusExclude = "EXCLUDE"
	systemOfficer     = "SYSTEM"
)

// AgencyOptions configure the BDO agency daily report.
type AgencyOptions struct {
	Agency         string
	Buckets        []classifier.Bucket
	AllowList      []string
	RequireRoster  bool
	ReasonDefaults classifier.ReasonDefaults
}

// Agency builds the BDO daily report and productivity workbooks of every bucket.
type Agency struct {
	opts   AgencyOptions
	logger logging.Logger
}

// NewAgency creates the campaign. Zero options take the BDO defaults.
func NewAgency(opts AgencyOptions, logger logging.Logger) *Agency {
	if opts.Agency == "" {
		opts.Agency = "SP MADRID"
	}
	if opts.Buckets == nil {
		opts.Buckets = classifier.DefaultBuckets
	}
	if opts.AllowList == nil {
		opts.AllowList = classifier.DefaultAllowList
	}
	if opts.ReasonDefaults == nil {
		opts.ReasonDefaults = classifier.DefaultReasonDefaults()
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Agency{opts: opts, logger: logger}
}

func (a *Agency) Name() string { return "agency" }

func (a *Agency) Ingest() ingest.Options {
	return ingest.Options{
		Required: AgencyColumns,
		Types: ingest.Schema{
			"Account No.":       ingest.TypeText,
			"Card No.":          ingest.TypeText,
			"Date":              ingest.TypeDate,
			"PTP Date":          ingest.TypeDate,
			"Claim Paid Date":   ingest.TypeDate,
			"PTP Amount":        ingest.TypeNumber,
			"Claim Paid Amount": ingest.TypeNumber,
			"Balance":           ingest.TypeNumber,
		},
		DropBlankRows: true,
	}
}

func (a *Agency) Needs() reference.Need {
	return reference.NeedRoster | reference.NeedBankStatus | reference.NeedReasonCodes
}

func (a *Agency) AccountKeys(*models.Table) []string { return nil }

// agencyRow is a classified remark within one bucket, after officer forward-fill.
type agencyRow struct {
	classifier.Classified
	Officer string
}

func (r agencyRow) bankStatus() string { return strings.TrimSpace(r.Status.BankStatus) }

func (r agencyRow) promised() bool { return r.bankStatus() == bankStatusPTP }

func (r agencyRow) balance() decimal.NullDecimal { return r.Record.Balance }

func (r agencyRow) complete() bool { return r.PTPAmount.Valid && !r.PTPDate.IsZero() }

// Run classifies the remarks once, then builds each non-empty bucket's report pair.
func (a *Agency) Run(_ context.Context, in *models.Table, snap *reference.Snapshot, p Params) (*Result, error) {
	res := newResult(in.Len())

	cls := classifier.New(snap, classifier.Options{
		Exclusions: []classifier.ExclusionRule{classifier.DefaultSystemRemarks(), classifier.PlaceholderCard{}},
		Router: &classifier.BucketRouter{
			Buckets:       a.opts.Buckets,
			AllowList:     a.opts.AllowList,
			RequireRoster: a.opts.RequireRoster,
			Snapshot:      snap,
		},
		ReasonDefaults: a.opts.ReasonDefaults,
		ReasonKey:      classifier.ByBankStatus,
		WarnUnmapped:   true,
	}, a.logger)
	out := cls.Classify(models.CMSMapping.Records(in))
	res.Warnings = append(res.Warnings, out.Warnings...)
	for rule, n := range out.ExcludedBy {
		res.exclude(rule, n)
	}

	for _, b := range a.opts.Buckets {
		rows := a.bucketRows(b.Label, out.Rows)
		for _, part := range splitByPrefix(b, rows) {
			if len(part.rows) == 0 {
				continue
			}
			a.logger.Debug("Built bucket",
				logging.F("bucket", part.label),
				logging.F(logging.FieldCount, len(part.rows)))
			res.add(
				a.dailyReport(part.label, part.rows, p.ReportDate),
				a.productivity(part.label, part.rows, p),
			)
		}
	}
	return res, nil
}

// bucketRows selects the rows routed to label, fills SYSTEM officers from the row above,
// drops unreportable statuses and resolves complete-PTP collisions per account.
func (a *Agency) bucketRows(label string, rows []classifier.Classified) []agencyRow {
	var selected []agencyRow
	prev := ""
	for _, c := range rows {
		if !containsString(c.Buckets, label) {
			continue
		}
		officer := c.HandlingOfficer
		if officer == systemOfficer && len(selected) > 0 {
			officer = prev
		}
		prev = officer
		selected = append(selected, agencyRow{Classified: c, Officer: officer})
	}

	kept := selected[:0]
	for _, r := range selected {
		if st := r.bankStatus(); st == "" || st == bankStatusExclude {
			continue
		}
		if !r.promised() {
			r.PTPAmount, r.PTPDate = decimal.NullDecimal{}, time.Time{}
		}
		kept = append(kept, r)
	}
	return dedupe.KeepLastComplete(kept, func(r agencyRow) string { return r.Record.AccountID }, agencyRow.complete)
}

type bucketPart struct {
	label string
	rows  []agencyRow
}

// splitByPrefix gives each card prefix of a bucket its own report, labelled "B" plus the
// prefix without leading zeros. A single-prefix bucket is one part.
func splitByPrefix(b classifier.Bucket, rows []agencyRow) []bucketPart {
	label := func(prefix string) string { return "B" + strings.TrimLeft(prefix, "0") }
	if len(b.Prefixes) == 1 {
		return []bucketPart{{label: label(b.Prefixes[0]), rows: rows}}
	}
	parts := make([]bucketPart, 0, len(b.Prefixes))
	for _, prefix := range b.Prefixes {
		part := bucketPart{label: label(prefix)}
		for _, r := range rows {
			if strings.HasPrefix(strings.TrimSpace(r.Record.Card), prefix) {
				part.rows = append(part.rows, r)
			}
		}
		parts = append(parts, part)
	}
	return parts
}

func (a *Agency) dailyReport(label string, rows []agencyRow, day time.Time) *report.Workbook {
	wb := report.NewGenerator[agencyRow](a.logger).Assemble(
		fmt.Sprintf("AGENCY DAILY REPORT %s AS OF %s.xlsx", label, dateutils.ToMonthDay(day)), rows,
		report.SheetSpec[agencyRow]{Name: "Sheet1", Columns: []report.Column[agencyRow]{
			report.Text("PN", func(r agencyRow) string { return r.Record.AccountID }),
			report.Text("NAME", func(r agencyRow) string { return r.Record.Debtor }),
			report.Amount("BALANCE", agencyRow.balance),
			report.Text("HANDLING OFFICER2", func(r agencyRow) string { return r.Officer }),
			report.Fixed[agencyRow]("AGENCY3", models.Text(a.opts.Agency)),
			report.Text("STATUS4", agencyRow.bankStatus),
			report.ReportDate("DATE OF CALL", func(r agencyRow) time.Time { return r.Record.Timestamp }),
			report.ReportDate("PTP DATE", func(r agencyRow) time.Time { return r.PTPDate }),
			report.Amount("PTP AMOUNT", func(r agencyRow) decimal.NullDecimal { return r.PTPAmount }),
			report.Text("RFD5", func(r agencyRow) string { return r.Reason }),
		}})
	wb.Template = AgencyReportTemplate
	return wb
}

func (a *Agency) productivity(label string, rows []agencyRow, p Params) *report.Workbook {
	figures := p.Productivity[label]
	kept := models.Number(decimal.NewFromInt(int64(figures.KeptCount)))
	wb := report.NewGenerator[agencyRow](a.logger).Assemble(
		fmt.Sprintf("%s Daily Productivity AS OF %s.xlsx", label, dateutils.ToMonthDay(p.ReportDate)), rows,
		report.SheetSpec[agencyRow]{Name: "PRODUCTIVITY", Summary: []report.SummaryCell[agencyRow]{
			{Ref: "C2", Value: report.Const[agencyRow](models.Text(dateutils.ToReportDate(p.ReportDate)))},
			{Ref: "F8", Value: report.Count(agencyRow.promised)},
			{Ref: "G8", Value: report.Sum(agencyRow.balance, agencyRow.promised)},
			{Ref: "K8", Value: report.Const[agencyRow](kept)},
			{Ref: "K9", Value: report.Const[agencyRow](kept)},
			{Ref: "L8", Value: report.Const[agencyRow](models.Number(figures.KeptBalance))},
			{Ref: "C13", Value: report.Const[agencyRow](models.Number(figures.Allocation))},
		}})
	wb.Template = AgencyProductivityTemplate
	return wb
}
