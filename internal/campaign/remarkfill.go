package campaign

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spmadrid/collections-reports/internal/dateutils"
	"spmadrid/collections-reports/internal/dedupe"
	"spmadrid/collections-reports/internal/ingest"
	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
	"spmadrid/collections-reports/internal/report"
	"spmadrid/collections-reports/internal/reporterror"
	"spmadrid/collections-reports/internal/textutils"
)

// RemarkFillColumns are the required columns of the remark export.
var RemarkFillColumns = []string{"Date", "Remark", "Account No."}

// RemarkFillHeaderRow is the header row of the daily report template.
const RemarkFillHeaderRow = 2

// RemarkFill writes the latest remark of each account into a column of an existing
// daily report template.
type RemarkFill struct {
	logger logging.Logger
}

// NewRemarkFill creates the campaign.
func NewRemarkFill(logger logging.Logger) *RemarkFill {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &RemarkFill{logger: logger}
}

func (f *RemarkFill) Name() string { return "remark-fill" }

func (f *RemarkFill) Ingest() ingest.Options {
	return ingest.Options{
		Required: RemarkFillColumns,
		Types: ingest.Schema{
			"Account No.": ingest.TypeText,
			"Date":        ingest.TypeDate,
			"Time":        ingest.TypeTime,
		},
		DropBlankRows: true,
	}
}

// TemplateIngest returns the read options of the template sheet.
func (f *RemarkFill) TemplateIngest(sheet string) ingest.Options {
	return ingest.Options{Sheet: sheet, HeaderRow: RemarkFillHeaderRow}
}

func (f *RemarkFill) Needs() reference.Need { return 0 }

func (f *RemarkFill) AccountKeys(*models.Table) []string { return nil }

func (f *RemarkFill) Run(_ context.Context, in *models.Table, _ *reference.Snapshot, p Params) (*Result, error) {
	if p.Template == nil {
		return nil, &reporterror.ValidationError{Field: "template", Reason: "a template sheet is required"}
	}
	accountCol, ok := accountColumn(p.Template.Columns())
	if !ok {
		return nil, &reporterror.MissingColumnsError{Sheet: p.Template.Sheet, Columns: []string{"ACCOUNT NUMBER"}}
	}
	targetIdx, ok := p.Template.Header().Index(p.TargetColumn)
	if p.TargetColumn == "" || !ok {
		return nil, &reporterror.MissingColumnsError{Sheet: p.Template.Sheet, Columns: []string{p.TargetColumn}}
	}

	res := newResult(in.Len())
	latest := latestRemarks(models.CMSMapping.Records(in))
	res.exclude("superseded", in.Len()-len(latest))

	sheet := &report.Sheet{Name: p.Template.Sheet}
	for _, row := range p.Template.Rows {
		key := models.AccountKey(row.Get(accountCol))
		if key == "" {
			continue
		}
		value, found := latest[key]
		if !found {
			continue
		}
		sheet.Cells = append(sheet.Cells, report.Cell{Ref: report.Ref(targetIdx+1, row.Line), Value: models.Text(value)})
	}
	f.logger.Debug("Filled template remarks",
		logging.F(logging.FieldSheet, sheet.Name),
		logging.F(logging.FieldCount, len(sheet.Cells)))

	res.add(&report.Workbook{
		FileName: fmt.Sprintf("SP MADRID DAILY REPORT %s.xlsx", dateutils.ToFileDate(p.ReportDate)),
		Template: p.TemplatePath,
		Sheets:   []*report.Sheet{sheet},
	})
	return res, nil
}

// accountColumn finds the first header naming an account number.
func accountColumn(cols []string) (string, bool) {
	for _, c := range cols {
		h := textutils.NormalizeHeader(c)
		if strings.Contains(h, "ACCOUNT") && (strings.Contains(h, "NUMBER") || strings.Contains(h, "NO")) {
			return c, true
		}
	}
	return "", false
}

// latestRemarks maps each account to "<MM/DD/YYYY> <remark>" of its newest remark.
func latestRemarks(records []models.Record) map[string]string {
	var withAccount []models.Record
	for _, r := range records {
		if r.AccountID != "" {
			withAccount = append(withAccount, r)
		}
	}
	newest := dedupe.Latest(withAccount,
		func(r models.Record) string { return r.AccountID },
		func(r models.Record) time.Time { return r.Timestamp })

	out := make(map[string]string, len(newest))
	for _, r := range newest {
		out[r.AccountID] = strings.TrimSpace(dateutils.ToReportDate(r.Timestamp) + " " + r.Remark)
	}
	return out
}
