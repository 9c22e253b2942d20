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

// MonitoringColumns are the required columns of the daily remark export.
var MonitoringColumns = []string{
	"Time", "Status", "Account No.", "Debtor", "DPD", "Remark", "Remark By",
	"PTP Amount", "Balance", "Claim Paid Amount",
}

// MonitoringTemplate is the template workbook of the daily monitoring report.
const MonitoringTemplate = "DAILY MONITORING PTP, DEPO & REPO REPORT TEMPLATE.xlsx"

var channels = []string{"", " VIA CALL", " VIA SMS", " VIA EMAIL", " VIA FIELD VISIT", " VIA CARAVAN", " VIA SOCMED"}

func withChannels(category string) map[string]struct{} {
	out := make(map[string]struct{}, len(channels))
	for _, c := range channels {
		out[category+c] = struct{}{}
	}
	return out
}

var (
	paymentStatuses = withChannels("PAYMENT")
	ptpStatuses     = withChannels("PTP")
)

// eodLabels are tried in order; a payment sub-status is claimed by the first one it contains.
var eodLabels = []struct{ SubStatus, Label string }{
	{"FULLY PAID", "PAY OFF"},
	{"PARTIAL", "STILL PD BUT WITH ARRANGEMENT"},
	{"FULL UPDATE", "CURRENT"},
}

// MonitoringOptions configure the daily monitoring report.
type MonitoringOptions struct {
	// DropAgents lists agent id fragments whose remarks are left out.
	DropAgents []string
	// DropRemarks lists remark fragments that are left out.
	DropRemarks []string
}

// Monitoring builds the ROB Bike daily monitoring workbook from the daily remark export.
type Monitoring struct {
	opts   MonitoringOptions
	logger logging.Logger
}

// NewMonitoring creates the campaign.
func NewMonitoring(opts MonitoringOptions, logger logging.Logger) *Monitoring {
	if opts.DropAgents == nil {
		opts.DropAgents = []string{"JERIVERA", "SYSTEM"}
	}
	if opts.DropRemarks == nil {
		opts.DropRemarks = []string{classifier.RemarkAutoPDUpdate}
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Monitoring{opts: opts, logger: logger}
}

func (m *Monitoring) Name() string { return "monitoring" }

func (m *Monitoring) Ingest() ingest.Options {
	return ingest.Options{
		Required: MonitoringColumns,
		Types: ingest.Schema{
			"Account No.":       ingest.TypeText,
			"Date":              ingest.TypeDate,
			"Time":              ingest.TypeTime,
			"PTP Date":          ingest.TypeDate,
			"Claim Paid Date":   ingest.TypeDate,
			"PTP Amount":        ingest.TypeNumber,
			"Claim Paid Amount": ingest.TypeNumber,
			"Balance":           ingest.TypeNumber,
		},
		DropBlankRows: true,
	}
}

func (m *Monitoring) Needs() reference.Need {
	return reference.NeedDispositions | reference.NeedAccounts | reference.NeedFieldResults
}

func (m *Monitoring) AccountKeys(in *models.Table) []string { return columnKeys(in, "Account No.") }

// monitoringRow is one kept remark with its account enrichment.
type monitoringRow struct {
	classifier.Classified
	Meta    reference.AccountMeta
	Found   bool
	Field   reference.FieldResult
	Account string
	Report  time.Time
}

func (r monitoringRow) category() string { return upper(r.Status.Category) }

func (r monitoringRow) subStatus() string { return upper(r.Status.SubStatus) }

func (r monitoringRow) balance() decimal.NullDecimal { return r.Record.Balance }

func (r monitoringRow) isPayment() bool {
	_, ok := paymentStatuses[r.category()]
	return ok
}

func (r monitoringRow) followUp() bool { return strings.Contains(r.subStatus(), "FOLLOW UP") }

// Run filters, dedups and enriches the remarks, then assembles the four-sheet workbook.
func (m *Monitoring) Run(_ context.Context, in *models.Table, snap *reference.Snapshot, p Params) (*Result, error) {
	res := newResult(in.Len())

	records := dedupe.NewestFirst(models.CMSMapping.Records(in), func(r models.Record) time.Time { return r.Timestamp })

	// Status filters run before the composite dedup; agent and remark filters after it.
	byStatus := classifier.New(snap, classifier.Options{Exclusions: []classifier.ExclusionRule{
		classifier.BlankOrExcludedStatus{},
		classifier.InvalidDisposition{Snapshot: snap},
	}}, m.logger).Classify(records)
	for rule, n := range byStatus.ExcludedBy {
		res.exclude(rule, n)
	}

	unique := dedupe.KeepFirst(byStatus.Rows, func(c classifier.Classified) [2]string {
		return [2]string{c.Record.AccountID, upper(c.Status.Raw)}
	})
	res.exclude("duplicate", len(byStatus.Rows)-len(unique))

	late := []classifier.ExclusionRule{
		classifier.RemarkContains{Substrings: m.opts.DropRemarks},
		classifier.AgentContains{Substrings: m.opts.DropAgents},
	}
	rows := make([]monitoringRow, 0, len(unique))
	for _, c := range unique {
		if rule, ok := classifier.FirstExclusion(late, c.Record, c.Status); ok {
			res.exclude(rule, 1)
			continue
		}
		row := monitoringRow{Classified: c, Account: reference.AccountKey(c.Record.AccountID), Report: p.ReportDate}
		row.Meta, row.Found = snap.Account(c.Record.AccountID)
		if row.Found {
			row.Field, _ = snap.FieldResult(row.Meta.ChCode)
		}
		if w, ok := voluntarySurrenderWarning(c); ok {
			res.Warnings = append(res.Warnings, w)
		}
		rows = append(rows, row)
	}
	m.logger.Debug("Filtered daily remarks",
		logging.F(logging.FieldCount, len(rows)),
		logging.F(logging.FieldExcluded, res.Stats.Excluded))

	wb := report.NewGenerator[monitoringRow](m.logger).Assemble(
		fmt.Sprintf("DAILY MONITORING PTP, DEPO & REPO REPORT as of %s.xlsx", dateutils.ToMonthDate(p.ReportDate)),
		rows,
		report.SheetSpec[monitoringRow]{Name: "MONITORING", Columns: monitoringColumns()},
		report.SheetSpec[monitoringRow]{
			Name:    "PTP",
			Filter:  func(r monitoringRow) bool { return r.Status.MentionsPTP() },
			Columns: ptpColumns(),
		},
		report.SheetSpec[monitoringRow]{Name: "REPO"},
		report.SheetSpec[monitoringRow]{Name: "DEPO"},
		eodSheet(),
	)
	wb.Template = MonitoringTemplate
	res.add(wb)
	return res, nil
}

func voluntarySurrenderWarning(c classifier.Classified) (models.Warning, bool) {
	if upper(c.Status.Category) != "PTP" || upper(c.Status.SubStatus) != "VOLUNTARY SURRENDER" {
		return models.Warning{}, false
	}
	if models.NonZero(c.Record.PTPAmount) {
		return models.Warning{}, false
	}
	return models.Warning{
		Line:    c.Record.Row.Line,
		Account: c.Record.AccountID,
		Code:    models.WarnVoluntarySurrenderAmount,
		Message: "PTP - VOLUNTARY SURRENDER without a PTP amount",
	}, true
}

// accountNumber is blank when the account lookup missed.
func accountNumber(r monitoringRow) string {
	if !r.Found || r.Account == "" {
		return ""
	}
	return "00" + r.Account
}

func monitoringColumns() []report.Column[monitoringRow] {
	return []report.Column[monitoringRow]{
		report.Text("Account Name", func(r monitoringRow) string { return upper(r.Record.Debtor) }),
		report.Text("Account Number", accountNumber),
		report.Amount("Principal", monitoringRow.balance),
		report.ReportDate("EndoDate", func(r monitoringRow) time.Time { return r.Meta.EndoDate }),
		report.Text("Stores", func(r monitoringRow) string { return blankZero(r.Meta.Store) }),
		report.Text("Cluster", func(r monitoringRow) string { return blankZero(r.Meta.Cluster) }),
		{Name: "DaysPastDue", Value: func(r monitoringRow) models.Value { return r.Record.Row.Get("DPD") }},
		report.Text("Field Status", func(r monitoringRow) string { return r.Field.Status }),
		report.Text("Field Substatus", func(r monitoringRow) string { return r.Field.SubStatus }),
		report.Text("Status", func(r monitoringRow) string { return r.Status.Category }),
		report.Text("subStatus", func(r monitoringRow) string { return r.Status.SubStatus }),
		report.Text("Notes", func(r monitoringRow) string { return r.Record.Remark }),
		report.ReportDate("BarcodeDate", func(r monitoringRow) time.Time { return cellDate(r.Record.Row.Get("Date")) }),
		report.Amount("PTP Amount", func(r monitoringRow) decimal.NullDecimal { return r.PTPAmount }),
		report.ReportDate("PTP Date", func(r monitoringRow) time.Time { return r.PTPDate }),
	}
}

func ptpColumns() []report.Column[monitoringRow] {
	return []report.Column[monitoringRow]{
		report.Text("Account Name", func(r monitoringRow) string { return upper(r.Record.Debtor) }),
		report.Text("AccountNumber", accountNumber),
		report.Text("Status", func(r monitoringRow) string { return r.Status.Category }),
		report.Text("subStatus", func(r monitoringRow) string { return r.Status.SubStatus }),
		report.Amount("Amount", func(r monitoringRow) decimal.NullDecimal { return r.PTPAmount }),
		report.DateText("StartDate", func(r monitoringRow) time.Time { return r.PTPDate }, dateutils.ToISODate),
		report.Text("Notes", func(r monitoringRow) string { return r.Record.Remark }),
		report.DateText("ResultDate", func(r monitoringRow) time.Time {
			if r.Report.IsZero() {
				return time.Time{}
			}
			clock := r.Record.Timestamp
			return dateutils.AtClock(r.Report, clock.Hour(), clock.Minute(), clock.Second())
		}, dateutils.ToResultStamp),
		report.ReportDate("EndoDate", func(r monitoringRow) time.Time { return r.Meta.EndoDate }),
	}
}

func eodSheet() report.SheetSpec[monitoringRow] {
	surrender := func(r monitoringRow) bool { return r.isPayment() && r.subStatus() == "VOLUNTARY SURRENDER" }
	promised := func(r monitoringRow) bool {
		_, ok := ptpStatuses[r.category()]
		return ok && !r.followUp()
	}
	promisedAny := func(r monitoringRow) bool { return r.Status.MentionsPTP() && !r.followUp() }

	labels := make([]report.PriorityLabel[monitoringRow], 0, len(eodLabels))
	for _, l := range eodLabels {
		sub := l.SubStatus
		labels = append(labels, report.PriorityLabel[monitoringRow]{
			Label: l.Label,
			Match: func(r monitoringRow) bool { return r.isPayment() && strings.Contains(r.subStatus(), sub) },
		})
	}

	return report.SheetSpec[monitoringRow]{
		Name: "EOD",
		Summary: []report.SummaryCell[monitoringRow]{
			{Ref: "C2", Value: report.Sum(monitoringRow.balance, nil)},
			{Ref: "D2", Value: report.CountPresent(monitoringRow.balance)},
			{Ref: "C5", Value: report.Sum(monitoringRow.balance, surrender)},
			{Ref: "D5", Value: report.Count(surrender)},
			{Ref: "C9", Value: report.Sum(monitoringRow.balance, promised)},
			{Ref: "D9", Value: report.Count(promisedAny)},
		},
		Sections: []report.PrioritySection[monitoringRow]{{
			StartRow: 12,
			MinRows:  2,
			Labels:   labels,
			Columns: []report.SectionColumn[monitoringRow]{
				{Col: 3, Value: func(r monitoringRow, _ string) models.Value { return models.NumberOrAbsent(r.balance()) }},
				{Col: 4, Value: func(r monitoringRow, _ string) models.Value {
					return models.NumberOrAbsent(classifier.EffectiveAmount(r.Record.ClaimPaidAmount, r.Record.PTPAmount))
				}},
				{Col: 5, Value: func(_ monitoringRow, label string) models.Value { return models.Text(label) }},
			},
			Pad: []int{3, 5},
		}},
	}
}
