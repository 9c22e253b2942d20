package campaign

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spmadrid/collections-reports/internal/classifier"
	"spmadrid/collections-reports/internal/dateutils"
	"spmadrid/collections-reports/internal/export"
	"spmadrid/collections-reports/internal/ingest"
	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
	"spmadrid/collections-reports/internal/report"
	"spmadrid/collections-reports/internal/textutils"
)

// Positions of the cured-list source columns. The export has no stable header names.
const (
	curedColLAN        = 0
	curedColCollector  = 1
	curedColDate       = 2
	curedColAmount     = 3
	curedColStatus     = 7
	curedColPaymentLAN = 16
	curedColName       = 17
	curedColPhone1     = 41
	curedColPhone2     = 42
)

// Cured-list remark texts.
const (
	curedRemarkNew      = " - PTP NEW"
	curedRemarkFollowUp = " - FPTP"
	curedRemarkPaid     = "CURED - CONFIRM VIA SELECTIVE LIST"
)

// CuredListOptions configure the BPI cured list.
type CuredListOptions struct {
	HouseAgent string
	MinColumns int
	// RemarkColumn names an optional column holding the collector remark used for reason codes.
	RemarkColumn   string
	ReasonDefaults classifier.ReasonDefaults
	Order          classifier.Order
}

// CuredList expands every account of a BPI cured list into its action-status rows
// and writes the REMARKS, RESHUFFLE and PAYMENT workbooks.
type CuredList struct {
	opts    CuredListOptions
	cascade classifier.Cascade
	logger  logging.Logger
}

// NewCuredList creates the campaign.
func NewCuredList(opts CuredListOptions, logger logging.Logger) *CuredList {
	if opts.MinColumns <= 0 {
		opts.MinColumns = curedColPhone2 + 1
	}
	if opts.ReasonDefaults == nil {
		opts.ReasonDefaults = classifier.DefaultReasonDefaults()
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	cascade := classifier.CuredListCascade()
	cascade.Order = opts.Order
	return &CuredList{opts: opts, cascade: cascade, logger: logger}
}

func (c *CuredList) Name() string { return "cured-list" }

func (c *CuredList) Ingest() ingest.Options {
	return ingest.Options{MinColumns: c.opts.MinColumns, DropBlankRows: true}
}

func (c *CuredList) Needs() reference.Need { return reference.NeedReasonCodes }

func (c *CuredList) AccountKeys(*models.Table) []string { return nil }

// curedRow is one expanded action row with the reason of its source record.
type curedRow struct {
	classifier.SyntheticRow
	Reason string
}

func (r curedRow) src() models.Row { return r.Input.Record.Row }

func (r curedRow) paid() bool { return r.Label.Kind == classifier.LabelCured }

func (r curedRow) phone() string {
	if p := textutils.NormalizeMobile(r.src().At(curedColPhone1).String()); p != "" {
		return p
	}
	return textutils.NormalizeMobile(r.src().At(curedColPhone2).String())
}

func (r curedRow) remark() string {
	switch r.Label.Kind {
	case classifier.LabelPTPNew:
		return "1_" + r.phone() + curedRemarkNew
	case classifier.LabelPTPFollowUp:
		return r.phone() + curedRemarkFollowUp
	default:
		return curedRemarkPaid
	}
}

type reshuffleRow struct {
	LAN      string
	RemarkBy string
}

// Run classifies the list, expands the action cascade and assembles the three workbooks.
func (c *CuredList) Run(_ context.Context, in *models.Table, snap *reference.Snapshot, p Params) (*Result, error) {
	res := newResult(in.Len())

	records := make([]models.Record, 0, in.Len())
	for _, r := range in.Rows {
		records = append(records, c.record(r))
	}
	cls := classifier.New(snap, classifier.Options{
		Exclusions:     []classifier.ExclusionRule{classifier.DefaultSystemRemarks()},
		ReasonDefaults: c.opts.ReasonDefaults,
		ReasonKey:      byCategoryOrLabel,
	}, c.logger)
	out := cls.Classify(records)
	res.Warnings = append(res.Warnings, out.Warnings...)
	for rule, n := range out.ExcludedBy {
		res.exclude(rule, n)
	}

	inputs := make([]classifier.CascadeInput, 0, len(out.Rows))
	reasons := make(map[int]string, len(out.Rows))
	for _, row := range out.Rows {
		inputs = append(inputs, classifier.CascadeInput{
			Record: row.Record,
			Status: row.Status,
			House:  classifier.IsHouseAgent(row.Record.RemarkBy, c.opts.HouseAgent),
		})
		reasons[row.Record.Row.Line] = row.Reason
	}
	expanded := c.cascade.Expand(inputs)
	rows := make([]curedRow, 0, len(expanded))
	for _, s := range expanded {
		rows = append(rows, curedRow{SyntheticRow: s, Reason: reasons[s.Input.Record.Row.Line]})
	}
	c.logger.Debug("Expanded action cascade",
		logging.F(logging.FieldCount, len(rows)),
		logging.F("accounts", len(inputs)))

	day := p.ReportDate
	remarks := report.NewGenerator[curedRow](c.logger).Assemble(
		export.FileName("BPI AUTOCURING REMARKS", day), rows,
		report.SheetSpec[curedRow]{Name: "REMARKS", Columns: remarkColumns()})
	payments := report.NewGenerator[curedRow](c.logger).Assemble(
		export.FileName("BPI AUTOCURING PAYMENT", day), rows,
		report.SheetSpec[curedRow]{Name: "PAYMENT", Filter: curedRow.paid, Columns: paymentColumns()})

	lanHeader := "LAN"
	if cols := in.Columns(); len(cols) > 0 {
		lanHeader = cols[0]
	}
	reshuffle := report.NewGenerator[reshuffleRow](c.logger).Assemble(
		export.FileName("BPI AUTOCURING RESHUFFLE", day), reshuffleRows(out.Rows),
		report.SheetSpec[reshuffleRow]{Name: "RESHUFFLE", Columns: []report.Column[reshuffleRow]{
			report.Text(lanHeader, func(r reshuffleRow) string { return r.LAN }),
			report.Text("REMARK BY", func(r reshuffleRow) string { return r.RemarkBy }),
		}})

	res.add(remarks, reshuffle, payments)
	return res, nil
}

func (c *CuredList) record(r models.Row) models.Record {
	rec := models.Record{
		Row:       r,
		AccountID: models.AccountKey(r.At(curedColLAN)),
		RemarkBy:  strings.TrimSpace(r.At(curedColCollector).String()),
		Timestamp: cellDate(r.At(curedColDate)),
		PTPAmount: cellAmount(r.At(curedColAmount)),
		StatusRaw: strings.TrimSpace(r.At(curedColStatus).String()),
	}
	if c.opts.RemarkColumn != "" {
		rec.Remark = r.Text(c.opts.RemarkColumn)
	}
	return rec
}

// byCategoryOrLabel keys reason defaults by the status tag, or by the raw category for
// statuses outside the closed set such as "CALL NO PTP".
func byCategoryOrLabel(st models.CanonicalStatus) string {
	if st.Kind == models.CategoryOther {
		return st.Category
	}
	return st.Kind.String()
}

// reshuffleRows pairs every kept row with the collector of the first row carrying its LAN.
func reshuffleRows(rows []classifier.Classified) []reshuffleRow {
	first := make(map[string]string, len(rows))
	for _, r := range rows {
		lan := r.Record.Row.At(curedColLAN).String()
		if _, ok := first[lan]; !ok {
			first[lan] = r.Record.RemarkBy
		}
	}
	out := make([]reshuffleRow, 0, len(rows))
	for _, r := range rows {
		lan := r.Record.Row.At(curedColLAN).String()
		out = append(out, reshuffleRow{LAN: lan, RemarkBy: first[lan]})
	}
	return out
}

func remarkColumns() []report.Column[curedRow] {
	day := func(r curedRow) time.Time { return r.Input.Record.Timestamp }
	amount := func(r curedRow) decimal.NullDecimal { return r.Input.Record.PTPAmount }
	none := decimal.NullDecimal{}
	return []report.Column[curedRow]{
		report.Text("LAN", func(r curedRow) string { return r.src().At(curedColLAN).String() }),
		report.Text("Action Status", func(r curedRow) string { return r.Label.Name }),
		report.DateText("Remark Date", func(r curedRow) time.Time {
			if day(r).IsZero() {
				return time.Time{}
			}
			return dateutils.AtClock(day(r), r.Label.Hour, r.Label.Minute, 0)
		}, dateutils.ToStamp),
		report.ReportDate("PTP Date", day),
		report.Text("Reason For Default", func(r curedRow) string { return r.Reason }),
		report.Blank[curedRow]("Field Visit Date"),
		report.Text("Remark", curedRow.remark),
		report.Blank[curedRow]("Next Call Date"),
		report.Amount("PTP Amount", func(r curedRow) decimal.NullDecimal {
			if r.paid() {
				return none
			}
			return amount(r)
		}),
		report.Amount("Claim Paid Amount", func(r curedRow) decimal.NullDecimal {
			if !r.paid() {
				return none
			}
			return amount(r)
		}),
		report.Text("Remark By", func(r curedRow) string { return r.Input.Record.RemarkBy }),
		report.Text("Phone No.", func(r curedRow) string {
			if r.paid() {
				return ""
			}
			return r.phone()
		}),
		report.Blank[curedRow]("Relation"),
		report.ReportDate("Claim Paid Date", func(r curedRow) time.Time {
			if !r.paid() {
				return time.Time{}
			}
			return day(r)
		}),
	}
}

func paymentColumns() []report.Column[curedRow] {
	return []report.Column[curedRow]{
		report.Text("LAN", func(r curedRow) string { return r.src().At(curedColPaymentLAN).String() }),
		report.Blank[curedRow]("ACCOUNT NUMBER"),
		report.Text("NAME", func(r curedRow) string { return r.src().At(curedColName).String() }),
		report.Blank[curedRow]("CARD NUMBER"),
		report.Amount("PAYMENT AMOUNT", func(r curedRow) decimal.NullDecimal { return r.Input.Record.PTPAmount }),
		report.ReportDate("PAYMENT DATE", func(r curedRow) time.Time { return r.Input.Record.Timestamp }),
	}
}
