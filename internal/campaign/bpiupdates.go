package campaign

import (
	"context"
	"time"

	"spmadrid/collections-reports/internal/export"
	"spmadrid/collections-reports/internal/ingest"
	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
	"spmadrid/collections-reports/internal/report"
	"spmadrid/collections-reports/internal/reporterror"
	"spmadrid/collections-reports/internal/textutils"
)

// BPI updates run modes.
const (
	ModeUpdates = "updates"
	ModeUploads = "uploads"
)

// BPIUpdatesColumns are the required input columns of the BPI auto-curing endorsement.
var BPIUpdatesColumns = []string{
	"LAN", "NAME", "CTL4", "PAST DUE", "PAYOFF AMOUNT", "PRINCIPAL", "LPC", "ADA SHORTAGE",
	"UNIT", "DPD", "EMAIL", "CONTACT NUMBER 1", "CONTACT NUMBER 2", "ENDO DATE",
}

var bpiAmountColumns = []string{"PAST DUE", "PAYOFF AMOUNT", "PRINCIPAL", "LPC", "ADA SHORTAGE"}

// BPIUpdates reshapes a BPI auto-curing endorsement into the updates or uploads layout.
type BPIUpdates struct {
	logger logging.Logger
}

// NewBPIUpdates creates the campaign.
func NewBPIUpdates(logger logging.Logger) *BPIUpdates {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &BPIUpdates{logger: logger}
}

func (b *BPIUpdates) Name() string { return "bpi-updates" }

func (b *BPIUpdates) Ingest() ingest.Options {
	types := ingest.Schema{"LAN": ingest.TypeText, "ENDO DATE": ingest.TypeDate}
	for _, c := range bpiAmountColumns {
		types[c] = ingest.TypeNumber
	}
	return ingest.Options{Required: BPIUpdatesColumns, Types: types, DropBlankRows: true}
}

func (b *BPIUpdates) Needs() reference.Need { return 0 }

func (b *BPIUpdates) AccountKeys(*models.Table) []string { return nil }

func (b *BPIUpdates) Run(_ context.Context, in *models.Table, _ *reference.Snapshot, p Params) (*Result, error) {
	var label string
	switch p.Mode {
	case ModeUpdates, "":
		label = "BPI AUTO CURING FOR UPDATES"
	case ModeUploads:
		label = "BPI AUTO CURING FOR UPLOADS"
	default:
		return nil, &reporterror.ValidationError{Field: "mode", Reason: "must be updates or uploads, got " + p.Mode}
	}

	res := newResult(in.Len())
	wb := report.NewGenerator[models.Row](b.logger).Assemble(export.FileName(label, p.ReportDate), in.Rows,
		report.SheetSpec[models.Row]{Name: "Sheet1", Columns: bpiUpdateColumns()})
	res.add(wb)
	return res, nil
}

func bpiUpdateColumns() []report.Column[models.Row] {
	amount := func(name string) report.Column[models.Row] {
		return report.Column[models.Row]{Name: name, Value: func(r models.Row) models.Value {
			return models.Number(models.ZeroIfAbsent(cellAmount(r.Get(name))).Round(2))
		}}
	}
	mobile := func(name, from string) report.Column[models.Row] {
		return report.Text(name, func(r models.Row) string { return textutils.NormalizeMobile(r.Text(from)) })
	}
	return []report.Column[models.Row]{
		project("LAN"),
		{Name: "CH CODE", Value: func(r models.Row) models.Value { return r.Get("LAN") }},
		project("NAME"),
		project("CTL4"),
		amount("PAST DUE"),
		amount("PAYOFF AMOUNT"),
		amount("PRINCIPAL"),
		amount("LPC"),
		amount("ADA SHORTAGE"),
		{Name: "EMAIL_ALS", Value: func(r models.Row) models.Value { return r.Get("EMAIL") }},
		mobile("MOBILE_NO_ALS", "CONTACT NUMBER 1"),
		mobile("MOBILE_ALFES", "CONTACT NUMBER 2"),
		report.Blank[models.Row]("LANDLINE_NO_ALFES"),
		report.ReportDate("DATE REFERRED", func(r models.Row) time.Time { return cellDate(r.Get("ENDO DATE")) }),
		project("UNIT"),
		project("DPD"),
	}
}
