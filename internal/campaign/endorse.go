package campaign

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spmadrid/collections-reports/internal/dateutils"
	"spmadrid/collections-reports/internal/ingest"
	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
	"spmadrid/collections-reports/internal/report"
	"spmadrid/collections-reports/internal/textutils"
)

// Endorsement column names. "Endrosement" is how the bank spells it.
const (
	endoAccount  = "Account Number"
	endoOB       = "Endrosement OB"
	endoDPD      = "Endrosement DPD"
	endoContact  = "Contact No."
	endoBrand    = "BRAND"
	endoModel    = "MODEL"
	endoAcctName = "ACCT NAME"
	endoDate     = "ENDO DATE"
	endoDescrip  = "DESCRIP"
)

// EndorseColumns are the required columns of a ROB Bike endorsement.
var EndorseColumns = []string{endoAccount, endoOB, endoContact, endoBrand, endoModel}

var (
	endoDropped     = []string{"Endorsement Date", "Account Number 1"}
	endoZeroBlanked = []string{"ENGINE NUMBER", "CHASSIS NUMBER"}
)

// Endorse turns a new ROB Bike endorsement into the BCRM, CMS and reshuffle uploads,
// leaving out accounts that were endorsed before.
type Endorse struct {
	taggings []string
	logger   logging.Logger
}

// NewEndorse creates the campaign. Taggings are assigned round-robin in the reshuffle.
func NewEndorse(taggings []string, logger logging.Logger) *Endorse {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Endorse{taggings: taggings, logger: logger}
}

func (e *Endorse) Name() string { return "endorse" }

func (e *Endorse) Ingest() ingest.Options {
	return ingest.Options{
		Required: EndorseColumns,
		Types: ingest.Schema{
			endoAccount: ingest.TypeText,
			endoOB:      ingest.TypeNumber,
			endoDPD:     ingest.TypeNumber,
		},
		DropBlankRows: true,
	}
}

func (e *Endorse) Needs() reference.Need { return reference.NeedAccounts }

func (e *Endorse) AccountKeys(in *models.Table) []string { return columnKeys(in, endoAccount) }

func (e *Endorse) Run(_ context.Context, in *models.Table, snap *reference.Snapshot, p Params) (*Result, error) {
	res := newResult(in.Len())

	fresh := in.Filter(func(r models.Row) bool { return !snap.Endorsed(models.AccountKey(r.Get(endoAccount))) })
	res.exclude("already_endorsed", in.Len()-fresh.Len())
	if fresh.Len() == 0 {
		e.logger.Warn("No new accounts in endorsement", logging.F(logging.FieldCount, in.Len()))
		res.Warnings = append(res.Warnings, models.Warning{
			Code:    models.WarnAllEndorsed,
			Message: fmt.Sprintf("all %d accounts were endorsed before", in.Len()),
		})
		return res, nil
	}

	cleaned, warnings := cleanEndorsement(fresh, p.ReportDate)
	res.Warnings = append(res.Warnings, warnings...)
	e.logger.Debug("Cleaned endorsement",
		logging.F(logging.FieldCount, cleaned.Len()),
		logging.F(logging.FieldExcluded, res.Stats.Excluded),
		logging.F(logging.FieldWarnings, len(warnings)))

	day := p.ReportDate
	gen := report.NewGenerator[models.Row](e.logger)
	bcrm := gen.Assemble(fmt.Sprintf("rob_bike-new-(%s).xlsx", dateutils.ToISODate(day)), cleaned.Rows,
		report.SheetSpec[models.Row]{Name: "Sheet1", Columns: projectAll(cleaned.Columns())})
	cms := gen.Assemble(fmt.Sprintf("ROBBike-CMS-NewEndo-%s.xlsx", dateutils.ToDashedDate(day)), cleaned.Rows,
		report.SheetSpec[models.Row]{Name: "Sheet1", Columns: cmsColumns(cleaned, snap)})
	reshuffle := report.NewGenerator[taggedAccount](e.logger).Assemble(
		fmt.Sprintf("ROBBike-CMS-Reshuffle-%s.xlsx", dateutils.ToDashedDate(day)),
		tagRoundRobin(cleaned, e.taggings),
		report.SheetSpec[taggedAccount]{Name: "Sheet1", Columns: []report.Column[taggedAccount]{
			report.Text("Account No.", func(a taggedAccount) string { return a.Account }),
			report.Text("TAGGING", func(a taggedAccount) string { return a.Tagging }),
		}})

	res.add(bcrm, cms, reshuffle)
	return res, nil
}

// cleanEndorsement drops the internal columns, prepends ENDO DATE and repairs OB, DPD
// and the engine and chassis placeholders.
func cleanEndorsement(in *models.Table, day time.Time) (*models.Table, []models.Warning) {
	keep := make([]string, 0, len(in.Columns()))
	for _, c := range in.Columns() {
		if !containsString(endoDropped, c) {
			keep = append(keep, c)
		}
	}
	cols := append([]string{endoDate}, keep...)

	var warnings []models.Warning
	out := make([][]models.Value, 0, in.Len())
	for _, r := range in.Rows {
		line := make([]models.Value, 0, len(cols))
		line = append(line, models.Text(dateutils.ToReportDate(day)))
		for _, c := range keep {
			v := r.Get(c)
			switch {
			case c == endoOB:
				ob := cellAmount(v)
				if !ob.Valid || ob.Decimal.IsZero() {
					warnings = append(warnings, models.Warning{
						Line:    r.Line,
						Account: models.AccountKey(r.Get(endoAccount)),
						Code:    models.WarnZeroOutstanding,
						Message: "outstanding balance missing or zero, set to 1",
					})
					ob = decimal.NewNullDecimal(decimal.NewFromInt(1))
				}
				v = models.Number(ob.Decimal)
			case c == endoDPD:
				if dpd := cellAmount(v); dpd.Valid {
					v = models.Number(dpd.Decimal)
				} else {
					warnings = append(warnings, models.Warning{
						Line:    r.Line,
						Account: models.AccountKey(r.Get(endoAccount)),
						Code:    models.WarnMissingDPD,
						Message: "days past due missing, set to 0",
					})
					v = models.Number(decimal.Zero)
				}
			case containsString(endoZeroBlanked, c):
				if strings.TrimSpace(v.String()) == "0" {
					v = models.Absent()
				}
			}
			line = append(line, v)
		}
		out = append(out, line)
	}
	return models.NewTable(in.Sheet, cols, out), warnings
}

func projectAll(cols []string) []report.Column[models.Row] {
	out := make([]report.Column[models.Row], 0, len(cols))
	for _, c := range cols {
		out = append(out, project(c))
	}
	return out
}

// cmsColumns lays out the CMS upload: CHCODE third, the split name after it when the
// sheet carries ACCT NAME, DESCRIP and the blank agent columns last.
func cmsColumns(t *models.Table, snap *reference.Snapshot) []report.Column[models.Row] {
	var cols []report.Column[models.Row]
	for _, name := range t.Columns() {
		switch name {
		case endoDescrip:
			// rebuilt from BRAND and MODEL below
		case endoContact:
			cols = append(cols, report.Text(name, func(r models.Row) string { return textutils.CleanPhone(r.Text(endoContact)) }))
		default:
			cols = append(cols, project(name))
		}
	}
	if t.Has(endoBrand) && t.Has(endoModel) {
		cols = append(cols, report.Text(endoDescrip, func(r models.Row) string {
			brand, model := strings.TrimSpace(r.Text(endoBrand)), strings.TrimSpace(r.Text(endoModel))
			if brand == "" || model == "" {
				return ""
			}
			return brand + " " + model
		}))
	}

	if t.Has(endoAcctName) {
		name := func(r models.Row) textutils.PersonName { return textutils.SplitName(r.Text(endoAcctName)) }
		cols = insertColumns(cols, 3,
			report.Text("FIRST NAME", func(r models.Row) string { return name(r).First }),
			report.Text("MIDDLE NAME", func(r models.Row) string { return name(r).Middle }),
			report.Text("LAST NAME", func(r models.Row) string { return name(r).Last }),
		)
	}
	cols = insertColumns(cols, 2, report.Text("CHCODE", func(r models.Row) string {
		ch, _ := snap.ChCodeFor(textutils.StripLeadingZeros(r.Text(endoAccount)))
		return ch
	}))

	return append(cols,
		report.Blank[models.Row]("AGENT FIRSTNAME"),
		report.Blank[models.Row]("AGENT LASTNAME"),
	)
}

func insertColumns(cols []report.Column[models.Row], at int, add ...report.Column[models.Row]) []report.Column[models.Row] {
	if at > len(cols) {
		at = len(cols)
	}
	out := make([]report.Column[models.Row], 0, len(cols)+len(add))
	out = append(out, cols[:at]...)
	out = append(out, add...)
	return append(out, cols[at:]...)
}

type taggedAccount struct {
	Account string
	Tagging string
}

// tagRoundRobin orders the accounts by OB ascending, keeping input order on ties, and
// deals the taggings out in turn.
func tagRoundRobin(t *models.Table, taggings []string) []taggedAccount {
	rows := append([]models.Row(nil), t.Rows...)
	ob := func(r models.Row) decimal.Decimal { return models.ZeroIfAbsent(cellAmount(r.Get(endoOB))) }
	sort.SliceStable(rows, func(i, j int) bool { return ob(rows[i]).LessThan(ob(rows[j])) })

	out := make([]taggedAccount, 0, len(rows))
	for i, r := range rows {
		a := taggedAccount{Account: r.Text(endoAccount)}
		if len(taggings) > 0 {
			a.Tagging = taggings[i%len(taggings)]
		}
		out = append(out, a)
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
