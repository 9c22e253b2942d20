package classifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
)

// ReasonKey picks the label a status is looked up under in ReasonDefaults.
type ReasonKey func(models.CanonicalStatus) string

// ByBankStatus keys reason defaults by the mapped bank status.
func ByBankStatus(st models.CanonicalStatus) string { return st.BankStatus }

// ByCategory keys reason defaults by the status category tag.
func ByCategory(st models.CanonicalStatus) string { return st.Kind.String() }

// Options configures a Classifier. Zero values disable the matching step.
type Options struct {
	Exclusions []ExclusionRule
	// Router assigns buckets; nil leaves Buckets empty.
	Router *BucketRouter
	// ReasonDefaults fills Reason when extraction finds no valid code.
	ReasonDefaults ReasonDefaults
	ReasonKey      ReasonKey
	// WarnUnmapped emits a warning for statuses missing from the bank-status map.
	WarnUnmapped bool
}

// Classified is one record with every derived field resolved.
type Classified struct {
	Record          models.Record
	Status          models.CanonicalStatus
	Buckets         []string
	Reason          string
	ReasonDefaulted bool
	PTPAmount       decimal.NullDecimal
	PTPDate         time.Time
	HandlingOfficer string
}

// Result is the outcome of one classification pass.
type Result struct {
	Rows       []Classified
	Excluded   int
	ExcludedBy map[string]int
	Warnings   []models.Warning
}

// Classifier applies exclusions, status mapping, bucket routing, reason extraction
// and the PTP fallback to records against one reference snapshot.
type Classifier struct {
	snap   *reference.Snapshot
	opts   Options
	logger logging.Logger
}

// New creates a Classifier. A nil snapshot behaves as an empty one.
func New(snap *reference.Snapshot, opts Options, logger logging.Logger) *Classifier {
	if snap == nil {
		snap = reference.Empty()
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.ReasonKey == nil {
		opts.ReasonKey = ByBankStatus
	}
	return &Classifier{snap: snap, opts: opts, logger: logger}
}

// Classify runs every record through the classifier in input order.
// Row-level misses resolve to absent fields and never stop the pass.
func (c *Classifier) Classify(records []models.Record) Result {
	res := Result{ExcludedBy: make(map[string]int)}
	for _, rec := range records {
		row, rule, ok := c.One(rec)
		if !ok {
			res.Excluded++
			res.ExcludedBy[rule]++
			continue
		}
		res.Warnings = append(res.Warnings, c.warnings(row)...)
		res.Rows = append(res.Rows, row)
	}

	c.logger.Debug("Classified records",
		logging.F(logging.FieldCount, len(res.Rows)),
		logging.F(logging.FieldExcluded, res.Excluded),
		logging.F(logging.FieldWarnings, len(res.Warnings)))
	return res
}

// One classifies a single record. When an exclusion matches it returns the rule name and false.
func (c *Classifier) One(rec models.Record) (Classified, string, bool) {
	st := MapStatus(ParseStatus(rec.StatusRaw), c.snap)
	if rule, excluded := FirstExclusion(c.opts.Exclusions, rec, st); excluded {
		return Classified{}, rule, false
	}

	out := Classified{
		Record:    rec,
		Status:    st,
		PTPAmount: EffectiveAmount(rec.PTPAmount, rec.ClaimPaidAmount),
		PTPDate:   EffectiveDate(rec.PTPDate, rec.ClaimPaidDate),
	}
	if c.opts.Router != nil {
		out.Buckets = c.opts.Router.Route(rec)
	}
	if name, ok := c.snap.ResolveAgent(rec.RemarkBy); ok {
		out.HandlingOfficer = strings.ToUpper(name)
	}

	if code, ok := ExtractReasonCode(rec.Remark, c.snap.IsValidReasonCode); ok {
		out.Reason = code
	} else if code, ok := c.opts.ReasonDefaults.For(c.opts.ReasonKey(st)); ok {
		out.Reason, out.ReasonDefaulted = code, true
	}
	return out, "", true
}

func (c *Classifier) warnings(row Classified) []models.Warning {
	var out []models.Warning
	if c.opts.WarnUnmapped && !row.Status.Mapped && row.Status.Raw != "" {
		out = append(out, models.Warning{
			Line:    row.Record.Row.Line,
			Account: row.Record.AccountID,
			Code:    models.WarnUnmappedStatus,
			Message: fmt.Sprintf("status %q has no bank status", row.Status.Raw),
		})
	}
	if c.opts.Router != nil && len(row.Buckets) == 0 {
		out = append(out, models.Warning{
			Line:    row.Record.Row.Line,
			Account: row.Record.AccountID,
			Code:    models.WarnStatusWithoutBucket,
			Message: fmt.Sprintf("agent %q card %q matches no bucket", row.Record.RemarkBy, row.Record.Card),
		})
	}
	return out
}
