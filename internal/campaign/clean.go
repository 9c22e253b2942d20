package campaign

import (
	"context"
	"regexp"
	"strings"

	"spmadrid/collections-reports/internal/export"
	"spmadrid/collections-reports/internal/ingest"
	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
	"spmadrid/collections-reports/internal/report"
)

var unsafeHeader = regexp.MustCompile(`[^A-Za-z0-9_]`)

// CleanOptions select the clean-up steps. Cell text is always trimmed on ingest.
type CleanOptions struct {
	DropBlankRows  bool
	DropDuplicates bool
	// SanitizeHeaders replaces every header rune outside [A-Za-z0-9_] with '_'.
	SanitizeHeaders bool
}

// Clean re-exports any sheet after the generic clean-up steps.
type Clean struct {
	opts   CleanOptions
	logger logging.Logger
}

// NewClean creates the campaign.
func NewClean(opts CleanOptions, logger logging.Logger) *Clean {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Clean{opts: opts, logger: logger}
}

func (c *Clean) Name() string { return "clean" }

func (c *Clean) Ingest() ingest.Options {
	return ingest.Options{DropBlankRows: c.opts.DropBlankRows, DropDuplicates: c.opts.DropDuplicates}
}

func (c *Clean) Needs() reference.Need { return 0 }

func (c *Clean) AccountKeys(*models.Table) []string { return nil }

func (c *Clean) Run(_ context.Context, in *models.Table, _ *reference.Snapshot, p Params) (*Result, error) {
	res := newResult(in.Len())

	cols := make([]report.Column[models.Row], 0, len(in.Columns()))
	for i, name := range in.Columns() {
		header := name
		if c.opts.SanitizeHeaders {
			header = SanitizeHeader(name)
		}
		idx := i
		cols = append(cols, report.Column[models.Row]{Name: header, Value: func(r models.Row) models.Value { return r.At(idx) }})
	}

	label := strings.TrimSpace(strings.ToUpper(p.InputName))
	if label == "" {
		label = "DATA"
	}
	res.add(report.NewGenerator[models.Row](c.logger).Assemble(export.FileName(label+" CLEANED", p.ReportDate), in.Rows,
		report.SheetSpec[models.Row]{Name: "Sheet1", Columns: cols}))
	return res, nil
}

// SanitizeHeader makes a header safe for downstream tools that only accept identifiers.
func SanitizeHeader(h string) string { return unsafeHeader.ReplaceAllString(h, "_") }
