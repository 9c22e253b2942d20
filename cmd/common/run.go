// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"spmadrid/collections-reports/internal/campaign"
	"spmadrid/collections-reports/internal/fileutils"
	"spmadrid/collections-reports/internal/ingest"
	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
	"spmadrid/collections-reports/internal/report"
)

// TableReader reads an input sheet.
type TableReader interface {
	ReadFile(path string, opts ingest.Options) (*models.Table, error)
}

// SnapshotLoader takes the reference snapshot of a run.
type SnapshotLoader interface {
	Load(ctx context.Context, need reference.Need, accountIDs []string) (*reference.Snapshot, error)
}

// WorkbookWriter writes the produced workbooks.
type WorkbookWriter interface {
	WriteAll(dir string, workbooks []*report.Workbook) ([]string, error)
}

// Deps are the collaborators of a run.
type Deps struct {
	Reader TableReader
	Loader SnapshotLoader
	Writer WorkbookWriter
	Logger logging.Logger
	// Warnings receives the colored warning lines; nil discards them.
	Warnings io.Writer
}

// RunInput locates the input and carries the per-run parameters.
type RunInput struct {
	Input     string
	Sheet     string
	Password  string
	OutputDir string
	// Template is the workbook a template-filling campaign reads and writes into.
	Template      string
	TemplateSheet string
	Params        campaign.Params
}

// templated is implemented by campaigns that read an existing workbook as well as the input.
type templated interface {
	TemplateIngest(sheet string) ingest.Options
}

// RunCampaign reads the input, loads the reference data the campaign needs, runs it and
// writes every workbook to the output directory. It returns the written paths.
func RunCampaign(ctx context.Context, d Deps, c campaign.Campaign, in RunInput) (*campaign.Result, []string, error) {
	if strings.TrimSpace(in.Input) == "" {
		return nil, nil, fmt.Errorf("input file is required")
	}
	p := in.Params
	if p.RunID == "" {
		p.RunID = uuid.New().String()
	}
	if p.ReportDate.IsZero() {
		p.ReportDate = time.Now()
	}
	if p.InputName == "" {
		p.InputName = fileutils.BaseName(in.Input)
	}
	logger := d.Logger.WithFields(
		logging.F(logging.FieldRunID, p.RunID),
		logging.F(logging.FieldCampaign, c.Name()))
	start := time.Now()

	opts := c.Ingest()
	if in.Sheet != "" {
		opts.Sheet = in.Sheet
	}
	opts.Password = in.Password
	table, err := d.Reader.ReadFile(in.Input, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", in.Input, err)
	}
	logger.Info("Input read",
		logging.F(logging.FieldFile, in.Input),
		logging.F(logging.FieldSheet, table.Sheet),
		logging.F(logging.FieldCount, table.Len()))

	if t, ok := c.(templated); ok && in.Template != "" {
		tpl, err := d.Reader.ReadFile(in.Template, t.TemplateIngest(in.TemplateSheet))
		if err != nil {
			return nil, nil, fmt.Errorf("reading template %s: %w", in.Template, err)
		}
		p.Template = tpl
		// The writer resolves relative template names against its template directory.
		if p.TemplatePath, err = filepath.Abs(in.Template); err != nil {
			return nil, nil, err
		}
	}

	snap, err := d.Loader.Load(ctx, c.Needs(), c.AccountKeys(table))
	if err != nil {
		return nil, nil, err
	}

	res, err := c.Run(ctx, table, snap, p)
	if err != nil {
		return nil, nil, err
	}
	reportWarnings(d.Warnings, res.Warnings)

	paths, err := d.Writer.WriteAll(in.OutputDir, res.Workbooks)
	if err != nil {
		return res, nil, err
	}

	logger.Info("Run completed",
		logging.F(logging.FieldCount, res.Stats.Rows),
		logging.F(logging.FieldExcluded, res.Stats.Excluded),
		logging.F(logging.FieldWarnings, len(res.Warnings)),
		logging.F("outputs", len(paths)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	for rule, n := range res.Stats.ExcludedBy {
		logger.Debug("Rows excluded", logging.F(logging.FieldReason, rule), logging.F(logging.FieldCount, n))
	}
	return res, paths, nil
}

var warnColor = color.New(color.FgYellow, color.Bold)

func reportWarnings(w io.Writer, warnings []models.Warning) {
	if w == nil {
		return
	}
	for _, wn := range warnings {
		where := ""
		if wn.Account != "" {
			where = " account " + wn.Account
		}
		if wn.Line > 0 {
			where += fmt.Sprintf(" (line %d)", wn.Line)
		}
		_, _ = warnColor.Fprintf(w, "  ⚠ %s%s: %s\n", wn.Code, where, wn.Message)
	}
}
