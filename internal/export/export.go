// Package export serializes report workbooks to xlsx with excelize.
package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"spmadrid/collections-reports/internal/dateutils"
	"spmadrid/collections-reports/internal/fileutils"
	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/report"
	"spmadrid/collections-reports/internal/reporterror"
)

const defaultSheet = "Sheet1"

// FileName builds "<LABEL> <MMDDYYYY>.xlsx".
func FileName(label string, day time.Time) string {
	return fmt.Sprintf("%s %s.xlsx", label, dateutils.ToFileDate(day))
}

// Writer renders workbooks. When a template with the workbook's Template name exists in
// TemplateDir, or Template is an absolute path to an existing file, rows are appended
// after the last used row of each template sheet and summary cells are written into it.
// Otherwise a fresh workbook is produced.
type Writer struct {
	templateDir string
	logger      logging.Logger
}

// NewWriter creates a Writer. An empty templateDir disables templates.
func NewWriter(templateDir string, logger logging.Logger) *Writer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Writer{templateDir: templateDir, logger: logger}
}

// Export renders every workbook, keyed by file name. Any failure aborts the whole export.
func (w *Writer) Export(workbooks []*report.Workbook) (map[string][]byte, error) {
	out := make(map[string][]byte, len(workbooks))
	for _, wb := range workbooks {
		data, err := w.Bytes(wb)
		if err != nil {
			return nil, err
		}
		out[wb.FileName] = data
	}
	return out, nil
}

// WriteAll exports every workbook into dir and returns the written paths in workbook order.
func (w *Writer) WriteAll(dir string, workbooks []*report.Workbook) ([]string, error) {
	rendered, err := w.Export(workbooks)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(workbooks))
	for _, wb := range workbooks {
		path := filepath.Join(dir, fileutils.SafeName(wb.FileName))
		if err := fileutils.WriteFile(path, rendered[wb.FileName], 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", wb.FileName, err)
		}
		w.logger.Info("Wrote report", logging.F(logging.FieldOutputFile, path))
		paths = append(paths, path)
	}
	return paths, nil
}

// Bytes renders one workbook.
func (w *Writer) Bytes(wb *report.Workbook) ([]byte, error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, &reporterror.ValidationError{Field: "workbook", Reason: "no sheets to export"}
	}

	f, templated, err := w.open(wb)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			w.logger.WithError(cerr).Warn("Failed to close workbook")
		}
	}()

	for i, sheet := range wb.Sheets {
		if err := w.writeSheet(f, sheet, i == 0, templated); err != nil {
			return nil, fmt.Errorf("%s: sheet %s: %w", wb.FileName, sheet.Name, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", wb.FileName, err)
	}
	w.logger.Debug("Rendered workbook",
		logging.F(logging.FieldOutputFile, wb.FileName),
		logging.F(logging.FieldCount, len(wb.Sheets)))
	return buf.Bytes(), nil
}

func (w *Writer) open(wb *report.Workbook) (*excelize.File, bool, error) {
	if wb.Template != "" && (w.templateDir != "" || filepath.IsAbs(wb.Template)) {
		path := wb.Template
		if !filepath.IsAbs(path) {
			path = filepath.Join(w.templateDir, wb.Template)
		}
		if fileutils.FileExists(path) {
			f, err := excelize.OpenFile(path)
			if err != nil {
				return nil, false, &reporterror.UnreadableFormatError{Source: path, Format: "xlsx", Err: err}
			}
			w.logger.Debug("Using template", logging.F(logging.FieldFile, path))
			return f, true, nil
		}
		w.logger.Debug("Template not found, writing a fresh workbook", logging.F(logging.FieldFile, path))
	}
	return excelize.NewFile(), false, nil
}

// writeSheet places sheet into f. The first sheet of a templated workbook falls back to
// the template's active sheet when no sheet carries its name.
func (w *Writer) writeSheet(f *excelize.File, sheet *report.Sheet, first, templated bool) error {
	name := sheet.Name
	start := 1
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return err
	}
	if idx < 0 && first && templated {
		name = f.GetSheetName(f.GetActiveSheetIndex())
		idx = f.GetActiveSheetIndex()
	}
	switch {
	case idx >= 0:
		rows, err := f.GetRows(name)
		if err != nil {
			return err
		}
		start = len(rows) + 1
	case first:
		if err := f.SetSheetName(defaultSheet, name); err != nil {
			return err
		}
	default:
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	// Fresh sheets get the header; template sheets already carry theirs.
	if start == 1 && len(sheet.Columns) > 0 {
		header := make([]interface{}, len(sheet.Columns))
		for i, c := range sheet.Columns {
			header[i] = c
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return err
		}
		start = 2
	}

	for i, row := range sheet.Rows {
		for j, v := range row {
			if err := setValue(f, name, report.Ref(j+1, start+i), v); err != nil {
				return err
			}
		}
	}
	for _, c := range sheet.Cells {
		if err := setValue(f, name, c.Ref, c.Value); err != nil {
			return err
		}
	}
	return nil
}

// setValue writes numbers as numeric cells and dates as MM/DD/YYYY text. Absent values are skipped.
func setValue(f *excelize.File, sheet, ref string, v models.Value) error {
	switch v.Kind() {
	case models.KindAbsent:
		return nil
	case models.KindNumber:
		d, _ := v.Decimal()
		if d.IsInteger() {
			return f.SetCellValue(sheet, ref, d.IntPart())
		}
		return f.SetCellValue(sheet, ref, d.InexactFloat64())
	default:
		return f.SetCellStr(sheet, ref, v.String())
	}
}
