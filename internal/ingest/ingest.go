// Package ingest turns spreadsheet bytes into a normalized models.Table.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"spmadrid/collections-reports/internal/dateutils"
	"spmadrid/collections-reports/internal/fileutils"
	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reporterror"
)

// ColumnType selects how the cells of a column are normalized.
type ColumnType int

const (
	// TypeAuto keeps text, or a number when InferNumbers is set and the cell is a plain number.
	TypeAuto ColumnType = iota
	TypeText
	TypeNumber
	TypeDate
	TypeTime
)

// Schema maps column names to their types. Unlisted columns are TypeAuto.
type Schema map[string]ColumnType

// Options drive one ingest.
type Options struct {
	// Sheet selects the worksheet; empty means the first one. Ignored for CSV.
	Sheet string
	// HeaderRow is the 1-based row holding the column names; 0 means 1.
	HeaderRow int
	// Required lists the columns that must be present.
	Required []string
	// MinColumns rejects inputs narrower than this.
	MinColumns int
	Types      Schema
	// InferNumbers turns plain numeric text in TypeAuto columns into numbers.
	InferNumbers   bool
	DropBlankRows  bool
	DropDuplicates bool
	// Password opens an encrypted workbook. Without it encrypted input fails with EncryptedError.
	Password string
}

// Reader reads spreadsheets into tables.
type Reader struct {
	logger   logging.Logger
	decoders map[Format]decoder
}

// NewReader creates a Reader. A nil logger falls back to a logrus adapter at info level.
func NewReader(logger logging.Logger) *Reader {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Reader{
		logger: logger,
		decoders: map[Format]decoder{
			FormatXLSX: xlsxDecoder{},
			FormatXLS:  xlsDecoder{},
			FormatCSV:  csvDecoder{},
		},
	}
}

// ReadFile reads the file at path.
func (r *Reader) ReadFile(path string, opts Options) (*models.Table, error) {
	data, err := fileutils.ReadFile(path)
	if err != nil {
		return nil, &reporterror.UnreadableFormatError{Source: path, Err: err}
	}
	return r.Read(filepath.Base(path), data, opts)
}

// Read decodes data and returns the normalized table. source names the input in errors.
func (r *Reader) Read(source string, data []byte, opts Options) (*models.Table, error) {
	format := Detect(data)
	if format == FormatEncrypted {
		if opts.Password == "" {
			return nil, &reporterror.EncryptedError{Source: source}
		}
		format = FormatXLSX
	}

	sheet, grid, err := r.decoders[format].decode(data, opts)
	if err != nil {
		return nil, withSource(err, source, format)
	}
	r.logger.Debug("Decoded input",
		logging.F(logging.FieldFile, source),
		logging.F(logging.FieldSheet, sheet),
		logging.F("format", string(format)),
		logging.F(logging.FieldCount, len(grid)))

	table, err := build(sheet, grid, opts)
	if err != nil {
		return nil, withSource(err, source, format)
	}
	r.logger.Debug("Normalized input",
		logging.F(logging.FieldSheet, sheet),
		logging.F(logging.FieldCount, table.Len()))
	return table, nil
}

// Sheets lists the worksheet names of a workbook. CSV input has none.
func (r *Reader) Sheets(data []byte, password string) ([]string, error) {
	switch Detect(data) {
	case FormatXLSX, FormatEncrypted:
		return xlsxSheets(data, password)
	case FormatXLS:
		return xlsSheets(data)
	default:
		return nil, nil
	}
}

func withSource(err error, source string, format Format) error {
	var u *reporterror.UnreadableFormatError
	if errors.As(err, &u) {
		if u.Source == "" {
			u.Source = source
		}
		if u.Format == "" {
			u.Format = string(format)
		}
		return u
	}
	return err
}

func build(sheet string, grid [][]string, opts Options) (*models.Table, error) {
	headerRow := opts.HeaderRow
	if headerRow <= 0 {
		headerRow = 1
	}
	if len(grid) < headerRow {
		return nil, &reporterror.UnreadableFormatError{Err: fmt.Errorf("no header row %d in sheet '%s'", headerRow, sheet)}
	}

	width := 0
	for _, cells := range grid[headerRow-1:] {
		width = max(width, len(cells))
	}
	if opts.MinColumns > 0 && width < opts.MinColumns {
		return nil, &reporterror.UnreadableFormatError{
			Err: fmt.Errorf("expected at least %d columns, found %d", opts.MinColumns, width),
		}
	}

	names := make([]string, width)
	for i := range names {
		if i < len(grid[headerRow-1]) {
			names[i] = strings.TrimSpace(grid[headerRow-1][i])
		}
		if names[i] == "" {
			names[i] = fmt.Sprintf("COLUMN %d", i+1)
		}
	}
	header := models.NewHeader(names)

	if missing := missingColumns(header, opts.Required); len(missing) > 0 {
		return nil, &reporterror.MissingColumnsError{Sheet: sheet, Columns: missing}
	}

	types := make([]ColumnType, width)
	for name, t := range opts.Types {
		if i, ok := header.Index(name); ok {
			types[i] = t
		}
	}

	seen := make(map[string]struct{})
	rows := make([]models.Row, 0, len(grid)-headerRow)
	for i, raw := range grid[headerRow:] {
		cells := make([]models.Value, width)
		for c := range cells {
			if c < len(raw) {
				cells[c] = normalize(raw[c], types[c], opts.InferNumbers)
			}
		}
		row := models.NewRow(header, headerRow+1+i, cells)
		if opts.DropBlankRows && row.IsBlank() {
			continue
		}
		if opts.DropDuplicates {
			key := rowKey(cells)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		rows = append(rows, row)
	}
	return models.NewTableFromRows(sheet, header, rows), nil
}

func missingColumns(h *models.Header, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := h.Index(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func normalize(raw string, t ColumnType, infer bool) models.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return models.Absent()
	}
	switch t {
	case TypeText:
		return models.Text(s)
	case TypeNumber:
		if d, ok := models.ParseAmount(s); ok {
			return models.Number(d)
		}
		return models.Absent()
	case TypeDate:
		if d, ok := dateutils.ParseCell(s); ok {
			return models.Date(d)
		}
		return models.Absent()
	case TypeTime:
		if c, ok := dateutils.ParseClock(s); ok {
			return models.Date(c)
		}
		return models.Absent()
	}
	if infer && plainNumber(s) {
		if d, ok := models.ParseAmount(s); ok {
			return models.Number(d)
		}
	}
	return models.Text(s)
}

// plainNumber accepts digits with an optional sign and fraction, rejecting leading zeros
// so that identifiers such as "00123" stay text.
func plainNumber(s string) bool {
	body := strings.TrimPrefix(s, "-")
	intPart, frac, hasFrac := strings.Cut(body, ".")
	if intPart == "" || (hasFrac && frac == "") {
		return false
	}
	if len(intPart) > 1 && intPart[0] == '0' {
		return false
	}
	for _, part := range []string{intPart, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func rowKey(cells []models.Value) string {
	var b strings.Builder
	for _, c := range cells {
		fmt.Fprintf(&b, "%d:%s\x1f", c.Kind(), c.String())
	}
	return b.String()
}
