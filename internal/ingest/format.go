package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode/utf16"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"spmadrid/collections-reports/internal/reporterror"
)

// Format is the detected container of an input.
type Format string

const (
	FormatXLSX      Format = "xlsx"
	FormatXLS       Format = "xls"
	FormatCSV       Format = "csv"
	FormatEncrypted Format = "encrypted"
)

var (
	zipMagic = []byte("PK\x03\x04")
	cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	// Encrypted OOXML packages are CFB containers holding an "EncryptedPackage" stream.
	encryptedMarker = utf16le("EncryptedPackage")
)

// Detect sniffs the container format of data.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(data, cfbMagic):
		if bytes.Contains(data, encryptedMarker) {
			return FormatEncrypted
		}
		return FormatXLS
	default:
		return FormatCSV
	}
}

func utf16le(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

// decoder reads one sheet of a container into a raw string grid.
type decoder interface {
	decode(data []byte, opts Options) (sheet string, grid [][]string, err error)
}

type xlsxDecoder struct{}

func (xlsxDecoder) decode(data []byte, opts Options) (string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{Password: opts.Password})
	if err != nil {
		return "", nil, &reporterror.UnreadableFormatError{Format: string(FormatXLSX), Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	sheet, err := pickSheet(opts.Sheet, sheets)
	if err != nil {
		return "", nil, err
	}
	// Raw values keep dates as serials so that dateutils.ParseCell sees one shape.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", nil, &reporterror.UnreadableFormatError{Format: string(FormatXLSX), Err: err}
	}
	return sheet, rows, nil
}

func xlsxSheets(data []byte, password string) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{Password: password})
	if err != nil {
		return nil, &reporterror.UnreadableFormatError{Format: string(FormatXLSX), Err: err}
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

type xlsDecoder struct{}

func (xlsDecoder) decode(data []byte, opts Options) (string, [][]string, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return "", nil, &reporterror.UnreadableFormatError{Format: string(FormatXLS), Err: err}
	}

	names := make([]string, 0, book.NumSheets())
	for i := 0; i < book.NumSheets(); i++ {
		if s := book.GetSheet(i); s != nil {
			names = append(names, s.Name)
		}
	}
	name, err := pickSheet(opts.Sheet, names)
	if err != nil {
		return "", nil, err
	}

	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		if sheet == nil || sheet.Name != name {
			continue
		}
		grid := make([][]string, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				grid = append(grid, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := range cells {
				cells[c] = row.Col(c)
			}
			grid = append(grid, cells)
		}
		return name, grid, nil
	}
	return "", nil, &reporterror.SheetNotFoundError{Sheet: name, Available: names}
}

func xlsSheets(data []byte) ([]string, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, &reporterror.UnreadableFormatError{Format: string(FormatXLS), Err: err}
	}
	names := make([]string, 0, book.NumSheets())
	for i := 0; i < book.NumSheets(); i++ {
		if s := book.GetSheet(i); s != nil {
			names = append(names, s.Name)
		}
	}
	return names, nil
}

type csvDecoder struct{}

func (csvDecoder) decode(data []byte, _ Options) (string, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return "", nil, &reporterror.UnreadableFormatError{Format: string(FormatCSV), Err: err}
	}
	if len(rows) == 0 {
		return "", nil, &reporterror.UnreadableFormatError{Format: string(FormatCSV), Err: fmt.Errorf("empty input")}
	}
	return "Sheet1", rows, nil
}

func pickSheet(want string, available []string) (string, error) {
	if len(available) == 0 {
		return "", &reporterror.UnreadableFormatError{Err: fmt.Errorf("workbook has no sheets")}
	}
	if want == "" {
		return available[0], nil
	}
	for _, s := range available {
		if s == want {
			return s, nil
		}
	}
	return "", &reporterror.SheetNotFoundError{Sheet: want, Available: available}
}
