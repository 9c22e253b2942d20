package ingest

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reporterror"
)

func workbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	encrypted := append(append([]byte{}, cfbMagic...), utf16le("EncryptedPackage")...)
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{name: "zip container", data: []byte("PK\x03\x04rest"), want: FormatXLSX},
		{name: "legacy compound file", data: append(append([]byte{}, cfbMagic...), 0, 0), want: FormatXLS},
		{name: "encrypted package", data: encrypted, want: FormatEncrypted},
		{name: "text", data: []byte("a,b\n1,2\n"), want: FormatCSV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.data))
		})
	}
}

func TestReadXLSX(t *testing.T) {
	data := workbook(t, "CMS", [][]interface{}{
		{"Account No.", "Status", "Balance", "Date", "Time", "Remark"},
		{"00123", " PTP - NEW ", "1,500.50", "03/04/2024", "14:05:00", "  "},
		{"456", "PAYMENT", "n/a", "garbage", "", "paid"},
	})

	r := NewReader(logging.NewMockLogger())
	tbl, err := r.Read("cms.xlsx", data, Options{
		Sheet:    "CMS",
		Required: []string{"Account No.", "Status"},
		Types:    Schema{"Balance": TypeNumber, "Date": TypeDate, "Time": TypeTime},
	})
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "CMS", tbl.Sheet)

	first := tbl.Rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "00123", first.Text("Account No."))
	assert.Equal(t, "PTP - NEW", first.Text("Status"), "strings are trimmed")
	assert.True(t, first.Get("Remark").IsAbsent(), "blank after trim is absent")
	bal, ok := first.Get("Balance").Decimal()
	require.True(t, ok)
	assert.Equal(t, "1500.5", bal.String())
	day, ok := first.Get("Date").Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), day)
	clock, ok := first.Get("Time").Time()
	require.True(t, ok)
	assert.Equal(t, "14:05:00", clock.Format("15:04:05"))

	second := tbl.Rows[1]
	assert.True(t, second.Get("Balance").IsAbsent(), "invalid number becomes absent")
	assert.True(t, second.Get("Date").IsAbsent(), "invalid date becomes absent")
}

func TestReadMissingColumns(t *testing.T) {
	data := workbook(t, "Sheet1", [][]interface{}{{"Account No."}, {"1"}})
	_, err := NewReader(nil).Read("in.xlsx", data, Options{Required: []string{"Account No.", "Status", "Remark By"}})

	var missing *reporterror.MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Status", "Remark By"}, missing.Columns)
	assert.True(t, errors.Is(err, reporterror.ErrMissingColumns))
}

func TestReadSheetNotFound(t *testing.T) {
	data := workbook(t, "Sheet1", [][]interface{}{{"A"}})
	_, err := NewReader(nil).Read("in.xlsx", data, Options{Sheet: "Nope"})
	assert.ErrorIs(t, err, reporterror.ErrSheetNotFound)
}

func TestReadEncrypted(t *testing.T) {
	data := append(append([]byte{}, cfbMagic...), utf16le("EncryptedPackage")...)
	_, err := NewReader(nil).Read("locked.xlsx", data, Options{})
	var enc *reporterror.EncryptedError
	require.ErrorAs(t, err, &enc)
	assert.Equal(t, "locked.xlsx", enc.Source)
}

func TestReadCorruptWorkbook(t *testing.T) {
	_, err := NewReader(nil).Read("bad.xlsx", []byte("PK\x03\x04garbage"), Options{})
	var u *reporterror.UnreadableFormatError
	require.ErrorAs(t, err, &u)
	assert.Equal(t, "bad.xlsx", u.Source)
	assert.Equal(t, "xlsx", u.Format)
}

func TestReadCSVCleaning(t *testing.T) {
	csv := "\xEF\xBB\xBFLAN,NAME,AMOUNT\n001,Ana,100\n,,\n001,Ana,100\n002,Ben,7.5\n"
	tbl, err := NewReader(nil).Read("in.csv", []byte(csv), Options{
		DropBlankRows:  true,
		DropDuplicates: true,
		InferNumbers:   true,
	})
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"LAN", "NAME", "AMOUNT"}, tbl.Columns())
	assert.Equal(t, models.KindText, tbl.Rows[0].Get("LAN").Kind(), "leading zeros stay text")
	assert.Equal(t, models.KindNumber, tbl.Rows[1].Get("AMOUNT").Kind())
	assert.Equal(t, 5, tbl.Rows[1].Line)
}

func TestReadMinColumnsAndHeaderRow(t *testing.T) {
	data := workbook(t, "Sheet1", [][]interface{}{
		{"SP MADRID DAILY REPORT"},
		{"ACCOUNT NUMBER", "", "REMARKS"},
		{"111", "x", ""},
	})

	_, err := NewReader(nil).Read("in.xlsx", data, Options{HeaderRow: 2, MinColumns: 43})
	assert.ErrorIs(t, err, reporterror.ErrUnreadableFormat)

	tbl, err := NewReader(nil).Read("in.xlsx", data, Options{HeaderRow: 2, Required: []string{"REMARKS"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ACCOUNT NUMBER", "COLUMN 2", "REMARKS"}, tbl.Columns())
	assert.Equal(t, 3, tbl.Rows[0].Line)
}

func TestSheets(t *testing.T) {
	data := workbook(t, "Remarks", [][]interface{}{{"A"}})
	names, err := NewReader(nil).Sheets(data, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Remarks"}, names)

	names, err = NewReader(nil).Sheets(bytes.Repeat([]byte("a"), 3), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestPlainNumber(t *testing.T) {
	for in, want := range map[string]bool{
		"0": true, "12": true, "-3.25": true, "0.5": true,
		"007": false, "1.": false, "1e5": false, "12a": false, "-": false,
	} {
		assert.Equal(t, want, plainNumber(in), in)
	}
}
