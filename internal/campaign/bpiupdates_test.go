package campaign

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
	"spmadrid/collections-reports/internal/reporterror"
)

func bpiTable() *models.Table {
	return models.NewTable("Sheet1", BPIUpdatesColumns, [][]models.Value{
		{
			txt("LAN001"), txt("JUAN DELA CRUZ"), txt("CTL"), num("100.456"), models.Absent(), num("5000"),
			num("12.3"), num("0"), txt("UNIT A"), txt("35"), txt("juan@example.com"),
			txt("+63 917 123 4567"), txt("9181112222"), day(4),
		},
	})
}

func TestBPIUpdatesRun(t *testing.T) {
	b := NewBPIUpdates(logging.NewMockLogger())
	res, err := b.Run(context.Background(), bpiTable(), reference.Empty(), Params{ReportDate: reportDay, Mode: ModeUpdates})
	require.NoError(t, err)
	require.Len(t, res.Workbooks, 1)
	assert.Equal(t, "BPI AUTO CURING FOR UPDATES 03052024.xlsx", res.Workbooks[0].FileName)

	sheet := res.Workbooks[0].Sheet("Sheet1")
	require.NotNil(t, sheet)
	assert.Equal(t, []string{
		"LAN", "CH CODE", "NAME", "CTL4", "PAST DUE", "PAYOFF AMOUNT", "PRINCIPAL", "LPC", "ADA SHORTAGE",
		"EMAIL_ALS", "MOBILE_NO_ALS", "MOBILE_ALFES", "LANDLINE_NO_ALFES", "DATE REFERRED", "UNIT", "DPD",
	}, sheet.Columns)

	row := func(name string) string { return column(t, sheet, name)[0] }
	assert.Equal(t, "LAN001", row("CH CODE"))
	assert.Equal(t, "100.46", row("PAST DUE"))
	assert.Equal(t, "0", row("PAYOFF AMOUNT"), "absent amounts become zero")
	assert.Equal(t, "12.3", row("LPC"))
	assert.Equal(t, "juan@example.com", row("EMAIL_ALS"))
	assert.Equal(t, "09171234567", row("MOBILE_NO_ALS"))
	assert.Equal(t, "09181112222", row("MOBILE_ALFES"))
	assert.Equal(t, "", row("LANDLINE_NO_ALFES"))
	assert.Equal(t, "03/04/2024", row("DATE REFERRED"))
}

func TestBPIUpdatesModes(t *testing.T) {
	tests := []struct {
		mode    string
		want    string
		wantErr bool
	}{
		{mode: "", want: "BPI AUTO CURING FOR UPDATES 03052024.xlsx"},
		{mode: ModeUploads, want: "BPI AUTO CURING FOR UPLOADS 03052024.xlsx"},
		{mode: "archive", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			res, err := NewBPIUpdates(nil).Run(context.Background(), bpiTable(), nil, Params{ReportDate: reportDay, Mode: tt.mode})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, reporterror.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, fileNames(res))
		})
	}
}
