package campaign

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
)

type agencyLine struct {
	account, card, remark, agent, status string
	ptp, balance                         string
	ptpDay                               int
}

func agencyTable(lines ...agencyLine) *models.Table {
	rows := make([][]models.Value, 0, len(lines))
	for _, l := range lines {
		ptp, ptpDate := models.Absent(), models.Absent()
		if l.ptp != "" {
			ptp = num(l.ptp)
		}
		if l.ptpDay > 0 {
			ptpDate = day(l.ptpDay)
		}
		rows = append(rows, []models.Value{
			day(5), txt("DEBTOR " + l.account), txt(l.account), txt(l.card), txt(l.remark), txt(l.agent),
			ptp, ptpDate, models.Absent(), models.Absent(), num(l.balance), txt(l.status),
		})
	}
	return models.NewTable("Sheet1", AgencyColumns, rows)
}

func agencySnapshot() *reference.Snapshot {
	return reference.NewSnapshot(reference.Data{
		Agents: []reference.Agent{
			{ID: "AGENT1", FullName: "Ana Reyes", Bucket: "Bucket 1"},
			{ID: "AGENT5", FullName: "Ben Cruz", Bucket: "Bucket 5&6"},
			{ID: "SYSTEM", FullName: "System", Bucket: "Bucket 5&6"},
		},
		Statuses: []reference.StatusMapping{
			{RawStatus: "PTP - NEW", BankStatus: "PTP"},
			{RawStatus: "UNCON", BankStatus: "UNCON"},
			{RawStatus: "CALL NO PTP - BUSY", BankStatus: "CALL NO PTP"},
			{RawStatus: "DNC - REQUEST", BankStatus: "EXCLUDE"},
		},
		ReasonCodes: []string{"BUSY", "NABZ", "NISV", "DISP"},
	})
}

func TestAgencyRun(t *testing.T) {
	in := agencyTable(
		agencyLine{account: "5001", card: "0512", agent: "AGENT5", status: "PTP - NEW", ptp: "100", ptpDay: 10, balance: "1000", remark: "will pay RFD: DISP"},
		agencyLine{account: "5002", card: "0513", agent: "SYSTEM", status: "UNCON", balance: "500", remark: "auto"},
		agencyLine{account: "6001", card: "0601", agent: "AGENT5", status: "CALL NO PTP - BUSY", ptp: "50", balance: "300"},
		agencyLine{account: "6002", card: "0602", agent: "AGENT5", status: "DNC - REQUEST", balance: "10"},
		agencyLine{account: "5001.0", card: "0514", agent: "AGENT5", status: "PTP - NEW", ptp: "200", ptpDay: 11, balance: "1000", remark: "again RFD: DISP"},
		agencyLine{account: "1001", card: "0100", agent: "AGENT1", status: "PTP - NEW", ptp: "10", ptpDay: 9, balance: "50"},
		agencyLine{account: "1002", card: "ch3", agent: "AGENT1", status: "PTP - NEW", balance: "1"},
		agencyLine{account: "1003", card: "0100", agent: "AGENT1", status: "PTP - NEW", balance: "1", remark: "Updates when case reassign to another collector"},
		agencyLine{account: "9001", card: "0100", agent: "STRANGER", status: "PTP - NEW", balance: "1"},
	)
	a := NewAgency(AgencyOptions{RequireRoster: true}, logging.NewMockLogger())
	params := Params{
		ReportDate: reportDay,
		Productivity: map[string]Productivity{
			"B5": {KeptCount: 3, KeptBalance: decimal.RequireFromString("1500.50"), Allocation: decimal.NewFromInt(90000)},
		},
	}
	res, err := a.Run(context.Background(), in, agencySnapshot(), params)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"AGENCY DAILY REPORT B1 AS OF MARCH 5.xlsx", "B1 Daily Productivity AS OF MARCH 5.xlsx",
		"AGENCY DAILY REPORT B5 AS OF MARCH 5.xlsx", "B5 Daily Productivity AS OF MARCH 5.xlsx",
		"AGENCY DAILY REPORT B6 AS OF MARCH 5.xlsx", "B6 Daily Productivity AS OF MARCH 5.xlsx",
	}, fileNames(res))
	assert.Equal(t, map[string]int{"placeholder_card": 1, "system_remark": 1}, res.Stats.ExcludedBy)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, models.WarnStatusWithoutBucket, res.Warnings[0].Code)

	b5 := res.Workbooks[2]
	assert.Equal(t, AgencyReportTemplate, b5.Template)
	daily := b5.Sheets[0]
	assert.Equal(t, []string{
		"PN", "NAME", "BALANCE", "HANDLING OFFICER2", "AGENCY3", "STATUS4", "DATE OF CALL", "PTP DATE", "PTP AMOUNT", "RFD5",
	}, daily.Columns)
	assert.Equal(t, []string{"5002", "5001"}, column(t, daily, "PN"), "the later complete promise wins")
	assert.Equal(t, []string{"BEN CRUZ", "BEN CRUZ"}, column(t, daily, "HANDLING OFFICER2"), "SYSTEM takes the officer above")
	assert.Equal(t, []string{"SP MADRID", "SP MADRID"}, column(t, daily, "AGENCY3"))
	assert.Equal(t, []string{"UNCON", "PTP"}, column(t, daily, "STATUS4"))
	assert.Equal(t, []string{"03/05/2024", "03/05/2024"}, column(t, daily, "DATE OF CALL"))
	assert.Equal(t, []string{"", "03/11/2024"}, column(t, daily, "PTP DATE"))
	assert.Equal(t, []string{"", "200"}, column(t, daily, "PTP AMOUNT"))
	assert.Equal(t, []string{"NABZ", "DISP"}, column(t, daily, "RFD5"))

	b6 := res.Workbooks[4].Sheets[0]
	assert.Equal(t, []string{"6001"}, column(t, b6, "PN"), "EXCLUDE statuses are dropped")
	assert.Equal(t, []string{""}, column(t, b6, "PTP AMOUNT"), "non-PTP rows lose their promise")
	assert.Equal(t, []string{"NISV"}, column(t, b6, "RFD5"))

	prod := res.Workbooks[3]
	assert.Equal(t, AgencyProductivityTemplate, prod.Template)
	sheet := prod.Sheets[0]
	assert.Zero(t, sheet.Len())
	want := map[string]string{"C2": "03/05/2024", "F8": "1", "G8": "1000", "K8": "3", "K9": "3", "L8": "1500.5", "C13": "90000"}
	for ref, v := range want {
		assert.Equal(t, v, cell(t, sheet, ref), ref)
	}

	b6prod := res.Workbooks[5].Sheets[0]
	assert.Equal(t, "0", cell(t, b6prod, "F8"))
	assert.Equal(t, "0", cell(t, b6prod, "K8"), "missing figures default to zero")
}

func TestAgencyRosterOptional(t *testing.T) {
	in := agencyTable(agencyLine{account: "9001", card: "0200", agent: "STRANGER", status: "PTP - NEW", ptp: "5", ptpDay: 6, balance: "10"})
	res, err := NewAgency(AgencyOptions{}, nil).Run(context.Background(), in, agencySnapshot(), Params{ReportDate: reportDay})
	require.NoError(t, err)

	// An unrostered agent outside the allow list lands in every bucket; the 5&6 split
	// then finds no 05 or 06 card.
	assert.Len(t, res.Workbooks, 4)
	assert.Equal(t, "AGENCY DAILY REPORT B1 AS OF MARCH 5.xlsx", res.Workbooks[0].FileName)
	assert.Empty(t, column(t, res.Workbooks[0].Sheets[0], "HANDLING OFFICER2")[0])
}
