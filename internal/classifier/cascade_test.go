package classifier

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spmadrid/collections-reports/internal/models"
)

func input(account, status string, house bool) CascadeInput {
	return CascadeInput{
		Record: models.Record{AccountID: account, StatusRaw: status},
		Status: ParseStatus(status),
		House:  house,
	}
}

func labelsOf(rows []SyntheticRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Input.Record.AccountID+" "+r.Label.Name)
	}
	return out
}

func TestCuredListCascadeCounts(t *testing.T) {
	for _, n := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("%d accounts", n), func(t *testing.T) {
			var in []CascadeInput
			for i := 0; i < n; i++ {
				in = append(in, input(fmt.Sprint(i), "UNCON - NO ANSWER", false))
			}
			rows := CuredListCascade().Expand(in)
			assert.Len(t, rows, 3*n)
		})
	}
}

func TestCuredListCascadeOrder(t *testing.T) {
	in := []CascadeInput{
		input("A", "UNCON", false),
		input("B", "PTP - NEW", true),
		input("C", "PTP - FOLLOW UP", false),
		input("D", "RTP", false),
	}

	rows := CuredListCascade().Expand(in)
	assert.Equal(t, []string{
		"A " + LabelNew.Name, "D " + LabelNew.Name,
		"A " + LabelFollowUp.Name, "D " + LabelFollowUp.Name,
		"A " + LabelCuredPaid.Name, "D " + LabelCuredPaid.Name,
		"C " + LabelFollowUp.Name,
		"C " + LabelCuredPaid.Name,
		"B " + LabelGhostNew.Name,
		"B " + LabelCuredPaid.Name,
	}, labelsOf(rows))
	assert.Equal(t, "negotiation", rows[0].Rule)
	assert.Equal(t, "house", rows[len(rows)-1].Rule)
}

func TestCuredListCascadeNoPTPIsPromise(t *testing.T) {
	rows := CuredListCascade().Expand([]CascadeInput{input("A", "CALL NO PTP - BUSY", false)})
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"A " + LabelFollowUp.Name, "A " + LabelCuredPaid.Name}, labelsOf(rows))
	assert.Equal(t, "promise", rows[0].Rule)
}

func TestCascadeAccountMajor(t *testing.T) {
	c := CuredListCascade()
	c.Order = OrderAccountMajor

	rows := c.Expand([]CascadeInput{input("A", "UNCON", false), input("D", "RTP", false)})
	require.Len(t, rows, 6)
	assert.Equal(t, []string{
		"A " + LabelNew.Name, "A " + LabelFollowUp.Name, "A " + LabelCuredPaid.Name,
		"D " + LabelNew.Name, "D " + LabelFollowUp.Name, "D " + LabelCuredPaid.Name,
	}, labelsOf(rows))
}

func TestCascadeFirstMatchWins(t *testing.T) {
	always := func(CascadeInput) bool { return true }
	c := Cascade{Rules: []CascadeRule{
		{Name: "first", Match: always, Labels: []ActionLabel{LabelNew}},
		{Name: "second", Match: always, Labels: []ActionLabel{LabelCuredPaid, LabelFollowUp}},
	}}

	rows := c.Expand([]CascadeInput{input("A", "PTP", false)})
	require.Len(t, rows, 1)
	assert.Equal(t, "first", rows[0].Rule)
}

func TestLabelClocks(t *testing.T) {
	assert.Equal(t, [2]int{14, 40}, [2]int{LabelNew.Hour, LabelNew.Minute})
	assert.Equal(t, [2]int{14, 50}, [2]int{LabelFollowUp.Hour, LabelFollowUp.Minute})
	assert.Equal(t, [2]int{15, 0}, [2]int{LabelCuredPaid.Hour, LabelCuredPaid.Minute})
	assert.Equal(t, LabelPTPNew, LabelGhostNew.Kind)
}

func TestIsHouseAgent(t *testing.T) {
	assert.True(t, IsHouseAgent(" spmadrid ", "SPMADRID"))
	assert.False(t, IsHouseAgent("AGENT1", "SPMADRID"))
	assert.False(t, IsHouseAgent("", ""))
}
