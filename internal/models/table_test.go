package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return NewTable("Sheet1", []string{"Account No.", "Status", "Status"}, [][]Value{
		{Text("100"), Text("PTP - NEW"), Text("dup")},
		{Text("200"), Absent()},
		{Absent(), Absent(), Absent()},
		{Text("100"), Text("PAYMENT")},
	})
}

func TestTableAccess(t *testing.T) {
	tbl := sampleTable()
	require.Equal(t, 4, tbl.Len())
	assert.True(t, tbl.Has("Status"))
	assert.False(t, tbl.Has("Remark"))

	first := tbl.Rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "PTP - NEW", first.Text("Status"), "first duplicate header wins")
	assert.Equal(t, "dup", first.At(2).String())
	assert.True(t, first.Get("Missing").IsAbsent())
	assert.True(t, tbl.Rows[1].At(5).IsAbsent(), "short rows read as absent")
	assert.True(t, tbl.Rows[2].IsBlank())
}

func TestTableFilterAndIndex(t *testing.T) {
	tbl := sampleTable()
	nonBlank := tbl.Filter(func(r Row) bool { return !r.IsBlank() })
	assert.Equal(t, 3, nonBlank.Len())
	assert.Equal(t, 4, tbl.Len(), "filter does not mutate the source")

	idx := tbl.Index("Account No.")
	require.Len(t, idx, 2)
	assert.Equal(t, 2, idx["100"].Line, "index keeps the first row per key")
}
