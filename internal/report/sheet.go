// Package report turns classified rows into named output sheets: column projections,
// summary cells at fixed coordinates and label-priority sections.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"spmadrid/collections-reports/internal/models"
)

// Cell is a value written at a fixed coordinate such as "C2".
type Cell struct {
	Ref   string
	Value models.Value
}

// Sheet is one output table. Rows follow Columns positionally; Cells are written
// after the rows and may overlap neither.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]models.Value
	Cells   []Cell
}

// Len is the number of data rows.
func (s *Sheet) Len() int { return len(s.Rows) }

// Column returns the values of column name, nil when it does not exist.
func (s *Sheet) Column(name string) []models.Value {
	i := -1
	for j, c := range s.Columns {
		if c == name {
			i = j
			break
		}
	}
	if i < 0 {
		return nil
	}
	out := make([]models.Value, 0, len(s.Rows))
	for _, r := range s.Rows {
		if i < len(r) {
			out = append(out, r[i])
		} else {
			out = append(out, models.Absent())
		}
	}
	return out
}

// Cell returns the summary cell written at ref.
func (s *Sheet) Cell(ref string) (models.Value, bool) {
	for i := len(s.Cells) - 1; i >= 0; i-- {
		if s.Cells[i].Ref == ref {
			return s.Cells[i].Value, true
		}
	}
	return models.Absent(), false
}

// Workbook is a named set of sheets exported to one file.
type Workbook struct {
	FileName string
	// Template names a template workbook the export appends to; empty writes a fresh file.
	Template string
	Sheets   []*Sheet
}

// Sheet returns the sheet called name.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Ref builds an "A1" coordinate from a 1-based column and row.
func Ref(col, row int) string {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		panic(fmt.Sprintf("report: invalid cell %d,%d: %v", col, row, err))
	}
	return ref
}
