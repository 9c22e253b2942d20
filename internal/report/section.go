package report

import "spmadrid/collections-reports/internal/models"

// PriorityLabel claims the rows matching Match for Label.
type PriorityLabel[T any] struct {
	Label string
	Match func(T) bool
}

// SectionColumn fills one column of a section row.
type SectionColumn[T any] struct {
	Col   int
	Value func(row T, label string) models.Value
}

// PrioritySection writes one line per claimed row starting at StartRow. Labels are tried
// in declared order and a row is claimed by the first label that matches it, so a
// specific label listed first is never swallowed by a broader one listed later.
// The section always spans at least MinRows lines; padding lines blank the Pad columns.
type PrioritySection[T any] struct {
	StartRow int
	MinRows  int
	Labels   []PriorityLabel[T]
	Columns  []SectionColumn[T]
	Pad      []int
}

// Cells renders the section.
func (p PrioritySection[T]) Cells(rows []T) []Cell {
	claimed := make([]bool, len(rows))
	var out []Cell
	line := p.StartRow
	for _, l := range p.Labels {
		for i, r := range rows {
			if claimed[i] || !l.Match(r) {
				continue
			}
			claimed[i] = true
			for _, c := range p.Columns {
				out = append(out, Cell{Ref: Ref(c.Col, line), Value: c.Value(r, l.Label)})
			}
			line++
		}
	}
	for ; line < p.StartRow+p.MinRows; line++ {
		for _, col := range p.Pad {
			out = append(out, Cell{Ref: Ref(col, line), Value: models.Text("")})
		}
	}
	return out
}
