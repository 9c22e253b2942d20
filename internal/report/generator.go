package report

import (
	"sort"

	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/models"
)

// SheetSpec declares one output sheet over rows of type T.
type SheetSpec[T any] struct {
	Name string
	// Filter selects the rows projected into the sheet; nil keeps every row.
	Filter func(T) bool
	// Less stably orders the projected rows; nil keeps input order.
	Less func(a, b T) bool
	// Columns may be empty for summary-only sheets, which then hold no rows.
	Columns []Column[T]
	// Summary cells and sections aggregate the full row set handed to the generator,
	// not only the filtered rows.
	Summary  []SummaryCell[T]
	Sections []PrioritySection[T]
}

// Build renders the sheet from rows.
func (s SheetSpec[T]) Build(rows []T) *Sheet {
	sheet := &Sheet{Name: s.Name, Columns: make([]string, len(s.Columns))}
	for i, c := range s.Columns {
		sheet.Columns[i] = c.Name
	}

	selected := make([]T, 0, len(rows))
	for _, r := range rows {
		if s.Filter == nil || s.Filter(r) {
			selected = append(selected, r)
		}
	}
	if s.Less != nil {
		sort.SliceStable(selected, func(i, j int) bool { return s.Less(selected[i], selected[j]) })
	}

	for _, r := range selected {
		if len(s.Columns) == 0 {
			break
		}
		line := make([]models.Value, len(s.Columns))
		for i, c := range s.Columns {
			line[i] = c.Value(r)
		}
		sheet.Rows = append(sheet.Rows, line)
	}
	for _, c := range s.Summary {
		sheet.Cells = append(sheet.Cells, Cell{Ref: c.Ref, Value: c.Value(rows)})
	}
	for _, sec := range s.Sections {
		sheet.Cells = append(sheet.Cells, sec.Cells(rows)...)
	}
	return sheet
}

// Generator assembles workbooks from sheet specs.
type Generator[T any] struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator[T any](logger logging.Logger) *Generator[T] {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator[T]{logger: logger}
}

// Assemble builds one workbook holding a sheet per spec, in spec order.
func (g *Generator[T]) Assemble(fileName string, rows []T, specs ...SheetSpec[T]) *Workbook {
	wb := &Workbook{FileName: fileName}
	for _, spec := range specs {
		sheet := spec.Build(rows)
		g.logger.Debug("Assembled sheet",
			logging.F(logging.FieldOutputFile, fileName),
			logging.F(logging.FieldSheet, sheet.Name),
			logging.F(logging.FieldCount, sheet.Len()))
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb
}
