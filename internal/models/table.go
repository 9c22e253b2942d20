package models

// Header maps column names to positions. It is shared by a table and its rows and never mutated.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader builds a header. On duplicate names the first position wins.
func NewHeader(names []string) *Header {
	h := &Header{names: append([]string(nil), names...), index: make(map[string]int, len(names))}
	for i, n := range names {
		if _, seen := h.index[n]; !seen {
			h.index[n] = i
		}
	}
	return h
}

// Names returns a copy of the column names in order.
func (h *Header) Names() []string { return append([]string(nil), h.names...) }

// Len is the number of columns.
func (h *Header) Len() int { return len(h.names) }

// Index returns the position of name.
func (h *Header) Index(name string) (int, bool) {
	i, ok := h.index[name]
	return i, ok
}

// Row is one record of a Table.
type Row struct {
	// Line is the 1-based line of the row in the source sheet.
	Line   int
	cells  []Value
	header *Header
}

// NewRow builds a row under header h.
func NewRow(h *Header, line int, cells []Value) Row {
	return Row{Line: line, cells: cells, header: h}
}

// Get returns the value of column name, Absent when the column does not exist.
func (r Row) Get(name string) Value {
	if r.header == nil {
		return Absent()
	}
	i, ok := r.header.Index(name)
	if !ok {
		return Absent()
	}
	return r.At(i)
}

// At returns the value at a 0-based position, Absent when out of range.
func (r Row) At(i int) Value {
	if i < 0 || i >= len(r.cells) {
		return Absent()
	}
	return r.cells[i]
}

// Text returns the string form of column name.
func (r Row) Text(name string) string { return r.Get(name).String() }

// Values returns a copy of the cells.
func (r Row) Values() []Value { return append([]Value(nil), r.cells...) }

// Len is the number of cells.
func (r Row) Len() int { return len(r.cells) }

// IsBlank reports a row whose cells are all blank.
func (r Row) IsBlank() bool {
	for _, c := range r.cells {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

// Table is a normalized sheet: an ordered header and its rows.
type Table struct {
	Sheet  string
	header *Header
	Rows   []Row
}

// NewTable builds a table from column names and cell rows. Lines are numbered from 2.
func NewTable(sheet string, columns []string, rows [][]Value) *Table {
	h := NewHeader(columns)
	t := &Table{Sheet: sheet, header: h, Rows: make([]Row, 0, len(rows))}
	for i, cells := range rows {
		t.Rows = append(t.Rows, NewRow(h, i+2, cells))
	}
	return t
}

// NewTableFromRows builds a table over an existing header. Rows keep their own line numbers.
func NewTableFromRows(sheet string, h *Header, rows []Row) *Table {
	return &Table{Sheet: sheet, header: h, Rows: rows}
}

// Header returns the table header.
func (t *Table) Header() *Header { return t.header }

// Columns returns the column names.
func (t *Table) Columns() []string { return t.header.Names() }

// Has reports whether the table has column name.
func (t *Table) Has(name string) bool {
	_, ok := t.header.Index(name)
	return ok
}

// Len is the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Filter returns a new table holding the rows for which keep is true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{Sheet: t.Sheet, header: t.header}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// WithRows returns a new table sharing the header with a different row set.
func (t *Table) WithRows(rows []Row) *Table {
	return &Table{Sheet: t.Sheet, header: t.header, Rows: rows}
}

// Index builds a map from the text of column key to the first row carrying it.
func (t *Table) Index(key string) map[string]Row {
	out := make(map[string]Row, len(t.Rows))
	for _, r := range t.Rows {
		k := r.Text(key)
		if k == "" {
			continue
		}
		if _, seen := out[k]; !seen {
			out[k] = r
		}
	}
	return out
}
