// Package table defines the immutable tabular data model the analysis
// pipeline operates on. A Table is an ordered sequence of equally sized
// named columns; every transform builds a new Table rather than mutating
// in place, so the original stays available for archival.
package table

import (
	"sort"

	"csvscope/domain/core"
)

// ColumnType is the inferred semantic type of a column. It is assigned
// once during cleaning and drives every downstream decision: imputation
// strategy, statistic set, and plot selection.
type ColumnType string

const (
	Numeric     ColumnType = "numeric"
	Temporal    ColumnType = "temporal"
	Categorical ColumnType = "categorical"
)

// Column is a named, typed, ordered sequence of cells
type Column struct {
	Name  string
	Type  ColumnType
	Cells []Value
}

// NewColumn builds a categorical column from raw cells. Freshly ingested
// columns are categorical until the coercer reclassifies them.
func NewColumn(name string, cells []Value) Column {
	return Column{Name: name, Type: Categorical, Cells: cells}
}

// Retyped returns a copy of the column with new cells and type
func (c Column) Retyped(t ColumnType, cells []Value) Column {
	return Column{Name: c.Name, Type: t, Cells: cells}
}

// WithCells returns a copy of the column carrying new cells
func (c Column) WithCells(cells []Value) Column {
	return Column{Name: c.Name, Type: c.Type, Cells: cells}
}

// Len returns the row count
func (c Column) Len() int { return len(c.Cells) }

// MissingCount returns the number of missing cells
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Cells {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// AllMissing reports whether every cell is missing
func (c Column) AllMissing() bool {
	return c.MissingCount() == len(c.Cells)
}

// Floats returns the present numeric payloads in row order
func (c Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, v := range c.Cells {
		if !v.IsMissing() && v.Kind() == KindNumeric {
			out = append(out, v.Float())
		}
	}
	return out
}

// PresentStrings returns the present textual payloads in row order
func (c Column) PresentStrings() []string {
	out := make([]string, 0, len(c.Cells))
	for _, v := range c.Cells {
		if !v.IsMissing() && v.Kind() == KindString {
			out = append(out, v.Text())
		}
	}
	return out
}

// DistinctPresent returns the sorted distinct present values rendered to
// their canonical text form
func (c Column) DistinctPresent() []string {
	seen := make(map[string]struct{})
	for _, v := range c.Cells {
		if !v.IsMissing() {
			seen[v.Render()] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Table is an ordered collection of columns with equal row counts and
// unique names
type Table struct {
	columns []Column
}

// New validates the column set and builds a table
func New(columns []Column) (Table, error) {
	names := make(map[string]struct{}, len(columns))
	rows := -1
	for _, c := range columns {
		if _, dup := names[c.Name]; dup {
			return Table{}, core.NewColumnError(c.Name, core.ErrDuplicateColumn)
		}
		names[c.Name] = struct{}{}
		if rows == -1 {
			rows = len(c.Cells)
		} else if rows != len(c.Cells) {
			return Table{}, core.NewColumnError(c.Name, core.ErrRaggedColumns)
		}
	}
	return Table{columns: columns}, nil
}

// NumRows returns the row count (0 for a table with no columns)
func (t Table) NumRows() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0].Cells)
}

// NumCols returns the column count
func (t Table) NumCols() int { return len(t.columns) }

// IsEmpty reports whether the table has zero rows or zero columns
func (t Table) IsEmpty() bool {
	return t.NumRows() == 0 || t.NumCols() == 0
}

// Columns returns the columns in order. The returned slice is a copy;
// callers cannot alter the table through it.
func (t Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column looks a column up by name
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the ordered column names
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Name
	}
	return out
}

// WithColumns builds a new table from replacement columns, preserving the
// original. Column order, row counts and name uniqueness are re-validated.
func (t Table) WithColumns(columns []Column) (Table, error) {
	return New(columns)
}

// TotalMissing counts missing cells across the whole table
func (t Table) TotalMissing() int {
	n := 0
	for _, c := range t.columns {
		n += c.MissingCount()
	}
	return n
}
