// Package table models tabular data with per-column kinds so anonymization
// can tell free-text columns from typed ones.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a column's values. It is decided once when the table is
// loaded and never re-inspected per cell.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindBool
)

// String returns the kind's name
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is one named column with its declared kind
type Column struct {
	Name  string
	Kind  Kind
	Cells []string
}

// Table is an ordered sequence of named columns. Rows are positional: cell i
// of every column belongs to row i.
type Table struct {
	Columns []Column
}

// New builds a table from a header row and row-major records, inferring each
// column's kind from its values. Ragged rows are tolerated; missing cells
// become empty strings.
func New(headers []string, rows [][]string) *Table {
	columns := make([]Column, len(headers))
	for i, name := range headers {
		cells := make([]string, len(rows))
		for j, row := range rows {
			if i < len(row) {
				cells[j] = row[i]
			}
		}
		columns[i] = Column{
			Name:  name,
			Kind:  inferKind(cells),
			Cells: cells,
		}
	}
	return &Table{Columns: columns}
}

// Headers returns the column names in order
func (t *Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Name
	}
	return headers
}

// NumRows returns the row count
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// NumCols returns the column count
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// Rows returns a row-major copy of the table's cells
func (t *Table) Rows() [][]string {
	rows := make([][]string, t.NumRows())
	for i := range rows {
		row := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			row[j] = col.Cells[i]
		}
		rows[i] = row
	}
	return rows
}

// Column returns the named column, or nil when absent
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	columns := make([]Column, len(t.Columns))
	for i, col := range t.Columns {
		columns[i] = Column{
			Name:  col.Name,
			Kind:  col.Kind,
			Cells: append([]string(nil), col.Cells...),
		}
	}
	return &Table{Columns: columns}
}

// inferKind decides a column's kind from its values. A column is numeric or
// bool only when every non-empty cell parses as such; anything else, and a
// column with no values at all, is text.
func inferKind(cells []string) Kind {
	sawValue := false

	numeric := true
	boolean := true
	for _, cell := range cells {
		v := strings.TrimSpace(cell)
		if v == "" {
			continue
		}
		sawValue = true

		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
		}
		if _, err := strconv.ParseBool(v); err != nil {
			boolean = false
		}
		if !numeric && !boolean {
			return KindText
		}
	}

	if !sawValue {
		return KindText
	}
	if numeric {
		return KindNumeric
	}
	return KindBool
}
