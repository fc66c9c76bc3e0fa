package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"prosumer_scenarios/internal/model"
)

// Table is a header plus string cells, the common form of CSV files and
// spreadsheet sheets.
//
// Repeated header names are disambiguated by appending ".1", ".2", ... to
// the later occurrences, so a sheet with two "t=1" columns exposes "t=1"
// and "t=1.1".
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable builds a Table, padding short rows to the header width.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{
		Header: dedupHeader(header),
		Rows:   make([][]string, len(rows)),
		index:  make(map[string]int, len(header)),
	}
	for i, name := range t.Header {
		t.index[name] = i
	}
	for i, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		t.Rows[i] = row
	}
	return t
}

func dedupHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if n, ok := seen[name]; ok {
			candidate := fmt.Sprintf("%s.%d", name, n)
			for taken[candidate] {
				n++
				candidate = fmt.Sprintf("%s.%d", name, n)
			}
			seen[name] = n + 1
			name = candidate
		} else {
			seen[name] = 1
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// RequireColumns returns the indexes of the named columns or a data shape
// error naming the first missing one.
func (t *Table) RequireColumns(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		c, ok := t.index[name]
		if !ok {
			return nil, model.DataShapeErrorf("missing column %q", name)
		}
		idx[i] = c
	}
	return idx, nil
}

// Cell returns the trimmed cell at row, col.
func (t *Table) Cell(row, col int) string {
	if col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// Float parses the cell at row, col.
func (t *Table) Float(row, col int) (float64, error) {
	s := t.Cell(row, col)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, model.DataShapeErrorf("row %d column %q: %q is not a number", row+1, t.Header[col], s)
	}
	return v, nil
}

// Int parses the cell at row, col. Integral floats such as "8.0" are
// accepted since spreadsheet exports often write them that way.
func (t *Table) Int(row, col int) (int, error) {
	v, err := t.Float(row, col)
	if err != nil {
		return 0, err
	}
	if v != float64(int(v)) {
		return 0, model.DataShapeErrorf("row %d column %q: %v is not an integer", row+1, t.Header[col], v)
	}
	return int(v), nil
}

// FloatMatrix parses every cell as a number.
func (t *Table) FloatMatrix() ([][]float64, error) {
	m := make([][]float64, len(t.Rows))
	for r := range t.Rows {
		m[r] = make([]float64, len(t.Header))
		for c := range t.Header {
			v, err := t.Float(r, c)
			if err != nil {
				return nil, err
			}
			m[r][c] = v
		}
	}
	return m, nil
}
