// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package typetable reads SONATA type tables: whitespace-delimited CSV files
keyed by an integer node_type_id or edge_type_id column, assigning a model
and its parameters to each type id.  Tables are materialized as etable
Tables with the key column as INT64 and everything else as STRING.
*/
package typetable

import (
	"os"
	"strconv"
	"strings"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"

	"github.com/emer/sonata/errs"
)

// key column names recognized in type tables
const (
	NodeKey = "node_type_id"
	EdgeKey = "edge_type_id"
)

// Table is one type table, wrapping the underlying etable with the
// file path and key column it was read with.
type Table struct {
	Path string `desc:"file the table was read from, for error messages"`
	Key  string `desc:"name of the integer key column (node_type_id or edge_type_id)"`

	dt *etable.Table
}

// Read parses the whitespace-delimited CSV type table at path.  The file
// must have a header line containing node_type_id or edge_type_id and at
// least one data row.
func Read(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IOf("read type table %s: %w", path, err)
	}
	var lines []string
	for _, ln := range strings.Split(string(b), "\n") {
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) < 2 {
		return nil, errs.Configf("type table %s has no data rows", path)
	}
	header := strings.Fields(lines[0])

	key := ""
	for _, col := range header {
		if col == NodeKey || col == EdgeKey {
			key = col
			break
		}
	}
	if key == "" {
		return nil, errs.Configf("type table %s has neither a %s nor an %s column", path, NodeKey, EdgeKey)
	}

	sc := make(etable.Schema, len(header))
	for i, col := range header {
		typ := etensor.STRING
		if col == key {
			typ = etensor.INT64
		}
		sc[i] = etable.Column{col, typ, nil, nil}
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sc, len(lines)-1)

	for row, ln := range lines[1:] {
		fields := strings.Fields(ln)
		if len(fields) != len(header) {
			return nil, errs.Configf("type table %s row %d has %d fields, header has %d", path, row+1, len(fields), len(header))
		}
		for i, col := range header {
			if col == key {
				id, err := strconv.ParseInt(fields[i], 10, 64)
				if err != nil {
					return nil, errs.Configf("type table %s row %d: %s %q is not an integer", path, row+1, key, fields[i])
				}
				dt.SetCellFloat(col, row, float64(id))
			} else {
				dt.SetCellString(col, row, fields[i])
			}
		}
	}
	return &Table{Path: path, Key: key, dt: dt}, nil
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	return t.dt.Rows
}

// Cols returns the column names in file order.
func (t *Table) Cols() []string {
	out := make([]string, len(t.dt.ColNames))
	copy(out, t.dt.ColNames)
	return out
}

// HasCol reports whether the table has the named column.
func (t *Table) HasCol(name string) bool {
	_, ok := t.dt.ColNameMap[name]
	return ok
}

// Str returns the string value at the named column and row.
func (t *Table) Str(col string, row int) string {
	return t.dt.CellString(col, row)
}

// Float returns the value at the named column and row parsed as a
// float64, and whether the parse succeeded.
func (t *Table) Float(col string, row int) (float64, bool) {
	f, err := strconv.ParseFloat(t.dt.CellString(col, row), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ID returns the key column value of the given row.
func (t *Table) ID(row int) int64 {
	return int64(t.dt.CellFloat(t.Key, row))
}

// SingleValue reports whether every row carries the same value in the
// named column, returning that value when so.  A missing column or empty
// table reports false.
func (t *Table) SingleValue(col string) (string, bool) {
	if !t.HasCol(col) || t.dt.Rows == 0 {
		return "", false
	}
	first := t.dt.CellString(col, 0)
	for row := 1; row < t.dt.Rows; row++ {
		if t.dt.CellString(col, row) != first {
			return "", false
		}
	}
	return first, true
}

// Rename renames a column, tolerantly: a missing old name is a no-op.
func (t *Table) Rename(old, new string) {
	idx, ok := t.dt.ColNameMap[old]
	if !ok {
		return
	}
	t.dt.ColNames[idx] = new
	delete(t.dt.ColNameMap, old)
	t.dt.ColNameMap[new] = idx
}

// StripPrefix removes the given prefix from every value of the named
// column, where present.
func (t *Table) StripPrefix(col, prefix string) {
	if !t.HasCol(col) {
		return
	}
	for row := 0; row < t.dt.Rows; row++ {
		v := t.dt.CellString(col, row)
		if strings.HasPrefix(v, prefix) {
			t.dt.SetCellString(col, row, strings.TrimPrefix(v, prefix))
		}
	}
}
