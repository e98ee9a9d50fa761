// Package dataframe holds the small in-memory table used to consolidate report pages.
//
// A Frame keeps an ordered column list and ordered rows. A cell is missing when the row has
// no entry for the column or the entry is nil.
package dataframe

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

type Frame struct {
	columns []string
	rows    []map[string]any
}

// New returns an empty frame with the given columns.
func New(columns ...string) *Frame {
	f := &Frame{}
	f.addColumns(columns)
	return f
}

// FromRecords builds a frame from flat or nested records. Nested objects are flattened into
// dot separated column names. Columns appear in first-seen order.
func FromRecords(records []map[string]any) *Frame {
	f := &Frame{rows: make([]map[string]any, 0, len(records))}
	for _, rec := range records {
		row := make(map[string]any, len(rec))
		var order []string
		flatten("", rec, row, &order)
		f.addColumns(order)
		f.rows = append(f.rows, row)
	}
	return f
}

func flatten(prefix string, in map[string]any, out map[string]any, order *[]string) {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	// json.Unmarshal into a map loses key order, so sort for a stable schema.
	sort.Strings(keys)
	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		if nested, ok := in[k].(map[string]any); ok && len(nested) > 0 {
			flatten(name, nested, out, order)
			continue
		}
		out[name] = in[k]
		*order = append(*order, name)
	}
}

// Concat stacks frames in order. The result's columns are the union of all columns in
// first-seen order; cells a frame did not have remain missing.
func Concat(frames ...*Frame) *Frame {
	out := &Frame{}
	for _, f := range frames {
		if f == nil {
			continue
		}
		out.addColumns(f.columns)
		for _, row := range f.rows {
			out.rows = append(out.rows, copyRow(row))
		}
	}
	return out
}

func (f *Frame) Len() int { return len(f.rows) }

func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

func (f *Frame) HasColumn(name string) bool {
	return f.indexOf(name) >= 0
}

// Value returns the cell at row i, column name, and whether it is present.
func (f *Frame) Value(i int, name string) (any, bool) {
	if i < 0 || i >= len(f.rows) {
		return nil, false
	}
	v, ok := f.rows[i][name]
	return v, ok && v != nil
}

// Rows returns the cells in column order, one slice per row.
func (f *Frame) Rows() [][]any {
	out := make([][]any, len(f.rows))
	for i, row := range f.rows {
		vals := make([]any, len(f.columns))
		for j, c := range f.columns {
			vals[j] = row[c]
		}
		out[i] = vals
	}
	return out
}

// Column returns the cells of one column in row order.
func (f *Frame) Column(name string) []any {
	if !f.HasColumn(name) {
		return nil
	}
	out := make([]any, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[name]
	}
	return out
}

// FillMissing sets every missing cell to value.
func (f *Frame) FillMissing(value any) {
	for _, row := range f.rows {
		for _, c := range f.columns {
			if v, ok := row[c]; !ok || v == nil {
				row[c] = value
			}
		}
	}
}

// Rename renames columns in place, keeping their position. Pairs whose source column does
// not exist, or whose target already exists, are skipped, so applying the same mapping twice
// leaves the frame unchanged.
func (f *Frame) Rename(mapping map[string]string) {
	olds := make([]string, 0, len(mapping))
	for old := range mapping {
		olds = append(olds, old)
	}
	sort.Strings(olds)
	for _, old := range olds {
		nw := mapping[old]
		idx := f.indexOf(old)
		if idx < 0 || old == nw || f.HasColumn(nw) {
			continue
		}
		f.columns[idx] = nw
		for _, row := range f.rows {
			if v, ok := row[old]; ok {
				row[nw] = v
				delete(row, old)
			}
		}
	}
}

// Drop removes the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) {
	for _, name := range names {
		idx := f.indexOf(name)
		if idx < 0 {
			continue
		}
		f.columns = append(f.columns[:idx], f.columns[idx+1:]...)
		for _, row := range f.rows {
			delete(row, name)
		}
	}
}

// EnsureColumns appends any of the named columns the frame lacks, setting them to fill on
// existing rows.
func (f *Frame) EnsureColumns(fill any, names ...string) {
	for _, name := range names {
		if f.HasColumn(name) {
			continue
		}
		f.columns = append(f.columns, name)
		for _, row := range f.rows {
			row[name] = fill
		}
	}
}

// Reorder moves the named columns to the front in the given order. Unknown names are ignored
// and the remaining columns keep their relative order.
func (f *Frame) Reorder(names ...string) {
	front := make([]string, 0, len(f.columns))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if f.HasColumn(n) && !seen[n] {
			front = append(front, n)
			seen[n] = true
		}
	}
	for _, c := range f.columns {
		if !seen[c] {
			front = append(front, c)
		}
	}
	f.columns = front
}

// CoerceNumeric converts numeric strings to float64 in each named column whose present values
// all parse as finite numbers. With no names every column is considered.
func (f *Frame) CoerceNumeric(names ...string) {
	candidates := names
	if len(candidates) == 0 {
		candidates = f.columns
	}
	for _, c := range candidates {
		if !f.HasColumn(c) {
			continue
		}
		parsed := make([]float64, len(f.rows))
		convertible, sawString := true, false
		for i, row := range f.rows {
			v, ok := row[c]
			if !ok || v == nil {
				continue
			}
			if s, isStr := v.(string); isStr {
				n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
				if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
					convertible = false
					break
				}
				parsed[i] = n
				sawString = true
				continue
			}
			n, isNum := toFloat(v)
			if !isNum {
				convertible = false
				break
			}
			parsed[i] = n
		}
		if !convertible || !sawString {
			continue
		}
		for i, row := range f.rows {
			if v, ok := row[c]; ok && v != nil {
				row[c] = parsed[i]
			}
		}
	}
}

func (f *Frame) addColumns(names []string) {
	for _, n := range names {
		if !f.HasColumn(n) {
			f.columns = append(f.columns, n)
		}
	}
}

func (f *Frame) indexOf(name string) int {
	for i, c := range f.columns {
		if c == name {
			return i
		}
	}
	return -1
}

func copyRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
