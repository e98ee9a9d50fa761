package dataframe

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
)

// String renders the frame as a plain text grid with a leading row index.
func (f *Frame) String() string {
	if len(f.columns) == 0 {
		return fmt.Sprintf("Empty table (%d rows, 0 columns)", len(f.rows))
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\t"+strings.Join(f.columns, "\t"))
	for i, row := range f.rows {
		cells := make([]string, 0, len(f.columns)+1)
		cells = append(cells, strconv.Itoa(i))
		for _, c := range f.columns {
			cells = append(cells, sanitizeCell(FormatValue(row[c])))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// FormatValue renders a single cell. Missing cells render as NaN.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NaN"
	case float64:
		return FormatFloat(val)
	case float32:
		return FormatFloat(float64(val))
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
