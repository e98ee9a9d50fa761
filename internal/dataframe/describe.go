package dataframe

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Statistic row labels, in the order Describe emits them.
const (
	StatCount  = "count"
	StatUnique = "unique"
	StatTop    = "top"
	StatFreq   = "freq"
	StatMean   = "mean"
	StatStd    = "std"
	StatMin    = "min"
	StatP25    = "25%"
	StatP50    = "50%"
	StatP75    = "75%"
	StatMax    = "max"
)

var (
	categoricalStats = []string{StatUnique, StatTop, StatFreq}
	numericStats     = []string{StatMean, StatStd, StatMin, StatP25, StatP50, StatP75, StatMax}
)

// ColumnSummary holds the describe statistics of one column. Numeric stats are NaN for
// non-numeric columns; Unique, Top and Freq are only set for non-numeric columns.
type ColumnSummary struct {
	Name    string
	Numeric bool
	Count   int
	Unique  int
	Top     string
	HasTop  bool
	Freq    int
	Mean    float64
	Std     float64
	Min     float64
	P25     float64
	P50     float64
	P75     float64
	Max     float64
}

// Summary is the result of Describe: one ColumnSummary per frame column, in column order.
type Summary struct {
	Rows    int
	Columns []ColumnSummary
}

// Describe summarizes every column. A column is numeric when it has at least one present value
// and all present values are numbers.
func (f *Frame) Describe() Summary {
	s := Summary{Rows: len(f.rows), Columns: make([]ColumnSummary, 0, len(f.columns))}
	for _, c := range f.columns {
		s.Columns = append(s.Columns, describeColumn(c, f.Column(c)))
	}
	return s
}

func describeColumn(name string, values []any) ColumnSummary {
	cs := ColumnSummary{Name: name}
	nums := make([]float64, 0, len(values))
	numeric := true
	for _, v := range values {
		if v == nil {
			continue
		}
		cs.Count++
		if n, ok := toFloat(v); ok && !isBool(v) {
			nums = append(nums, n)
		} else {
			numeric = false
		}
	}
	cs.Numeric = numeric && cs.Count > 0
	if cs.Numeric {
		cs.Mean, cs.Std = meanStd(nums)
		sort.Float64s(nums)
		cs.Min = nums[0]
		cs.Max = nums[len(nums)-1]
		cs.P25 = quantile(nums, 0.25)
		cs.P50 = quantile(nums, 0.50)
		cs.P75 = quantile(nums, 0.75)
		return cs
	}

	cs.Mean, cs.Std, cs.Min, cs.P25, cs.P50, cs.P75, cs.Max = nan(), nan(), nan(), nan(), nan(), nan(), nan()
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if v == nil {
			continue
		}
		key := fmt.Sprint(v)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}
	cs.Unique = len(counts)
	// ties go to the value seen first
	for _, key := range order {
		if counts[key] > cs.Freq {
			cs.Top, cs.Freq, cs.HasTop = key, counts[key], true
		}
	}
	return cs
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

// meanStd returns the mean and sample standard deviation (n-1). Std is NaN for a single value.
func meanStd(xs []float64) (float64, float64) {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	if len(xs) < 2 {
		return mean, nan()
	}
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(xs)-1))
}

// quantile uses linear interpolation between closest ranks. sorted must be non-empty.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func nan() float64 { return math.NaN() }

// Stats returns the statistic labels present in the summary. Categorical rows appear only when
// some column is non-numeric, numeric rows only when some column is numeric.
func (s Summary) Stats() []string {
	var hasNumeric, hasCategorical bool
	for _, c := range s.Columns {
		if c.Numeric {
			hasNumeric = true
		} else {
			hasCategorical = true
		}
	}
	stats := []string{StatCount}
	if hasCategorical || !hasNumeric {
		stats = append(stats, categoricalStats...)
	}
	if hasNumeric {
		stats = append(stats, numericStats...)
	}
	return stats
}

// Cell renders one statistic of one column.
func (c ColumnSummary) Cell(stat string) string {
	switch stat {
	case StatCount:
		return strconv.Itoa(c.Count)
	case StatUnique:
		if c.Numeric {
			return "NaN"
		}
		return strconv.Itoa(c.Unique)
	case StatTop:
		if c.Numeric || !c.HasTop {
			return "NaN"
		}
		return c.Top
	case StatFreq:
		if c.Numeric || !c.HasTop {
			return "NaN"
		}
		return strconv.Itoa(c.Freq)
	case StatMean:
		return FormatFloat(c.Mean)
	case StatStd:
		return FormatFloat(c.Std)
	case StatMin:
		return FormatFloat(c.Min)
	case StatP25:
		return FormatFloat(c.P25)
	case StatP50:
		return FormatFloat(c.P50)
	case StatP75:
		return FormatFloat(c.P75)
	case StatMax:
		return FormatFloat(c.Max)
	}
	return ""
}

// String renders the summary as a plain text grid with statistics as rows and columns as
// columns. The output depends only on the frame contents.
func (s Summary) String() string {
	if len(s.Columns) == 0 {
		return fmt.Sprintf("Empty table (%d rows, 0 columns)", s.Rows)
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(s.Columns)+1)
	header = append(header, "")
	for _, c := range s.Columns {
		header = append(header, c.Name)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, stat := range s.Stats() {
		cells := make([]string, 0, len(s.Columns)+1)
		cells = append(cells, stat)
		for _, c := range s.Columns {
			cells = append(cells, sanitizeCell(c.Cell(stat)))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// FormatFloat renders a float with at most six decimals and no trailing zeros.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 0) {
		if v > 0 {
			return "inf"
		}
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}

func sanitizeCell(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}
